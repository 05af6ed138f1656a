package fec

import (
	"time"

	"github.com/quic-go/fecwindow/internal/protocol"
	"github.com/quic-go/fecwindow/internal/solver"
	"github.com/quic-go/fecwindow/internal/wire"
)

// A SourceSymbol is a protected unit of data.
type SourceSymbol struct {
	ID      protocol.SymbolID
	Payload []byte
}

// Solver solves the linear system built by a decoder from source and repair symbols.
type Solver interface {
	AddKnownSymbol(id protocol.SymbolID, payload []byte) ([]protocol.SymbolID, error)
	AddEquation(eq *solver.Equation) ([]protocol.SymbolID, error)
	Value(id protocol.SymbolID) ([]byte, bool)
	RemoveUpTo(id protocol.SymbolID) protocol.SymbolID
	RemoveExpired(expiredAt time.Time)
	Range() (protocol.SymbolID, protocol.SymbolID, bool)
	LargestContiguouslyKnown() (protocol.SymbolID, bool)
	MissingDegrees() (uint64, bool)
}

// Encoder is the sender side of a coding scheme.
// It is implemented by the RLC and the VLC encoder only.
type Encoder interface {
	Scheme() protocol.FECSchemeID
	// ProtectData adds a source symbol to the window and returns its id.
	ProtectData(payload []byte) (protocol.SymbolID, error)
	// GenerateRepairSymbolUpTo generates a repair symbol over the retained ids up to id.
	GenerateRepairSymbolUpTo(id protocol.SymbolID) ([]byte, error)
	// GenerateRepairSymbol generates a repair symbol over all retained ids.
	GenerateRepairSymbol() ([]byte, error)
	ReceivedSymbol(id protocol.SymbolID)
	ReceivedSymbolMetadata(b []byte) error
	HandleSymbolAck(f *wire.SymbolAckFrame)
	LargestContiguouslyAcked() (protocol.SymbolID, bool)
	RemoveUpTo(id protocol.SymbolID)
	CanGenerateRepairSymbol() bool
	NextMetadata() (protocol.SymbolID, error)
	FirstMetadata() (protocol.SymbolID, bool)
	LastMetadata() (protocol.SymbolID, bool)
	WindowSize() int
	SymbolSize() int
	NextRepairSymbolSize() int
	ProtectedAt(id protocol.SymbolID) (time.Time, bool)

	sealedEncoder()
}

// Decoder is the receiver side of a coding scheme.
// It is implemented by the RLC and the VLC decoder only.
type Decoder interface {
	Scheme() protocol.FECSchemeID
	// ReceiveSourceSymbol adds a received source symbol.
	// The returned symbols start with the received one, followed by the symbols it allowed to recover.
	ReceiveSourceSymbol(id protocol.SymbolID, payload []byte) ([]SourceSymbol, error)
	ReceiveSerializedSourceSymbol(metadata, payload []byte) ([]SourceSymbol, error)
	// ReceiveRepairSymbol parses a repair symbol and adds it to the system.
	// It returns the number of bytes consumed and the recovered symbols.
	ReceiveRepairSymbol(b []byte) (int, []SourceSymbol, error)
	ReadRepairSymbol(b []byte) (int, []byte, error)
	ReadSourceSymbolMetadata(b []byte) (int, protocol.SymbolID, error)
	Bounds() (protocol.SymbolID, protocol.SymbolID, bool)
	LargestContiguouslyReceived() (protocol.SymbolID, bool)
	RemoveUpTo(id protocol.SymbolID) protocol.SymbolID
	RemoveUpToWithExpiry(id protocol.SymbolID, expiredAt time.Time) (protocol.SymbolID, error)
	SetFirstSymbolID(id protocol.SymbolID) error
	MissingDegrees() (uint64, bool)
	SymbolSize() int
	SymbolAck() *wire.SymbolAckFrame

	sealedDecoder()
}
