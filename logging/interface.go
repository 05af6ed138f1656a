// Package logging defines a tracing interface for encoders and decoders.
// A tracer is a struct of callbacks, every callback may be nil.
package logging

import (
	"github.com/quic-go/fecwindow/internal/fecerr"
	"github.com/quic-go/fecwindow/internal/protocol"
)

type (
	// A SymbolID identifies a source symbol.
	SymbolID = protocol.SymbolID
	// The FECSchemeID is the coding scheme of an encoder or decoder.
	FECSchemeID = protocol.FECSchemeID
	// An ErrorCode is the code of an encoder or decoder error.
	ErrorCode = fecerr.ErrorCode
)

const (
	// FECSchemeRLC is the random linear coding scheme.
	FECSchemeRLC = protocol.RLCFECScheme
	// FECSchemeVLC is the Vandermonde linear coding scheme.
	FECSchemeVLC = protocol.VLCFECScheme
)

// Role is the side of a stream a tracer observes.
type Role uint8

const (
	RoleEncoder Role = iota + 1
	RoleDecoder
)

func (r Role) String() string {
	switch r {
	case RoleEncoder:
		return "encoder"
	case RoleDecoder:
		return "decoder"
	default:
		return "unknown"
	}
}

// SymbolKind is the kind of a symbol.
type SymbolKind uint8

const (
	SymbolKindSource SymbolKind = iota + 1
	SymbolKindRepair
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolKindSource:
		return "source"
	case SymbolKindRepair:
		return "repair"
	default:
		return "unknown"
	}
}

// A CodecTracer traces the events of one encoder or decoder.
type CodecTracer struct {
	// encoder events
	ProtectedSymbol       func(id SymbolID)
	GeneratedRepairSymbol func(pivot SymbolID, length int)
	AcknowledgedUpTo      func(id SymbolID)

	// decoder events
	ReceivedSourceSymbol func(id SymbolID)
	ReceivedRepairSymbol func(length int)
	RecoveredSymbol      func(id SymbolID)
	// DroppedSymbol is called when a symbol carried no new information.
	DroppedSymbol func(kind SymbolKind, code ErrorCode)

	// common events
	RemovedUpTo func(bound SymbolID)
	Error       func(op string, err error)
	Close       func()
}
