// Package fecwindow implements sliding-window forward erasure correction.
//
// An Encoder protects source symbols and generates repair symbols, linear
// combinations of the symbols in its window over GF(2^8). A Decoder recovers
// lost source symbols once it holds enough independent repair symbols.
// Two schemes are available: random linear coding (RLC) and Vandermonde
// linear coding (VLC). Encoders and decoders are not safe for concurrent use.
package fecwindow

import (
	"github.com/quic-go/fecwindow/internal/fec"
	"github.com/quic-go/fecwindow/internal/gf256"
	"github.com/quic-go/fecwindow/internal/protocol"
	"github.com/quic-go/fecwindow/internal/wire"
)

type (
	// A SymbolID identifies a source symbol. IDs increase by one per protected symbol.
	SymbolID = protocol.SymbolID
	// A SourceSymbol is a source symbol received or recovered by a Decoder.
	SourceSymbol = fec.SourceSymbol
	// The FECSchemeID selects the coding scheme.
	FECSchemeID = protocol.FECSchemeID
	// A Polynomial is a primitive polynomial of degree 8 defining GF(2^8).
	Polynomial = gf256.Polynomial

	// A SymbolAckFrame acknowledges ranges of source symbols.
	SymbolAckFrame = wire.SymbolAckFrame
	// An AckRange is a range of acknowledged symbols.
	AckRange = wire.AckRange
)

const (
	// FECSchemeRLC is random linear coding.
	// Coefficients are derived from a seed carried in every repair symbol.
	FECSchemeRLC = protocol.RLCFECScheme
	// FECSchemeVLC is Vandermonde linear coding.
	// Coefficients are derived from the sequence number of the repair symbol.
	FECSchemeVLC = protocol.VLCFECScheme
)

// DefaultPolynomial is the polynomial used when Config.Polynomial is zero.
const DefaultPolynomial = gf256.DefaultPolynomial

// MaxVLCWindowSize is the largest window VLC supports.
const MaxVLCWindowSize = protocol.MaxVLCWindowSize

// SymbolIDLen is the length of a serialized SymbolID.
const SymbolIDLen = protocol.SymbolIDLen

// RepairSymbolLen returns the length of a serialized repair symbol.
func RepairSymbolLen(scheme FECSchemeID, symbolSize int) int {
	return wire.RepairSymbolLen(scheme, symbolSize)
}

// AppendSymbolID appends the serialized form of id, as read by Decoder.ReadSourceSymbolMetadata.
func AppendSymbolID(b []byte, id SymbolID) []byte {
	return wire.AppendSymbolID(b, id)
}
