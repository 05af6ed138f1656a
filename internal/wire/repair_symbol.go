package wire

import (
	"encoding/binary"

	"github.com/quic-go/fecwindow/internal/protocol"
)

// An RLCRepairSymbol is the serialized form of an RLC equation.
// The coefficients are not carried, they are regenerated from the seed.
type RLCRepairSymbol struct {
	Pivot protocol.SymbolID
	// Count is the number of ids covered, starting at Pivot.
	Count uint64
	Seed  uint32
	// Payload is the constant term of the equation.
	Payload []byte
}

// ParseRLCRepairSymbol parses an RLC repair symbol with a payload of symbolSize bytes.
// It returns the number of bytes consumed. The payload is copied.
func ParseRLCRepairSymbol(b []byte, symbolSize int) (*RLCRepairSymbol, int, error) {
	l := protocol.RLCRepairHeaderLen + symbolSize
	if len(b) < l {
		return nil, 0, ErrBufferTooSmall
	}
	rs := &RLCRepairSymbol{
		Pivot:   protocol.SymbolID(binary.BigEndian.Uint64(b)),
		Count:   binary.BigEndian.Uint64(b[8:]),
		Seed:    binary.BigEndian.Uint32(b[16:]),
		Payload: make([]byte, symbolSize),
	}
	copy(rs.Payload, b[protocol.RLCRepairHeaderLen:l])
	return rs, l, nil
}

// Last returns the highest id covered by the symbol.
func (rs *RLCRepairSymbol) Last() protocol.SymbolID {
	return rs.Pivot + protocol.SymbolID(rs.Count) - 1
}

func (rs *RLCRepairSymbol) Append(b []byte) []byte {
	b = binary.BigEndian.AppendUint64(b, uint64(rs.Pivot))
	b = binary.BigEndian.AppendUint64(b, rs.Count)
	b = binary.BigEndian.AppendUint32(b, rs.Seed)
	return append(b, rs.Payload...)
}

// Length of a serialized symbol
func (rs *RLCRepairSymbol) Length() int {
	return protocol.RLCRepairHeaderLen + len(rs.Payload)
}

// A VLCRepairSymbol is the serialized form of a VLC equation.
// The coefficients are a function of the covered ids and the sequence number.
type VLCRepairSymbol struct {
	Pivot          protocol.SymbolID
	Count          uint32
	SequenceNumber uint64
	Payload        []byte
}

// ParseVLCRepairSymbol parses a VLC repair symbol with a payload of symbolSize bytes.
// It returns the number of bytes consumed. The payload is copied.
func ParseVLCRepairSymbol(b []byte, symbolSize int) (*VLCRepairSymbol, int, error) {
	l := protocol.VLCRepairHeaderLen + symbolSize
	if len(b) < l {
		return nil, 0, ErrBufferTooSmall
	}
	rs := &VLCRepairSymbol{
		Pivot:          protocol.SymbolID(binary.BigEndian.Uint64(b)),
		Count:          binary.BigEndian.Uint32(b[8:]),
		SequenceNumber: binary.BigEndian.Uint64(b[12:]),
		Payload:        make([]byte, symbolSize),
	}
	copy(rs.Payload, b[protocol.VLCRepairHeaderLen:l])
	return rs, l, nil
}

// Last returns the highest id covered by the symbol.
func (rs *VLCRepairSymbol) Last() protocol.SymbolID {
	return rs.Pivot + protocol.SymbolID(rs.Count) - 1
}

func (rs *VLCRepairSymbol) Append(b []byte) []byte {
	b = binary.BigEndian.AppendUint64(b, uint64(rs.Pivot))
	b = binary.BigEndian.AppendUint32(b, rs.Count)
	b = binary.BigEndian.AppendUint64(b, rs.SequenceNumber)
	return append(b, rs.Payload...)
}

// Length of a serialized symbol
func (rs *VLCRepairSymbol) Length() int {
	return protocol.VLCRepairHeaderLen + len(rs.Payload)
}

// RepairSymbolLen returns the serialized length of a repair symbol of the given scheme.
// It returns 0 for schemes that don't produce repair symbols.
func RepairSymbolLen(scheme protocol.FECSchemeID, symbolSize int) int {
	switch scheme {
	case protocol.RLCFECScheme:
		return protocol.RLCRepairHeaderLen + symbolSize
	case protocol.VLCFECScheme:
		return protocol.VLCRepairHeaderLen + symbolSize
	default:
		return 0
	}
}
