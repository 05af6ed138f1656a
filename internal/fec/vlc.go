package fec

import (
	"time"

	"github.com/quic-go/fecwindow/internal/fecerr"
	"github.com/quic-go/fecwindow/internal/gf256"
	"github.com/quic-go/fecwindow/internal/protocol"
	"github.com/quic-go/fecwindow/internal/solver"
	"github.com/quic-go/fecwindow/internal/wire"
)

type vlcEncoder struct {
	*sourceWindow

	field *gf256.Field
	coefs *vlcCoefficients
	// sequence number of the next repair symbol
	seq uint64
}

var _ Encoder = &vlcEncoder{}

func newVLCEncoder(p *Params, field *gf256.Field) *vlcEncoder {
	return &vlcEncoder{
		sourceWindow: newSourceWindow(p.SymbolSize, p.MaxWindowSize, p.FirstSymbolID, p.Now),
		field:        field,
		coefs:        newVLCCoefficients(field),
	}
}

func (e *vlcEncoder) Scheme() protocol.FECSchemeID { return protocol.VLCFECScheme }

func (e *vlcEncoder) GenerateRepairSymbolUpTo(id protocol.SymbolID) ([]byte, error) {
	pivot, count, err := e.repairRange(id)
	if err != nil {
		return nil, err
	}
	seq := e.seq
	e.seq++
	rs := &wire.VLCRepairSymbol{
		Pivot:          pivot,
		Count:          uint32(count),
		SequenceNumber: seq,
		Payload:        e.combine(e.field, e.coefs.Coefficients(e.first, pivot, count, seq)),
	}
	return rs.Append(make([]byte, 0, rs.Length())), nil
}

func (e *vlcEncoder) GenerateRepairSymbol() ([]byte, error) {
	last, ok := e.LastMetadata()
	if !ok {
		return nil, fecerr.ErrNoSymbolToGenerate
	}
	return e.GenerateRepairSymbolUpTo(last)
}

func (e *vlcEncoder) NextRepairSymbolSize() int {
	return protocol.VLCRepairHeaderLen + e.symbolSize
}

func (e *vlcEncoder) sealedEncoder() {}

type vlcDecoder struct {
	*decoderWindow

	coefs *vlcCoefficients
	// first id of the stream, coefficients depend on the offset from it
	first protocol.SymbolID
}

var _ Decoder = &vlcDecoder{}

func newVLCDecoder(p *Params, field *gf256.Field, s Solver) *vlcDecoder {
	return &vlcDecoder{
		decoderWindow: &decoderWindow{
			solver:        s,
			symbolSize:    p.SymbolSize,
			maxWindowSize: p.MaxWindowSize,
			repairLen:     protocol.VLCRepairHeaderLen + p.SymbolSize,
			now:           p.Now,
		},
		coefs: newVLCCoefficients(field),
		first: p.FirstSymbolID,
	}
}

func (d *vlcDecoder) Scheme() protocol.FECSchemeID { return protocol.VLCFECScheme }

func (d *vlcDecoder) ReceiveRepairSymbol(b []byte) (int, []SourceSymbol, error) {
	rs, l, err := wire.ParseVLCRepairSymbol(b, d.symbolSize)
	if err != nil {
		return 0, nil, fecerr.ErrBufferTooSmall
	}
	if err := d.checkBounds(rs.Pivot, uint64(rs.Count)); err != nil {
		return l, nil, err
	}
	recovered, err := d.addEquation(&solver.Equation{
		Pivot:        rs.Pivot,
		Coefficients: d.coefs.Coefficients(d.first, rs.Pivot, int(rs.Count), rs.SequenceNumber),
		ConstantTerm: rs.Payload,
		ReceivedAt:   d.now(),
	})
	return l, recovered, err
}

// RemoveUpToWithExpiry evicts the ids below id and drops the pending repair symbols received before expiredAt.
func (d *vlcDecoder) RemoveUpToWithExpiry(id protocol.SymbolID, expiredAt time.Time) (protocol.SymbolID, error) {
	bound := d.solver.RemoveUpTo(id)
	d.solver.RemoveExpired(expiredAt)
	return bound, nil
}

// SetFirstSymbolID sets the first id of the stream.
// Ids below it are evicted.
func (d *vlcDecoder) SetFirstSymbolID(id protocol.SymbolID) error {
	d.first = id
	d.solver.RemoveUpTo(id)
	return nil
}

func (d *vlcDecoder) sealedDecoder() {}
