package fec

import (
	"math/rand/v2"
	"time"

	"github.com/quic-go/fecwindow/internal/fecerr"
	"github.com/quic-go/fecwindow/internal/gf256"
	"github.com/quic-go/fecwindow/internal/protocol"
	"github.com/quic-go/fecwindow/internal/solver"
	"github.com/quic-go/fecwindow/internal/wire"
)

type rlcEncoder struct {
	*sourceWindow

	field *gf256.Field
	seeds *rand.Rand
}

var _ Encoder = &rlcEncoder{}

func newRLCEncoder(p *Params) *rlcEncoder {
	return &rlcEncoder{
		sourceWindow: newSourceWindow(p.SymbolSize, p.MaxWindowSize, p.FirstSymbolID, p.Now),
		field:        gf256.Default(),
		seeds:        rand.New(rand.NewPCG(p.Seed, p.Seed)),
	}
}

func (e *rlcEncoder) Scheme() protocol.FECSchemeID { return protocol.RLCFECScheme }

func (e *rlcEncoder) GenerateRepairSymbolUpTo(id protocol.SymbolID) ([]byte, error) {
	pivot, count, err := e.repairRange(id)
	if err != nil {
		return nil, err
	}
	seed := e.seeds.Uint32()
	rs := &wire.RLCRepairSymbol{
		Pivot:   pivot,
		Count:   uint64(count),
		Seed:    seed,
		Payload: e.combine(e.field, rlcCoefficients(seed, count)),
	}
	return rs.Append(make([]byte, 0, rs.Length())), nil
}

func (e *rlcEncoder) GenerateRepairSymbol() ([]byte, error) {
	last, ok := e.LastMetadata()
	if !ok {
		return nil, fecerr.ErrNoSymbolToGenerate
	}
	return e.GenerateRepairSymbolUpTo(last)
}

func (e *rlcEncoder) NextRepairSymbolSize() int {
	return protocol.RLCRepairHeaderLen + e.symbolSize
}

func (e *rlcEncoder) sealedEncoder() {}

type rlcDecoder struct {
	*decoderWindow
}

var _ Decoder = &rlcDecoder{}

func newRLCDecoder(p *Params, s Solver) *rlcDecoder {
	return &rlcDecoder{
		decoderWindow: &decoderWindow{
			solver:        s,
			symbolSize:    p.SymbolSize,
			maxWindowSize: p.MaxWindowSize,
			repairLen:     protocol.RLCRepairHeaderLen + p.SymbolSize,
			now:           p.Now,
		},
	}
}

func (d *rlcDecoder) Scheme() protocol.FECSchemeID { return protocol.RLCFECScheme }

func (d *rlcDecoder) ReceiveRepairSymbol(b []byte) (int, []SourceSymbol, error) {
	rs, l, err := wire.ParseRLCRepairSymbol(b, d.symbolSize)
	if err != nil {
		return 0, nil, fecerr.ErrBufferTooSmall
	}
	if err := d.checkBounds(rs.Pivot, rs.Count); err != nil {
		return l, nil, err
	}
	recovered, err := d.addEquation(&solver.Equation{
		Pivot:        rs.Pivot,
		Coefficients: rlcCoefficients(rs.Seed, int(rs.Count)),
		ConstantTerm: rs.Payload,
		ReceivedAt:   d.now(),
	})
	return l, recovered, err
}

func (d *rlcDecoder) RemoveUpToWithExpiry(protocol.SymbolID, time.Time) (protocol.SymbolID, error) {
	return 0, fecerr.ErrUnimplementedDecoder
}

func (d *rlcDecoder) SetFirstSymbolID(protocol.SymbolID) error {
	return fecerr.ErrUnimplementedDecoder
}

func (d *rlcDecoder) sealedDecoder() {}
