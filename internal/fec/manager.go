package fec

import (
	"time"

	"github.com/quic-go/fecwindow/internal/fecerr"
	"github.com/quic-go/fecwindow/internal/gf256"
	"github.com/quic-go/fecwindow/internal/protocol"
	"github.com/quic-go/fecwindow/internal/solver"
)

// Params are the parameters of an encoder or decoder.
type Params struct {
	SymbolSize    int
	MaxWindowSize int
	// FirstSymbolID is the id of the first protected symbol.
	FirstSymbolID protocol.SymbolID
	// Seed seeds the generator of RLC seeds.
	Seed uint64
	// Polynomial defines the field used by VLC. Zero selects gf256.DefaultPolynomial.
	Polynomial gf256.Polynomial
	Now        func() time.Time
}

func (p *Params) validate(scheme protocol.FECSchemeID) error {
	if p.SymbolSize <= 0 {
		return fecerr.Internal("invalid symbol size: %d", p.SymbolSize)
	}
	if p.MaxWindowSize <= 0 {
		return fecerr.Internal("invalid window size: %d", p.MaxWindowSize)
	}
	if scheme == protocol.VLCFECScheme && p.MaxWindowSize > protocol.MaxVLCWindowSize {
		return fecerr.Internal("VLC window size %d exceeds %d", p.MaxWindowSize, protocol.MaxVLCWindowSize)
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	return nil
}

func (p *Params) field(scheme protocol.FECSchemeID) (*gf256.Field, error) {
	if scheme != protocol.VLCFECScheme || p.Polynomial == 0 {
		return gf256.Default(), nil
	}
	f, err := gf256.NewField(p.Polynomial)
	if err != nil {
		return nil, fecerr.Internal("%w", err)
	}
	return f, nil
}

// NewEncoder creates an encoder for the given scheme.
func NewEncoder(scheme protocol.FECSchemeID, p Params) (Encoder, error) {
	switch scheme {
	case protocol.RLCFECScheme, protocol.VLCFECScheme:
	default:
		return nil, fecerr.ErrUnimplementedEncoder
	}
	if err := p.validate(scheme); err != nil {
		return nil, err
	}
	field, err := p.field(scheme)
	if err != nil {
		return nil, err
	}
	if scheme == protocol.RLCFECScheme {
		return newRLCEncoder(&p), nil
	}
	return newVLCEncoder(&p, field), nil
}

// NewDecoder creates a decoder for the given scheme.
func NewDecoder(scheme protocol.FECSchemeID, p Params) (Decoder, error) {
	switch scheme {
	case protocol.RLCFECScheme, protocol.VLCFECScheme:
	default:
		return nil, fecerr.ErrUnimplementedDecoder
	}
	if err := p.validate(scheme); err != nil {
		return nil, err
	}
	field, err := p.field(scheme)
	if err != nil {
		return nil, err
	}
	s := solver.New(field, p.SymbolSize, p.MaxWindowSize)
	// ids below the first one are never sent
	s.RemoveUpTo(p.FirstSymbolID)
	return newDecoder(scheme, &p, field, s), nil
}

func newDecoder(scheme protocol.FECSchemeID, p *Params, field *gf256.Field, s Solver) Decoder {
	if scheme == protocol.RLCFECScheme {
		return newRLCDecoder(p, s)
	}
	return newVLCDecoder(p, field, s)
}
