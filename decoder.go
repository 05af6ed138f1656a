package fecwindow

import (
	"errors"
	"time"

	"github.com/quic-go/fecwindow/internal/fec"
	"github.com/quic-go/fecwindow/logging"
)

// A Decoder receives the source and repair symbols of one stream and recovers lost source symbols.
type Decoder struct {
	dec fec.Decoder
	observer
}

// NewDecoder creates a decoder for the given scheme.
// It returns ErrUnimplementedDecoder for an unknown scheme.
func NewDecoder(scheme FECSchemeID, config *Config) (*Decoder, error) {
	switch scheme {
	case FECSchemeRLC, FECSchemeVLC:
	default:
		return nil, ErrUnimplementedDecoder
	}
	if err := validateConfig(scheme, config); err != nil {
		return nil, err
	}
	config = populateConfig(config)
	dec, err := fec.NewDecoder(scheme, params(config))
	if err != nil {
		return nil, err
	}
	return &Decoder{
		dec:      dec,
		observer: newObserver(config, logging.RoleDecoder, scheme),
	}, nil
}

// Scheme returns the coding scheme.
func (d *Decoder) Scheme() FECSchemeID { return d.dec.Scheme() }

// SymbolSize returns the size of every source symbol.
func (d *Decoder) SymbolSize() int { return d.dec.SymbolSize() }

// ReceiveSourceSymbol adds a received source symbol.
// It returns the received symbol followed by the symbols it allowed to recover.
// A symbol that is already known is rejected with ErrUnusedSourceSymbol.
func (d *Decoder) ReceiveSourceSymbol(id SymbolID, payload []byte) ([]SourceSymbol, error) {
	symbols, err := d.dec.ReceiveSourceSymbol(id, payload)
	if err != nil {
		if errors.Is(err, ErrUnusedSourceSymbol) {
			d.dropped(logging.SymbolKindSource)
		}
		return nil, d.handleError("receive_source_symbol", err, "id", id)
	}
	if d.tracer.ReceivedSourceSymbol != nil {
		d.tracer.ReceivedSourceSymbol(id)
	}
	d.recovered(symbols, true)
	return symbols, nil
}

// ReceiveSerializedSourceSymbol is ReceiveSourceSymbol for a serialized id.
func (d *Decoder) ReceiveSerializedSourceSymbol(metadata, payload []byte) ([]SourceSymbol, error) {
	_, id, err := d.dec.ReadSourceSymbolMetadata(metadata)
	if err != nil {
		return nil, d.handleError("receive_source_symbol", ErrBadMetadata)
	}
	return d.ReceiveSourceSymbol(id, payload)
}

// ReceiveRepairSymbol parses the repair symbol at the start of b and adds it to the system.
// It returns the number of bytes consumed and the recovered symbols.
// A repair symbol that is linearly dependent on the known symbols is rejected with ErrUnusedRepairSymbol.
func (d *Decoder) ReceiveRepairSymbol(b []byte) (int, []SourceSymbol, error) {
	n, symbols, err := d.dec.ReceiveRepairSymbol(b)
	if n > 0 && d.tracer.ReceivedRepairSymbol != nil {
		d.tracer.ReceivedRepairSymbol(n)
	}
	if err != nil {
		if errors.Is(err, ErrUnusedRepairSymbol) {
			d.dropped(logging.SymbolKindRepair)
		}
		return n, nil, d.handleError("receive_repair_symbol", err)
	}
	d.recovered(symbols, false)
	return n, symbols, nil
}

// recovered traces the recovered symbols.
// The first symbol is skipped if it is the received source symbol.
func (d *Decoder) recovered(symbols []SourceSymbol, skipFirst bool) {
	if d.tracer.RecoveredSymbol == nil {
		return
	}
	if skipFirst && len(symbols) > 0 {
		symbols = symbols[1:]
	}
	for _, s := range symbols {
		d.tracer.RecoveredSymbol(s.ID)
	}
}

func (d *Decoder) dropped(kind logging.SymbolKind) {
	if d.tracer.DroppedSymbol == nil {
		return
	}
	code := UnusedSourceSymbol
	if kind == logging.SymbolKindRepair {
		code = UnusedRepairSymbol
	}
	d.tracer.DroppedSymbol(kind, code)
}

// ReadRepairSymbol returns the length and a copy of the repair symbol at the start of b, without consuming it.
// The copy can later be passed to ReceiveRepairSymbol.
// It returns ErrBufferTooSmall if b is too short.
func (d *Decoder) ReadRepairSymbol(b []byte) (int, []byte, error) {
	n, rs, err := d.dec.ReadRepairSymbol(b)
	if err != nil {
		return 0, nil, d.handleError("read_repair_symbol", err)
	}
	return n, rs, nil
}

// ReadSourceSymbolMetadata parses the serialized id at the start of b.
// It returns ErrBufferTooSmall if b is too short.
func (d *Decoder) ReadSourceSymbolMetadata(b []byte) (int, SymbolID, error) {
	n, id, err := d.dec.ReadSourceSymbolMetadata(b)
	if err != nil {
		return 0, 0, d.handleError("read_source_symbol_metadata", err)
	}
	return n, id, nil
}

// Bounds returns the lowest and the highest id in the window.
func (d *Decoder) Bounds() (lowest, highest SymbolID, ok bool) { return d.dec.Bounds() }

// LargestContiguouslyReceived returns the largest id such that it and all ids
// from the lower bound of the window are known.
func (d *Decoder) LargestContiguouslyReceived() (SymbolID, bool) {
	return d.dec.LargestContiguouslyReceived()
}

// RemoveUpTo removes all ids lower than id from the window.
// It returns the lower bound of the window, which is never lower than before.
func (d *Decoder) RemoveUpTo(id SymbolID) SymbolID {
	bound := d.dec.RemoveUpTo(id)
	d.removedUpTo(bound)
	return bound
}

// RemoveUpToWithExpiry is RemoveUpTo, additionally dropping the pending repair
// symbols received before expiredAt. It is only supported by VLC decoders.
func (d *Decoder) RemoveUpToWithExpiry(id SymbolID, expiredAt time.Time) (SymbolID, error) {
	bound, err := d.dec.RemoveUpToWithExpiry(id, expiredAt)
	if err != nil {
		return 0, d.handleError("remove_up_to", err, "id", id)
	}
	d.removedUpTo(bound)
	return bound, nil
}

// SetFirstSymbolID sets the id of the first symbol protected by the encoder.
// It is only supported by VLC decoders, and must be called before any symbol is received.
func (d *Decoder) SetFirstSymbolID(id SymbolID) error {
	if err := d.dec.SetFirstSymbolID(id); err != nil {
		return d.handleError("set_first_symbol_id", err, "id", id)
	}
	return nil
}

// MissingDegrees returns the number of equations needed to recover every unknown id in the window.
func (d *Decoder) MissingDegrees() (uint64, bool) { return d.dec.MissingDegrees() }

// SymbolAck returns a frame acknowledging the known ids of the window, or nil if no id is known.
func (d *Decoder) SymbolAck() *SymbolAckFrame { return d.dec.SymbolAck() }

// Close closes the tracer.
func (d *Decoder) Close() { d.close() }
