package fecwindow

import (
	"time"

	"github.com/quic-go/fecwindow/internal/fec"
	"github.com/quic-go/fecwindow/logging"
)

// An Encoder protects the source symbols of one stream and generates repair symbols.
type Encoder struct {
	enc fec.Encoder
	observer
}

// NewEncoder creates an encoder for the given scheme.
// It returns ErrUnimplementedEncoder for an unknown scheme.
func NewEncoder(scheme FECSchemeID, config *Config) (*Encoder, error) {
	switch scheme {
	case FECSchemeRLC, FECSchemeVLC:
	default:
		return nil, ErrUnimplementedEncoder
	}
	if err := validateConfig(scheme, config); err != nil {
		return nil, err
	}
	config = populateConfig(config)
	enc, err := fec.NewEncoder(scheme, params(config))
	if err != nil {
		return nil, err
	}
	return &Encoder{
		enc:      enc,
		observer: newObserver(config, logging.RoleEncoder, scheme),
	}, nil
}

func params(config *Config) fec.Params {
	return fec.Params{
		SymbolSize:    config.SymbolSize,
		MaxWindowSize: config.MaxWindowSize,
		FirstSymbolID: config.FirstSymbolID,
		Seed:          config.Seed,
		Polynomial:    config.Polynomial,
		Now:           config.Now,
	}
}

// Scheme returns the coding scheme.
func (e *Encoder) Scheme() FECSchemeID { return e.enc.Scheme() }

// SymbolSize returns the size of every source symbol.
func (e *Encoder) SymbolSize() int { return e.enc.SymbolSize() }

// ProtectData adds a source symbol to the window and returns its id.
// The payload is copied. It must be exactly SymbolSize bytes long.
func (e *Encoder) ProtectData(payload []byte) (SymbolID, error) {
	id, err := e.enc.ProtectData(payload)
	if err != nil {
		return 0, e.handleError("protect_data", err)
	}
	if e.tracer.ProtectedSymbol != nil {
		e.tracer.ProtectedSymbol(id)
	}
	return id, nil
}

// GenerateRepairSymbolUpTo generates a repair symbol covering the retained symbols up to id.
// It returns ErrNoSymbolToGenerate if no retained symbol is at or below id.
func (e *Encoder) GenerateRepairSymbolUpTo(id SymbolID) ([]byte, error) {
	pivot, _ := e.enc.FirstMetadata()
	rs, err := e.enc.GenerateRepairSymbolUpTo(id)
	if err != nil {
		return nil, e.handleError("generate_repair_symbol", err, "id", id)
	}
	if e.tracer.GeneratedRepairSymbol != nil {
		e.tracer.GeneratedRepairSymbol(pivot, len(rs))
	}
	return rs, nil
}

// GenerateRepairSymbol generates a repair symbol covering all retained symbols.
// It returns ErrNoSymbolToGenerate if the window is empty.
func (e *Encoder) GenerateRepairSymbol() ([]byte, error) {
	last, ok := e.enc.LastMetadata()
	if !ok {
		return nil, e.handleError("generate_repair_symbol", ErrNoSymbolToGenerate)
	}
	return e.GenerateRepairSymbolUpTo(last)
}

// ReceivedSymbol records that the peer received the symbol.
// It does not remove the symbol from the window.
func (e *Encoder) ReceivedSymbol(id SymbolID) {
	before, hadAcked := e.enc.LargestContiguouslyAcked()
	e.enc.ReceivedSymbol(id)
	e.ackAdvanced(before, hadAcked)
}

// ReceivedSymbolMetadata is ReceivedSymbol for a serialized id.
func (e *Encoder) ReceivedSymbolMetadata(b []byte) error {
	before, hadAcked := e.enc.LargestContiguouslyAcked()
	if err := e.enc.ReceivedSymbolMetadata(b); err != nil {
		return e.handleError("received_symbol", err)
	}
	e.ackAdvanced(before, hadAcked)
	return nil
}

// HandleSymbolAck records all symbols acknowledged by f.
func (e *Encoder) HandleSymbolAck(f *SymbolAckFrame) {
	before, hadAcked := e.enc.LargestContiguouslyAcked()
	e.enc.HandleSymbolAck(f)
	e.ackAdvanced(before, hadAcked)
}

func (e *Encoder) ackAdvanced(before SymbolID, hadAcked bool) {
	if e.tracer.AcknowledgedUpTo == nil {
		return
	}
	after, ok := e.enc.LargestContiguouslyAcked()
	if ok && (!hadAcked || after > before) {
		e.tracer.AcknowledgedUpTo(after)
	}
}

// LargestContiguouslyAcked returns the largest id such that it and all ids before it were acknowledged.
func (e *Encoder) LargestContiguouslyAcked() (SymbolID, bool) {
	return e.enc.LargestContiguouslyAcked()
}

// RemoveUpTo removes all symbols with an id lower than id from the window.
func (e *Encoder) RemoveUpTo(id SymbolID) {
	before, _ := e.enc.NextMetadata()
	if first, ok := e.enc.FirstMetadata(); ok {
		before = first
	}
	e.enc.RemoveUpTo(id)
	after, _ := e.enc.NextMetadata()
	if first, ok := e.enc.FirstMetadata(); ok {
		after = first
	}
	if after > before {
		e.removedUpTo(after)
	}
}

// CanGenerateRepairSymbol returns true if the window is not empty.
func (e *Encoder) CanGenerateRepairSymbol() bool { return e.enc.CanGenerateRepairSymbol() }

// NextMetadata returns the id assigned by the next call to ProtectData.
func (e *Encoder) NextMetadata() (SymbolID, error) {
	id, err := e.enc.NextMetadata()
	if err != nil {
		return 0, e.handleError("next_metadata", err)
	}
	return id, nil
}

// AppendNextMetadata appends the serialized id assigned by the next call to ProtectData.
func (e *Encoder) AppendNextMetadata(b []byte) ([]byte, error) {
	id, err := e.NextMetadata()
	if err != nil {
		return b, err
	}
	return AppendSymbolID(b, id), nil
}

// FirstMetadata returns the lowest id in the window.
func (e *Encoder) FirstMetadata() (SymbolID, bool) { return e.enc.FirstMetadata() }

// LastMetadata returns the highest id in the window.
func (e *Encoder) LastMetadata() (SymbolID, bool) { return e.enc.LastMetadata() }

// WindowSize returns the number of symbols in the window.
func (e *Encoder) WindowSize() int { return e.enc.WindowSize() }

// NextRepairSymbolSize returns the size of the next generated repair symbol.
func (e *Encoder) NextRepairSymbolSize() int { return e.enc.NextRepairSymbolSize() }

// ProtectedAt returns the time a symbol in the window was protected.
func (e *Encoder) ProtectedAt(id SymbolID) (time.Time, bool) { return e.enc.ProtectedAt(id) }

// Close closes the tracer.
func (e *Encoder) Close() { e.close() }
