package fec

import (
	"errors"
	"time"

	"github.com/quic-go/fecwindow/internal/fecerr"
	"github.com/quic-go/fecwindow/internal/protocol"
	"github.com/quic-go/fecwindow/internal/solver"
	"github.com/quic-go/fecwindow/internal/wire"
)

// decoderWindow feeds the solver of a decoder.
// It is shared by the RLC and the VLC decoder.
type decoderWindow struct {
	solver        Solver
	symbolSize    int
	maxWindowSize int
	repairLen     int
	now           func() time.Time
}

func (w *decoderWindow) ReceiveSourceSymbol(id protocol.SymbolID, payload []byte) ([]SourceSymbol, error) {
	if len(payload) != w.symbolSize {
		return nil, fecerr.Internal("source symbol %d has %d bytes, expected %d", id, len(payload), w.symbolSize)
	}
	ids, err := w.solver.AddKnownSymbol(id, payload)
	if err != nil {
		if errors.Is(err, solver.ErrUnusedSymbol) {
			return nil, fecerr.ErrUnusedSourceSymbol
		}
		return nil, fecerr.Internal("adding source symbol %d: %w", id, err)
	}
	return w.symbols(ids), nil
}

func (w *decoderWindow) ReceiveSerializedSourceSymbol(metadata, payload []byte) ([]SourceSymbol, error) {
	id, _, err := wire.ParseSymbolID(metadata)
	if err != nil {
		return nil, fecerr.ErrBadMetadata
	}
	return w.ReceiveSourceSymbol(id, payload)
}

// checkBounds validates the ids covered by a repair symbol.
func (w *decoderWindow) checkBounds(pivot protocol.SymbolID, count uint64) error {
	if count == 0 {
		return fecerr.Internal("repair symbol at %d covers no symbol", pivot)
	}
	if count > uint64(w.maxWindowSize) {
		return fecerr.Internal("repair symbol at %d covers %d symbols, window is %d", pivot, count, w.maxWindowSize)
	}
	if pivot+protocol.SymbolID(count-1) < pivot {
		return fecerr.Internal("repair symbol at %d overflows the id space", pivot)
	}
	return nil
}

func (w *decoderWindow) addEquation(eq *solver.Equation) ([]SourceSymbol, error) {
	ids, err := w.solver.AddEquation(eq)
	if err != nil {
		if errors.Is(err, solver.ErrUnusedEquation) {
			return nil, fecerr.ErrUnusedRepairSymbol
		}
		return nil, fecerr.Internal("adding repair symbol over [%d, %d]: %w", eq.Pivot, eq.Last(), err)
	}
	return w.symbols(ids), nil
}

func (w *decoderWindow) symbols(ids []protocol.SymbolID) []SourceSymbol {
	symbols := make([]SourceSymbol, 0, len(ids))
	for _, id := range ids {
		v, ok := w.solver.Value(id)
		if !ok {
			continue
		}
		p := make([]byte, len(v))
		copy(p, v)
		symbols = append(symbols, SourceSymbol{ID: id, Payload: p})
	}
	return symbols
}

// ReadRepairSymbol returns the length and a copy of the repair symbol at the start of b.
func (w *decoderWindow) ReadRepairSymbol(b []byte) (int, []byte, error) {
	if len(b) < w.repairLen {
		return 0, nil, fecerr.ErrBufferTooSmall
	}
	rs := make([]byte, w.repairLen)
	copy(rs, b)
	return w.repairLen, rs, nil
}

func (w *decoderWindow) ReadSourceSymbolMetadata(b []byte) (int, protocol.SymbolID, error) {
	id, l, err := wire.ParseSymbolID(b)
	if err != nil {
		return 0, 0, fecerr.ErrBufferTooSmall
	}
	return l, id, nil
}

func (w *decoderWindow) Bounds() (protocol.SymbolID, protocol.SymbolID, bool) {
	return w.solver.Range()
}

func (w *decoderWindow) LargestContiguouslyReceived() (protocol.SymbolID, bool) {
	return w.solver.LargestContiguouslyKnown()
}

// RemoveUpTo evicts the ids below id and returns the new lower bound of the window.
func (w *decoderWindow) RemoveUpTo(id protocol.SymbolID) protocol.SymbolID {
	return w.solver.RemoveUpTo(id)
}

func (w *decoderWindow) MissingDegrees() (uint64, bool) {
	return w.solver.MissingDegrees()
}

func (w *decoderWindow) SymbolSize() int { return w.symbolSize }

// SymbolAck returns a frame acknowledging the known ids of the window.
// It returns nil if no id is known.
func (w *decoderWindow) SymbolAck() *wire.SymbolAckFrame {
	lo, hi, ok := w.solver.Range()
	if !ok {
		return nil
	}
	f := &wire.SymbolAckFrame{}
	inRange := false
	for id := hi; ; id-- {
		if _, known := w.solver.Value(id); known {
			if !inRange {
				f.AckRanges = append(f.AckRanges, wire.AckRange{Largest: id})
				inRange = true
			}
			f.AckRanges[len(f.AckRanges)-1].Smallest = id
		} else {
			inRange = false
		}
		if id == lo {
			break
		}
	}
	if len(f.AckRanges) == 0 {
		return nil
	}
	return f
}
