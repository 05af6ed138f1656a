package fec

import (
	"time"

	"github.com/quic-go/fecwindow/internal/fecerr"
	"github.com/quic-go/fecwindow/internal/gf256"
	"github.com/quic-go/fecwindow/internal/protocol"
	"github.com/quic-go/fecwindow/internal/wire"
)

type protectedSymbol struct {
	payload     []byte
	protectedAt time.Time
}

// sourceWindow holds the source symbols protected by an encoder.
// It is shared by the RLC and the VLC encoder.
type sourceWindow struct {
	symbolSize int
	maxSize    int
	now        func() time.Time

	// first is the first id ever assigned.
	first protocol.SymbolID
	// lower is the lowest retained id, symbols[i] has id lower+i.
	lower   protocol.SymbolID
	next    protocol.SymbolID
	symbols []protectedSymbol

	// every id below ackedUpTo has been received by the peer
	ackedUpTo protocol.SymbolID
	acked     map[protocol.SymbolID]struct{}
}

func newSourceWindow(symbolSize, maxSize int, first protocol.SymbolID, now func() time.Time) *sourceWindow {
	return &sourceWindow{
		symbolSize: symbolSize,
		maxSize:    maxSize,
		now:        now,
		first:      first,
		lower:      first,
		next:       first,
		ackedUpTo:  first,
		acked:      make(map[protocol.SymbolID]struct{}),
	}
}

func (w *sourceWindow) ProtectData(payload []byte) (protocol.SymbolID, error) {
	if len(payload) != w.symbolSize {
		return 0, fecerr.Internal("payload of %d bytes, expected %d", len(payload), w.symbolSize)
	}
	if len(w.symbols) >= w.maxSize {
		return 0, fecerr.Internal("window full: %d symbols retained", len(w.symbols))
	}
	p := make([]byte, w.symbolSize)
	copy(p, payload)
	w.symbols = append(w.symbols, protectedSymbol{payload: p, protectedAt: w.now()})
	id := w.next
	w.next++
	return id, nil
}

// repairRange returns the retained ids an equation generated up to id covers.
func (w *sourceWindow) repairRange(id protocol.SymbolID) (protocol.SymbolID, int, error) {
	if len(w.symbols) == 0 || id < w.lower {
		return 0, 0, fecerr.ErrNoSymbolToGenerate
	}
	last := w.next - 1
	if id < last {
		last = id
	}
	return w.lower, int(last-w.lower) + 1, nil
}

// combine computes the constant term of an equation starting at the lowest retained id.
func (w *sourceWindow) combine(field *gf256.Field, coefs []uint8) []byte {
	constant := make([]byte, w.symbolSize)
	for i, c := range coefs {
		field.AddScaled(constant, c, w.symbols[i].payload)
	}
	return constant
}

func (w *sourceWindow) ReceivedSymbol(id protocol.SymbolID) {
	if id < w.ackedUpTo || id >= w.next {
		return
	}
	w.acked[id] = struct{}{}
	for {
		if _, ok := w.acked[w.ackedUpTo]; !ok {
			return
		}
		delete(w.acked, w.ackedUpTo)
		w.ackedUpTo++
	}
}

func (w *sourceWindow) ReceivedSymbolMetadata(b []byte) error {
	id, _, err := wire.ParseSymbolID(b)
	if err != nil {
		return fecerr.ErrBadMetadata
	}
	w.ReceivedSymbol(id)
	return nil
}

func (w *sourceWindow) HandleSymbolAck(f *wire.SymbolAckFrame) {
	if w.next == w.first {
		return
	}
	for _, r := range f.AckRanges {
		lo, hi := r.Smallest, r.Largest
		if lo < w.ackedUpTo {
			lo = w.ackedUpTo
		}
		if hi >= w.next {
			hi = w.next - 1
		}
		for id := lo; id <= hi; id++ {
			w.ReceivedSymbol(id)
		}
	}
}

func (w *sourceWindow) LargestContiguouslyAcked() (protocol.SymbolID, bool) {
	if w.ackedUpTo == w.first {
		return 0, false
	}
	return w.ackedUpTo - 1, true
}

func (w *sourceWindow) RemoveUpTo(id protocol.SymbolID) {
	if id > w.next {
		id = w.next
	}
	if id <= w.lower {
		return
	}
	n := int(id - w.lower)
	clear(w.symbols[:n])
	w.symbols = w.symbols[n:]
	w.lower = id
}

func (w *sourceWindow) CanGenerateRepairSymbol() bool { return len(w.symbols) > 0 }

func (w *sourceWindow) NextMetadata() (protocol.SymbolID, error) { return w.next, nil }

func (w *sourceWindow) FirstMetadata() (protocol.SymbolID, bool) {
	if len(w.symbols) == 0 {
		return 0, false
	}
	return w.lower, true
}

func (w *sourceWindow) LastMetadata() (protocol.SymbolID, bool) {
	if len(w.symbols) == 0 {
		return 0, false
	}
	return w.next - 1, true
}

func (w *sourceWindow) WindowSize() int { return len(w.symbols) }

func (w *sourceWindow) SymbolSize() int { return w.symbolSize }

// ProtectedAt returns the time a retained symbol was protected.
func (w *sourceWindow) ProtectedAt(id protocol.SymbolID) (time.Time, bool) {
	if id < w.lower || id >= w.next {
		return time.Time{}, false
	}
	return w.symbols[id-w.lower].protectedAt, true
}
