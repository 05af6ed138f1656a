// Package solver implements an incremental linear system solver over GF(2^8).
//
// The solver keeps every pending equation in reduced row echelon form: each row
// has a distinct pivot (its lowest referenced id, with coefficient 1) and no
// row references the pivot of another row. A symbol is therefore determined
// exactly when its row references nothing but its pivot, and it is surfaced at
// that moment.
package solver

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slices"

	"github.com/quic-go/fecwindow/internal/gf256"
	"github.com/quic-go/fecwindow/internal/protocol"
)

var (
	// ErrUnusedSymbol is returned for a source symbol whose value is already known.
	ErrUnusedSymbol = errors.New("symbol already known")
	// ErrUnusedEquation is returned for an equation that carries no new information.
	ErrUnusedEquation = errors.New("equation is linearly dependent on known information")

	errStaleSymbol   = fmt.Errorf("%w: symbol below the window", ErrUnusedSymbol)
	errStaleEquation = fmt.Errorf("%w: equation references evicted symbols", ErrUnusedEquation)

	ErrInconsistentEquation = errors.New("equation contradicts known information")
	ErrEmptyEquation        = errors.New("equation has no coefficients")
	ErrEquationTooWide      = errors.New("equation spans more symbols than the window")
	ErrWrongSymbolSize      = errors.New("wrong symbol size")
)

// An Equation states sum(Coefficients[i] * x[Pivot+i]) = ConstantTerm.
type Equation struct {
	Pivot        protocol.SymbolID
	Coefficients []uint8
	ConstantTerm []uint8
	// ReceivedAt is used to expire the equation while it is pending.
	ReceivedAt time.Time
}

// Last returns the highest id referenced by the equation.
func (e *Equation) Last() protocol.SymbolID {
	return e.Pivot + protocol.SymbolID(len(e.Coefficients)) - 1
}

// Solver is an incremental GF(2^8) solver for one stream.
// It is not safe for concurrent use.
type Solver struct {
	field      *gf256.Field
	symbolSize int
	maxWindow  uint64

	// ids below lower have been evicted
	lower      protocol.SymbolID
	highest    protocol.SymbolID
	hasHighest bool

	known map[protocol.SymbolID][]uint8
	rows  map[protocol.SymbolID]*row
}

// New creates a solver for symbols of symbolSize bytes, retaining at most
// maxWindow consecutive ids.
func New(field *gf256.Field, symbolSize int, maxWindow int) *Solver {
	if field == nil {
		field = gf256.Default()
	}
	return &Solver{
		field:      field,
		symbolSize: symbolSize,
		maxWindow:  uint64(maxWindow),
		known:      make(map[protocol.SymbolID][]uint8),
		rows:       make(map[protocol.SymbolID]*row),
	}
}

// AddKnownSymbol adds a symbol whose value is known.
// The returned ids start with id itself, followed by the ids recovered thanks to it.
func (s *Solver) AddKnownSymbol(id protocol.SymbolID, payload []byte) ([]protocol.SymbolID, error) {
	if len(payload) != s.symbolSize {
		return nil, fmt.Errorf("%w: got %d bytes, expected %d", ErrWrongSymbolSize, len(payload), s.symbolSize)
	}
	if id < s.lower {
		return nil, errStaleSymbol
	}
	if _, ok := s.known[id]; ok {
		return nil, ErrUnusedSymbol
	}
	s.makeRoom(id)
	value := make([]uint8, s.symbolSize)
	copy(value, payload)
	s.known[id] = value
	s.updateHighest(id)

	var recovered []protocol.SymbolID
	if r, ok := s.rows[id]; ok {
		// the symbol was the pivot of a pending row:
		// what remains of that row is a new equation over the other unknowns
		delete(s.rows, id)
		s.field.AddScaled(r.constant, r.coef(id), value)
		r.setCoef(id, 0)
		r.trim()
		if !r.isEmpty() {
			// an empty residual is fine, the row was redundant with this symbol
			rec, err := s.insert(r)
			if err != nil {
				return nil, err
			}
			recovered = rec
		}
	} else {
		for _, r := range s.rows {
			c := r.coef(id)
			if c == 0 {
				continue
			}
			s.field.AddScaled(r.constant, c, value)
			r.setCoef(id, 0)
			r.trim()
			if r.isUnit() {
				recovered = append(recovered, s.resolve(r))
			}
		}
	}
	slices.Sort(recovered)
	return append([]protocol.SymbolID{id}, recovered...), nil
}

// AddEquation adds an equation to the system and returns the ids it allowed to recover, in ascending order.
func (s *Solver) AddEquation(eq *Equation) ([]protocol.SymbolID, error) {
	if len(eq.Coefficients) == 0 {
		return nil, ErrEmptyEquation
	}
	if len(eq.ConstantTerm) != s.symbolSize {
		return nil, fmt.Errorf("%w: got %d bytes, expected %d", ErrWrongSymbolSize, len(eq.ConstantTerm), s.symbolSize)
	}
	if uint64(len(eq.Coefficients)) > s.maxWindow {
		return nil, fmt.Errorf("%w: %d > %d", ErrEquationTooWide, len(eq.Coefficients), s.maxWindow)
	}
	if eq.Last() < eq.Pivot {
		return nil, fmt.Errorf("equation bounds overflow: pivot %d, %d coefficients", eq.Pivot, len(eq.Coefficients))
	}
	s.makeRoom(eq.Last())

	r := &row{
		start:      eq.Pivot,
		coefs:      make([]uint8, len(eq.Coefficients)),
		constant:   make([]uint8, s.symbolSize),
		receivedAt: eq.ReceivedAt,
	}
	copy(r.coefs, eq.Coefficients)
	copy(r.constant, eq.ConstantTerm)
	for id := r.start; id < r.end(); id++ {
		c := r.coef(id)
		if c == 0 {
			continue
		}
		if id < s.lower {
			return nil, errStaleEquation
		}
		if value, ok := s.known[id]; ok {
			s.field.AddScaled(r.constant, c, value)
			r.setCoef(id, 0)
		}
	}
	r.trim()
	if r.isEmpty() {
		if !gf256.IsZero(r.constant) {
			return nil, ErrInconsistentEquation
		}
		return nil, ErrUnusedEquation
	}
	s.updateHighest(r.end() - 1)
	return s.insert(r)
}

// insert reduces r against the pending rows and adds it to the system.
// r must not reference known symbols.
func (s *Solver) insert(r *row) ([]protocol.SymbolID, error) {
	// reduce r: remove every pivot column from it
	for id := r.start; id < r.end(); id++ {
		c := r.coef(id)
		if c == 0 {
			continue
		}
		if pr, ok := s.rows[id]; ok {
			r.addScaled(s.field, c, pr)
		}
	}
	r.trim()
	if r.isEmpty() {
		if !gf256.IsZero(r.constant) {
			return nil, ErrInconsistentEquation
		}
		return nil, ErrUnusedEquation
	}
	r.normalize(s.field)
	pivot := r.start

	// remove the new pivot column from the other rows
	var recovered []protocol.SymbolID
	for _, o := range s.rows {
		c := o.coef(pivot)
		if c == 0 {
			continue
		}
		o.addScaled(s.field, c, r)
		o.trim()
		if o.isUnit() {
			recovered = append(recovered, s.resolve(o))
		}
	}
	s.rows[pivot] = r
	if r.isUnit() {
		recovered = append(recovered, s.resolve(r))
	}
	slices.Sort(recovered)
	return recovered, nil
}

// resolve turns a unit row into a known symbol.
func (s *Solver) resolve(r *row) protocol.SymbolID {
	delete(s.rows, r.start)
	s.known[r.start] = r.constant
	return r.start
}

// makeRoom evicts the oldest ids so that id fits in the window.
func (s *Solver) makeRoom(id protocol.SymbolID) {
	if s.maxWindow == 0 || uint64(id-s.lower) < s.maxWindow || id < s.lower {
		return
	}
	s.RemoveUpTo(id + 1 - protocol.SymbolID(s.maxWindow))
}

func (s *Solver) updateHighest(id protocol.SymbolID) {
	if !s.hasHighest || id > s.highest {
		s.highest = id
		s.hasHighest = true
	}
}

// Value returns the value of a known symbol.
func (s *Solver) Value(id protocol.SymbolID) ([]byte, bool) {
	v, ok := s.known[id]
	return v, ok
}

// RemoveUpTo evicts every id below id and returns the new lower bound.
// It never lowers the bound.
func (s *Solver) RemoveUpTo(id protocol.SymbolID) protocol.SymbolID {
	if id <= s.lower {
		return s.lower
	}
	s.lower = id
	for known := range s.known {
		if known < id {
			delete(s.known, known)
		}
	}
	// rows are zero below their pivot, so only rows pivoting below id reference evicted symbols
	for pivot := range s.rows {
		if pivot < id {
			delete(s.rows, pivot)
		}
	}
	return s.lower
}

// RemoveExpired drops the pending equations received before expiredAt.
func (s *Solver) RemoveExpired(expiredAt time.Time) {
	for pivot, r := range s.rows {
		if r.receivedAt.Before(expiredAt) {
			delete(s.rows, pivot)
		}
	}
}

// Range returns the lowest and highest ids of the window.
func (s *Solver) Range() (protocol.SymbolID, protocol.SymbolID, bool) {
	if !s.hasHighest || s.highest < s.lower {
		return 0, 0, false
	}
	return s.lower, s.highest, true
}

// LargestContiguouslyKnown returns the highest id such that every id from the
// lower bound up to it is known.
func (s *Solver) LargestContiguouslyKnown() (protocol.SymbolID, bool) {
	if _, ok := s.known[s.lower]; !ok {
		return 0, false
	}
	id := s.lower
	for {
		if _, ok := s.known[id+1]; !ok {
			return id, true
		}
		id++
	}
}

// MissingDegrees returns how many more independent equations are needed to
// recover every unknown symbol of the window.
func (s *Solver) MissingDegrees() (uint64, bool) {
	lo, hi, ok := s.Range()
	if !ok {
		return 0, false
	}
	unknown := uint64(hi-lo) + 1 - uint64(len(s.known))
	if pending := uint64(len(s.rows)); pending < unknown {
		return unknown - pending, true
	}
	return 0, true
}
