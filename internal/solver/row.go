package solver

import (
	"time"

	"github.com/quic-go/fecwindow/internal/gf256"
	"github.com/quic-go/fecwindow/internal/protocol"
)

// A row is one equation of the system: sum(coefs[i] * x[start+i]) = constant.
// Rows stored in the system are normalized: coefs[0] is 1 and start is the pivot.
type row struct {
	start      protocol.SymbolID
	coefs      []uint8
	constant   []uint8
	receivedAt time.Time
}

func (r *row) end() protocol.SymbolID { return r.start + protocol.SymbolID(len(r.coefs)) }

func (r *row) coef(id protocol.SymbolID) uint8 {
	if id < r.start || id >= r.end() {
		return 0
	}
	return r.coefs[id-r.start]
}

func (r *row) setCoef(id protocol.SymbolID, c uint8) {
	r.coefs[id-r.start] = c
}

func (r *row) isEmpty() bool { return len(r.coefs) == 0 }

// isUnit reports whether the row only references its pivot.
func (r *row) isUnit() bool { return len(r.coefs) == 1 && r.coefs[0] != 0 }

// addScaled performs r += c * o, growing r to cover the ids of o.
func (r *row) addScaled(f *gf256.Field, c uint8, o *row) {
	if c == 0 || o.isEmpty() {
		return
	}
	if o.start < r.start || o.end() > r.end() {
		start, end := r.start, r.end()
		if r.isEmpty() || o.start < start {
			start = o.start
		}
		if r.isEmpty() || o.end() > end {
			end = o.end()
		}
		coefs := make([]uint8, end-start)
		copy(coefs[r.start-start:], r.coefs)
		r.start = start
		r.coefs = coefs
	}
	f.AddScaled(r.coefs[o.start-r.start:], c, o.coefs)
	f.AddScaled(r.constant, c, o.constant)
	if o.receivedAt.After(r.receivedAt) {
		r.receivedAt = o.receivedAt
	}
}

// trim drops the leading and trailing zero coefficients.
func (r *row) trim() {
	first := 0
	for first < len(r.coefs) && r.coefs[first] == 0 {
		first++
	}
	last := len(r.coefs)
	for last > first && r.coefs[last-1] == 0 {
		last--
	}
	r.start += protocol.SymbolID(first)
	r.coefs = r.coefs[first:last]
}

// normalize scales the row so that the coefficient of its pivot is 1.
func (r *row) normalize(f *gf256.Field) {
	c := r.coefs[0]
	if c == 1 {
		return
	}
	inv := f.Inv(c)
	f.Scale(r.coefs, inv)
	f.Scale(r.constant, inv)
}
