// Package gf256 implements arithmetic in GF(2^8) and on symbols, i.e. byte
// slices whose elements are field elements.
package gf256

import (
	"fmt"
	"sync"
)

// Polynomial is an irreducible polynomial of degree 8, with the x^8 term included.
type Polynomial uint16

// DefaultPolynomial is x^8 + x^4 + x^3 + x^2 + 1.
const DefaultPolynomial Polynomial = 0x11d

// A Field holds the log and exp tables of GF(2^8) for one polynomial.
// Fields are immutable and can be shared between encoders and decoders.
type Field struct {
	poly Polynomial
	// exp is twice as long as needed so that exp[log[a]+log[b]] never wraps.
	exp [510]uint8
	log [256]uint8
}

var (
	fieldsMutex sync.Mutex
	fields      = make(map[Polynomial]*Field)
)

// NewField returns the field generated by poly.
// It fails if poly is not of degree 8 or if 2 does not generate the
// multiplicative group, i.e. if poly is not primitive.
func NewField(poly Polynomial) (*Field, error) {
	fieldsMutex.Lock()
	defer fieldsMutex.Unlock()

	if f, ok := fields[poly]; ok {
		return f, nil
	}
	if poly < 0x100 || poly > 0x1ff {
		return nil, fmt.Errorf("polynomial %#x is not of degree 8", uint16(poly))
	}
	f := &Field{poly: poly}
	var seen [256]bool
	x := uint16(1)
	for i := 0; i < 255; i++ {
		if seen[x] {
			return nil, fmt.Errorf("polynomial %#x is not primitive", uint16(poly))
		}
		seen[x] = true
		f.exp[i] = uint8(x)
		f.exp[i+255] = uint8(x)
		f.log[x] = uint8(i)
		x <<= 1
		if x&0x100 != 0 {
			x ^= uint16(poly)
		}
	}
	fields[poly] = f
	return f, nil
}

// Default returns the field generated by DefaultPolynomial.
func Default() *Field {
	f, err := NewField(DefaultPolynomial)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *Field) mul(a, b uint8) uint8 {
	if a == 0 || b == 0 {
		return 0
	}
	return f.exp[int(f.log[a])+int(f.log[b])]
}

// div returns a/b. b must not be zero.
func (f *Field) div(a, b uint8) uint8 {
	if b == 0 {
		panic("gf256: division by zero")
	}
	if a == 0 {
		return 0
	}
	return f.exp[int(f.log[a])+255-int(f.log[b])]
}

// Inv returns the multiplicative inverse of a. a must not be zero.
func (f *Field) Inv(a uint8) uint8 { return f.div(1, a) }

// Exp returns alpha^e, alpha being the generator 2.
func (f *Field) Exp(e uint64) uint8 { return f.exp[e%255] }
