package fec

import (
	"encoding/binary"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/crypto/chacha20"

	"github.com/quic-go/fecwindow/internal/gf256"
	"github.com/quic-go/fecwindow/internal/protocol"
)

// rlcCoefficients derives the count coefficients of an RLC equation from its seed.
// Coefficients are never zero, so the equation covers exactly count ids.
func rlcCoefficients(seed uint32, count int) []uint8 {
	var key [chacha20.KeySize]byte
	binary.BigEndian.PutUint32(key[:], seed)
	var nonce [chacha20.NonceSize]byte
	c, err := chacha20.NewUnauthenticatedCipher(key[:], nonce[:])
	if err != nil {
		// only fails for invalid key and nonce sizes
		panic(err)
	}
	coefs := make([]uint8, 0, count)
	buf := make([]byte, count+count/128+4)
	for len(coefs) < count {
		clear(buf)
		c.XORKeyStream(buf, buf)
		for _, b := range buf {
			if b == 0 {
				continue
			}
			coefs = append(coefs, b)
			if len(coefs) == count {
				break
			}
		}
	}
	return coefs
}

const vlcRowCacheSize = 64

// vlcCoefficients derives VLC coefficients.
// The coefficient of id in the equation with sequence number seq is a^(j*seq),
// with a the generator of the field and j the offset of id from the first id of the stream, modulo 255.
// Equations with consecutive sequence numbers form a Vandermonde system and are linearly independent
// as long as they span at most 255 ids.
type vlcCoefficients struct {
	field *gf256.Field
	// seq % 255 -> powers for every offset
	rows *lru.Cache
}

func newVLCCoefficients(field *gf256.Field) *vlcCoefficients {
	rows, err := lru.New(vlcRowCacheSize)
	if err != nil {
		// only fails for non-positive sizes
		panic(err)
	}
	return &vlcCoefficients{field: field, rows: rows}
}

func (v *vlcCoefficients) row(seq uint64) []uint8 {
	s := seq % 255
	if r, ok := v.rows.Get(s); ok {
		return r.([]uint8)
	}
	r := make([]uint8, 255)
	for j := range r {
		r[j] = v.field.Exp(uint64(j) * s)
	}
	v.rows.Add(s, r)
	return r
}

// Coefficients returns the coefficients of the ids [pivot, pivot+count).
func (v *vlcCoefficients) Coefficients(first, pivot protocol.SymbolID, count int, seq uint64) []uint8 {
	row := v.row(seq)
	coefs := make([]uint8, count)
	j := vlcOffset(first, pivot)
	for i := range coefs {
		coefs[i] = row[j]
		if j++; j == len(row) {
			j = 0
		}
	}
	return coefs
}

func vlcOffset(first, id protocol.SymbolID) int {
	if id >= first {
		return int(uint64(id-first) % 255)
	}
	return int((255 - uint64(first-id)%255) % 255)
}
