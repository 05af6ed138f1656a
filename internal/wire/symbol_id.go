package wire

import (
	"encoding/binary"
	"errors"

	"github.com/quic-go/fecwindow/internal/protocol"
)

// ErrBufferTooSmall is returned when a buffer is shorter than the structure it should contain.
var ErrBufferTooSmall = errors.New("buffer too small")

// AppendSymbolID appends the 8 byte big-endian form of id.
func AppendSymbolID(b []byte, id protocol.SymbolID) []byte {
	return binary.BigEndian.AppendUint64(b, uint64(id))
}

// ParseSymbolID reads a serialized symbol id.
// It returns the number of bytes consumed.
func ParseSymbolID(b []byte) (protocol.SymbolID, int, error) {
	if len(b) < protocol.SymbolIDLen {
		return 0, 0, ErrBufferTooSmall
	}
	return protocol.SymbolID(binary.BigEndian.Uint64(b)), protocol.SymbolIDLen, nil
}
