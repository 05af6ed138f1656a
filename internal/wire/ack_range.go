package wire

import "github.com/quic-go/fecwindow/internal/protocol"

// AckRange is a range of acknowledged symbol ids, both ends included.
type AckRange struct {
	Smallest protocol.SymbolID
	Largest  protocol.SymbolID
}

// Len returns the number of ids contained in the range.
func (r AckRange) Len() uint64 {
	return uint64(r.Largest-r.Smallest) + 1
}
