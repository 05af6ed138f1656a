package wire

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/quic-go/fecwindow/internal/protocol"
	"github.com/quic-go/quic-go/quicvarint"
)

var errInvalidSymbolAckRanges = errors.New("SymbolAckFrame: SYMBOL_ACK frame contains invalid ACK ranges")

// ErrSymbolIDTooLarge is returned when a frame field doesn't fit into a varint.
var ErrSymbolIDTooLarge = fmt.Errorf("symbol id exceeds %d", uint64(quicvarint.Max))

// A SymbolAckFrame acknowledges the source symbols known by a decoder,
// whether they were received or recovered.
// The ranges are sorted in descending order, the first range contains the largest id.
type SymbolAckFrame struct {
	AckRanges []AckRange
}

func parseSymbolAckFrame(frame *SymbolAckFrame, r *bytes.Reader) error {
	la, err := quicvarint.Read(r)
	if err != nil {
		return err
	}
	largestAcked := protocol.SymbolID(la)
	numBlocks, err := quicvarint.Read(r)
	if err != nil {
		return err
	}
	// read the first ACK range
	ab, err := quicvarint.Read(r)
	if err != nil {
		return err
	}
	ackBlock := protocol.SymbolID(ab)
	if ackBlock > largestAcked {
		return errors.New("invalid first ACK range")
	}
	smallest := largestAcked - ackBlock
	frame.AckRanges = append(frame.AckRanges, AckRange{Smallest: smallest, Largest: largestAcked})

	// read all the other ACK ranges
	for i := uint64(0); i < numBlocks; i++ {
		g, err := quicvarint.Read(r)
		if err != nil {
			return err
		}
		gap := protocol.SymbolID(g)
		if smallest < gap+2 {
			return errInvalidSymbolAckRanges
		}
		largest := smallest - gap - 2

		ab, err := quicvarint.Read(r)
		if err != nil {
			return err
		}
		ackBlock := protocol.SymbolID(ab)
		if ackBlock > largest {
			return errInvalidSymbolAckRanges
		}
		smallest = largest - ackBlock
		frame.AckRanges = append(frame.AckRanges, AckRange{Smallest: smallest, Largest: largest})
	}

	if !frame.validateAckRanges() {
		return errInvalidSymbolAckRanges
	}
	return nil
}

func (f *SymbolAckFrame) validateAckRanges() bool {
	if len(f.AckRanges) == 0 {
		return false
	}
	for _, ackRange := range f.AckRanges {
		if ackRange.Smallest > ackRange.Largest {
			return false
		}
	}
	// ranges must be descending and separated by at least one missing id
	for i := 1; i < len(f.AckRanges); i++ {
		last := f.AckRanges[i-1]
		if last.Smallest <= f.AckRanges[i].Largest+1 {
			return false
		}
	}
	return true
}

// Append appends a SYMBOL_ACK frame.
// Ranges that would make the frame exceed protocol.MaxSymbolAckFrameSize are dropped, starting with the lowest ones.
func (f *SymbolAckFrame) Append(b []byte) ([]byte, error) {
	if len(f.AckRanges) == 0 {
		return nil, errors.New("SymbolAckFrame: no ACK ranges")
	}
	// every other field is bounded by the largest id
	if uint64(f.LargestAcked()) > quicvarint.Max {
		return nil, ErrSymbolIDTooLarge
	}
	b = quicvarint.Append(b, uint64(symbolAckFrameType))
	b = quicvarint.Append(b, uint64(f.LargestAcked()))
	numRanges := f.numEncodableAckRanges()
	b = quicvarint.Append(b, uint64(numRanges-1))
	_, firstRange := f.encodeAckRange(0)
	b = quicvarint.Append(b, firstRange)
	for i := 1; i < numRanges; i++ {
		gap, length := f.encodeAckRange(i)
		b = quicvarint.Append(b, gap)
		b = quicvarint.Append(b, length)
	}
	return b, nil
}

// LargestAcked is the largest acknowledged symbol id
func (f *SymbolAckFrame) LargestAcked() protocol.SymbolID {
	return f.AckRanges[0].Largest
}

// gets the number of ACK ranges that can be encoded
// such that the resulting frame is smaller than the maximum frame size
func (f *SymbolAckFrame) numEncodableAckRanges() int {
	length := int(quicvarint.Len(uint64(symbolAckFrameType))) + int(quicvarint.Len(uint64(f.LargestAcked())))
	length += 2 // assume that the number of ranges will consume 2 bytes
	_, firstRange := f.encodeAckRange(0)
	length += int(quicvarint.Len(firstRange))
	for i := 1; i < len(f.AckRanges); i++ {
		gap, l := f.encodeAckRange(i)
		rangeLen := int(quicvarint.Len(gap)) + int(quicvarint.Len(l))
		if length+rangeLen > protocol.MaxSymbolAckFrameSize {
			return i
		}
		length += rangeLen
	}
	return len(f.AckRanges)
}

func (f *SymbolAckFrame) encodeAckRange(i int) (uint64 /* gap */, uint64 /* length */) {
	if i == 0 {
		return 0, uint64(f.AckRanges[0].Largest - f.AckRanges[0].Smallest)
	}
	return uint64(f.AckRanges[i-1].Smallest - f.AckRanges[i].Largest - 2),
		uint64(f.AckRanges[i].Largest - f.AckRanges[i].Smallest)
}

// Length of a written frame.
// It is 0 for frames that can't be written.
func (f *SymbolAckFrame) Length() int {
	if len(f.AckRanges) == 0 || uint64(f.LargestAcked()) > quicvarint.Max {
		return 0
	}
	numRanges := f.numEncodableAckRanges()
	length := int(quicvarint.Len(uint64(symbolAckFrameType)))
	length += int(quicvarint.Len(uint64(f.LargestAcked())))
	length += int(quicvarint.Len(uint64(numRanges - 1)))
	_, firstRange := f.encodeAckRange(0)
	length += int(quicvarint.Len(firstRange))
	for i := 1; i < numRanges; i++ {
		gap, l := f.encodeAckRange(i)
		length += int(quicvarint.Len(gap))
		length += int(quicvarint.Len(l))
	}
	return length
}

// Reset empties the frame, keeping the allocated ranges.
func (f *SymbolAckFrame) Reset() {
	f.AckRanges = f.AckRanges[:0]
}
