package wire

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/quic-go/fecwindow/internal/protocol"
	"github.com/quic-go/quic-go/quicvarint"
)

// FrameType is the varint prefix of a frame.
type FrameType uint64

const (
	sourceSymbolFrameType FrameType = 0x30
	repairFrameType       FrameType = 0x31
	symbolAckFrameType    FrameType = 0x32
	windowFrameType       FrameType = 0x33
)

// A Frame is a unit exchanged between an encoder and a decoder.
type Frame interface {
	Append(b []byte) ([]byte, error)
	Length() int
}

// ErrUnknownFrameType is returned for frames of an unknown type.
var ErrUnknownFrameType = errors.New("unknown frame type")

// The FrameParser parses the frames of one stream.
type FrameParser struct {
	symbolSize      int
	repairSymbolLen int

	ackFrame *SymbolAckFrame
}

// NewFrameParser creates a new frame parser for a stream using the given scheme and symbol size.
func NewFrameParser(scheme protocol.FECSchemeID, symbolSize int) *FrameParser {
	return &FrameParser{
		symbolSize:      symbolSize,
		repairSymbolLen: RepairSymbolLen(scheme, symbolSize),
		ackFrame:        &SymbolAckFrame{},
	}
}

// ParseNext parses the next frame.
// It returns the number of bytes consumed. It returns io.EOF if b is empty.
// The SymbolAckFrame returned is reused by subsequent calls.
func (p *FrameParser) ParseNext(b []byte) (int, Frame, error) {
	if len(b) == 0 {
		return 0, nil, io.EOF
	}
	r := bytes.NewReader(b)
	typ, err := quicvarint.Read(r)
	if err != nil {
		return 0, nil, fmt.Errorf("parsing frame type: %w", err)
	}
	frame, err := p.parseFrame(r, FrameType(typ))
	if err != nil {
		return 0, nil, fmt.Errorf("parsing frame type %#x: %w", typ, err)
	}
	return len(b) - r.Len(), frame, nil
}

func (p *FrameParser) parseFrame(r *bytes.Reader, typ FrameType) (Frame, error) {
	switch typ {
	case sourceSymbolFrameType:
		return parseSourceSymbolFrame(r, p.symbolSize)
	case repairFrameType:
		if p.repairSymbolLen == 0 {
			return nil, errors.New("repair frame on a stream without FEC")
		}
		return parseRepairFrame(r, p.repairSymbolLen)
	case symbolAckFrameType:
		p.ackFrame.Reset()
		if err := parseSymbolAckFrame(p.ackFrame, r); err != nil {
			return nil, err
		}
		return p.ackFrame, nil
	case windowFrameType:
		return parseWindowFrame(r)
	default:
		return nil, ErrUnknownFrameType
	}
}
