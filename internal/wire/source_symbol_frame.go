package wire

import (
	"bytes"
	"io"

	"github.com/quic-go/fecwindow/internal/protocol"
	"github.com/quic-go/quic-go/quicvarint"
)

// A SourceSymbolFrame carries a protected source symbol.
// The payload length is not encoded, it is the symbol size of the stream.
type SourceSymbolFrame struct {
	ID      protocol.SymbolID
	Payload []byte
}

func parseSourceSymbolFrame(r *bytes.Reader, symbolSize int) (*SourceSymbolFrame, error) {
	md := make([]byte, protocol.SymbolIDLen)
	if _, err := io.ReadFull(r, md); err != nil {
		return nil, io.EOF
	}
	id, _, err := ParseSymbolID(md)
	if err != nil {
		return nil, err
	}
	if symbolSize > r.Len() {
		return nil, io.EOF
	}
	frame := &SourceSymbolFrame{ID: id, Payload: make([]byte, symbolSize)}
	if _, err := io.ReadFull(r, frame.Payload); err != nil {
		// this should never happen since we already checked the length earlier.
		return nil, err
	}
	return frame, nil
}

func (f *SourceSymbolFrame) Append(b []byte) ([]byte, error) {
	b = quicvarint.Append(b, uint64(sourceSymbolFrameType))
	b = AppendSymbolID(b, f.ID)
	return append(b, f.Payload...), nil
}

// Length of a written frame
func (f *SourceSymbolFrame) Length() int {
	return int(quicvarint.Len(uint64(sourceSymbolFrameType))) + protocol.SymbolIDLen + len(f.Payload)
}
