package wire

import (
	"bytes"
	"io"

	"github.com/quic-go/quic-go/quicvarint"
)

// A RepairFrame carries a serialized repair symbol.
// Its length depends on the scheme and the symbol size of the stream.
type RepairFrame struct {
	Data []byte
}

func parseRepairFrame(r *bytes.Reader, repairSymbolLen int) (*RepairFrame, error) {
	if repairSymbolLen > r.Len() {
		return nil, io.EOF
	}
	frame := &RepairFrame{Data: make([]byte, repairSymbolLen)}
	if _, err := io.ReadFull(r, frame.Data); err != nil {
		return nil, err
	}
	return frame, nil
}

func (f *RepairFrame) Append(b []byte) ([]byte, error) {
	b = quicvarint.Append(b, uint64(repairFrameType))
	return append(b, f.Data...), nil
}

// Length of a written frame
func (f *RepairFrame) Length() int {
	return int(quicvarint.Len(uint64(repairFrameType))) + len(f.Data)
}
