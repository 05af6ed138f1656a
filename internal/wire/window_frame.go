package wire

import (
	"bytes"

	"github.com/quic-go/fecwindow/internal/protocol"
	"github.com/quic-go/quic-go/quicvarint"
)

// A WindowFrame announces where an encoder starts numbering its source symbols
// and how many symbols it protects at most.
// VLC decoders need the first id to derive coefficients.
type WindowFrame struct {
	FirstID protocol.SymbolID
	Size    uint64
}

func parseWindowFrame(r *bytes.Reader) (*WindowFrame, error) {
	f := &WindowFrame{}
	first, err := quicvarint.Read(r)
	if err != nil {
		return nil, err
	}
	f.FirstID = protocol.SymbolID(first)
	size, err := quicvarint.Read(r)
	if err != nil {
		return nil, err
	}
	f.Size = size
	return f, nil
}

func (f *WindowFrame) Append(b []byte) ([]byte, error) {
	if uint64(f.FirstID) > quicvarint.Max || f.Size > quicvarint.Max {
		return nil, ErrSymbolIDTooLarge
	}
	b = quicvarint.Append(b, uint64(windowFrameType))
	b = quicvarint.Append(b, uint64(f.FirstID))
	b = quicvarint.Append(b, f.Size)
	return b, nil
}

// Length of a written frame.
// It is 0 for frames that can't be written.
func (f *WindowFrame) Length() int {
	if uint64(f.FirstID) > quicvarint.Max || f.Size > quicvarint.Max {
		return 0
	}
	return int(quicvarint.Len(uint64(windowFrameType))) + int(quicvarint.Len(uint64(f.FirstID))) + int(quicvarint.Len(f.Size))
}
