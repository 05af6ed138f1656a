// Package qlog writes the events of encoders and decoders as qlog JSON-SEQ records.
package qlog

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/quic-go/fecwindow/logging"
)

// NewCodecTracer creates a tracer writing qlog events to w.
// w is closed when the tracer's Close callback is called.
func NewCodecTracer(w io.WriteCloser, name string, role logging.Role, scheme logging.FECSchemeID) *logging.CodecTracer {
	tr := &trace{
		VantagePoint: vantagePoint{Name: name, Type: role},
		CommonFields: commonFields{Scheme: scheme, ReferenceTime: time.Now()},
	}
	wr := newWriter(w, tr)
	go wr.Run()
	return &logging.CodecTracer{
		ProtectedSymbol: func(id logging.SymbolID) {
			wr.RecordEvent(time.Now(), eventSymbolProtected{ID: id})
		},
		GeneratedRepairSymbol: func(pivot logging.SymbolID, length int) {
			wr.RecordEvent(time.Now(), eventRepairSymbolGenerated{Pivot: pivot, Length: length})
		},
		AcknowledgedUpTo: func(id logging.SymbolID) {
			wr.RecordEvent(time.Now(), eventAcknowledged{UpTo: id})
		},
		ReceivedSourceSymbol: func(id logging.SymbolID) {
			wr.RecordEvent(time.Now(), eventSourceSymbolReceived{ID: id})
		},
		ReceivedRepairSymbol: func(length int) {
			wr.RecordEvent(time.Now(), eventRepairSymbolReceived{Length: length})
		},
		RecoveredSymbol: func(id logging.SymbolID) {
			wr.RecordEvent(time.Now(), eventSymbolRecovered{ID: id})
		},
		DroppedSymbol: func(kind logging.SymbolKind, code logging.ErrorCode) {
			wr.RecordEvent(time.Now(), eventSymbolDropped{Kind: kind, Code: code})
		},
		RemovedUpTo: func(bound logging.SymbolID) {
			wr.RecordEvent(time.Now(), eventRemoved{Bound: bound})
		},
		Error: func(op string, err error) {
			wr.RecordEvent(time.Now(), eventError{Op: op, Err: err})
		},
		Close: func() {
			if err := wr.Close(); err != nil {
				slog.Warn("closing qlog writer failed", "name", name, "err", err)
			}
		},
	}
}

// NewFileCodecTracer creates a tracer writing to <dir>/<name>_<role>.sqlog.
func NewFileCodecTracer(dir, name string, role logging.Role, scheme logging.FECSchemeID) (*logging.CodecTracer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating qlog dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.sqlog", name, role))
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating qlog file: %w", err)
	}
	return NewCodecTracer(newBufferedWriteCloser(bufio.NewWriter(f), f), name, role, scheme), nil
}

type bufferedWriteCloser struct {
	*bufio.Writer
	io.Closer
}

func newBufferedWriteCloser(writer *bufio.Writer, closer io.Closer) io.WriteCloser {
	return &bufferedWriteCloser{Writer: writer, Closer: closer}
}

func (h bufferedWriteCloser) Close() error {
	if err := h.Writer.Flush(); err != nil {
		return err
	}
	return h.Closer.Close()
}
