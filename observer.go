package fecwindow

import (
	"context"
	"errors"
	"log/slog"

	"github.com/quic-go/fecwindow/internal/fecerr"
	"github.com/quic-go/fecwindow/logging"
)

// observer logs and traces the outcomes of encoder and decoder operations.
type observer struct {
	logger *slog.Logger
	tracer *logging.CodecTracer
}

func newObserver(config *Config, role logging.Role, scheme FECSchemeID) observer {
	o := observer{
		logger: config.Logger.With("scheme", scheme.String(), "role", role.String()),
		tracer: &logging.CodecTracer{},
	}
	if config.Tracer != nil {
		if t := config.Tracer(role, scheme); t != nil {
			o.tracer = t
		}
	}
	return o
}

// handleError logs err and passes it to the tracer.
// Internal errors are logged at warning level, all others at debug level.
func (o *observer) handleError(op string, err error, attrs ...any) error {
	if err == nil {
		return nil
	}
	level := slog.LevelWarn
	var fecErr *fecerr.Error
	if errors.As(err, &fecErr) && fecErr.Code.Category() != fecerr.CategoryInternal {
		level = slog.LevelDebug
	}
	o.logger.Log(context.Background(), level, op+" failed", append(attrs, "err", err)...)
	if o.tracer.Error != nil {
		o.tracer.Error(op, err)
	}
	return err
}

func (o *observer) removedUpTo(bound SymbolID) {
	if o.tracer.RemovedUpTo != nil {
		o.tracer.RemovedUpTo(bound)
	}
}

// close closes the tracer. Later events are discarded.
func (o *observer) close() {
	t := o.tracer
	o.tracer = &logging.CodecTracer{}
	if t.Close != nil {
		t.Close()
	}
}
