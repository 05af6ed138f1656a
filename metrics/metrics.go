// Package metrics exports encoder and decoder events as Prometheus metrics.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/quic-go/fecwindow/internal/fecerr"
	"github.com/quic-go/fecwindow/logging"
)

const metricNamespace = "fecwindow"

// Collectors are the metrics updated by the tracers of one registry.
type Collectors struct {
	symbolsProtected *prometheus.CounterVec
	repairGenerated  *prometheus.CounterVec
	repairBytes      *prometheus.CounterVec
	sourceReceived   *prometheus.CounterVec
	repairReceived   *prometheus.CounterVec
	symbolsRecovered *prometheus.CounterVec
	symbolsDropped   *prometheus.CounterVec
	errors           *prometheus.CounterVec
	windowLowerBound *prometheus.GaugeVec
}

// NewCollectors creates the collectors and registers them with registerer.
// Collectors already registered by an earlier call are reused.
func NewCollectors(registerer prometheus.Registerer) *Collectors {
	c := &Collectors{
		symbolsProtected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "symbols_protected_total",
			Help:      "Source symbols protected by encoders",
		}, []string{"scheme"}),
		repairGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "repair_symbols_generated_total",
			Help:      "Repair symbols generated by encoders",
		}, []string{"scheme"}),
		repairBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "repair_bytes_generated_total",
			Help:      "Bytes of repair symbols generated by encoders",
		}, []string{"scheme"}),
		sourceReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "source_symbols_received_total",
			Help:      "Source symbols received by decoders",
		}, []string{"scheme"}),
		repairReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "repair_symbols_received_total",
			Help:      "Repair symbols received by decoders",
		}, []string{"scheme"}),
		symbolsRecovered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "symbols_recovered_total",
			Help:      "Source symbols recovered from repair symbols",
		}, []string{"scheme"}),
		symbolsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "symbols_dropped_total",
			Help:      "Symbols that carried no new information",
		}, []string{"scheme", "kind"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "errors_total",
			Help:      "Errors returned by encoders and decoders",
		}, []string{"scheme", "role", "category"}),
		windowLowerBound: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Name:      "window_lower_bound",
			Help:      "Lowest symbol id retained after the last removal",
		}, []string{"scheme", "role"}),
	}
	c.symbolsProtected = register(registerer, c.symbolsProtected)
	c.repairGenerated = register(registerer, c.repairGenerated)
	c.repairBytes = register(registerer, c.repairBytes)
	c.sourceReceived = register(registerer, c.sourceReceived)
	c.repairReceived = register(registerer, c.repairReceived)
	c.symbolsRecovered = register(registerer, c.symbolsRecovered)
	c.symbolsDropped = register(registerer, c.symbolsDropped)
	c.errors = register(registerer, c.errors)
	c.windowLowerBound = register(registerer, c.windowLowerBound)
	return c
}

func register[T prometheus.Collector](registerer prometheus.Registerer, c T) T {
	if err := registerer.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector.(T)
		}
		panic(err)
	}
	return c
}

// NewCodecTracer creates a tracer updating the collectors.
func (c *Collectors) NewCodecTracer(role logging.Role, scheme logging.FECSchemeID) *logging.CodecTracer {
	s := scheme.String()
	r := role.String()
	return &logging.CodecTracer{
		ProtectedSymbol: func(logging.SymbolID) {
			c.symbolsProtected.WithLabelValues(s).Inc()
		},
		GeneratedRepairSymbol: func(_ logging.SymbolID, length int) {
			c.repairGenerated.WithLabelValues(s).Inc()
			c.repairBytes.WithLabelValues(s).Add(float64(length))
		},
		ReceivedSourceSymbol: func(logging.SymbolID) {
			c.sourceReceived.WithLabelValues(s).Inc()
		},
		ReceivedRepairSymbol: func(int) {
			c.repairReceived.WithLabelValues(s).Inc()
		},
		RecoveredSymbol: func(logging.SymbolID) {
			c.symbolsRecovered.WithLabelValues(s).Inc()
		},
		DroppedSymbol: func(kind logging.SymbolKind, _ logging.ErrorCode) {
			c.symbolsDropped.WithLabelValues(s, kind.String()).Inc()
		},
		RemovedUpTo: func(bound logging.SymbolID) {
			c.windowLowerBound.WithLabelValues(s, r).Set(float64(bound))
		},
		Error: func(_ string, err error) {
			category := "unknown"
			var fecErr *fecerr.Error
			if errors.As(err, &fecErr) {
				category = fecErr.Code.Category().String()
			}
			c.errors.WithLabelValues(s, r, category).Inc()
		},
	}
}

// NewCodecTracer creates a tracer updating metrics registered with the default registerer.
func NewCodecTracer(role logging.Role, scheme logging.FECSchemeID) *logging.CodecTracer {
	return NewCollectors(prometheus.DefaultRegisterer).NewCodecTracer(role, scheme)
}
