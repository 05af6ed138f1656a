package fecwindow

import (
	"log/slog"
	"time"

	"github.com/quic-go/fecwindow/internal/fecerr"
	"github.com/quic-go/fecwindow/internal/gf256"
	"github.com/quic-go/fecwindow/internal/protocol"
	"github.com/quic-go/fecwindow/logging"
)

// DefaultMaxWindowSize is the window size used when Config.MaxWindowSize is zero.
const DefaultMaxWindowSize = protocol.DefaultMaxWindowSize

// Config configures an Encoder or a Decoder.
// The encoder and the decoder of a stream must use the same SymbolSize,
// MaxWindowSize and Polynomial.
type Config struct {
	// SymbolSize is the size of every source symbol. It must be positive.
	SymbolSize int
	// MaxWindowSize is the maximum number of symbols in the window.
	// If zero, DefaultMaxWindowSize is used. VLC supports up to MaxVLCWindowSize.
	MaxWindowSize int
	// FirstSymbolID is the id of the first symbol protected by an Encoder.
	// VLC decoders need to know it, either from this field or from Decoder.SetFirstSymbolID.
	FirstSymbolID SymbolID
	// Seed seeds the generator of the RLC coefficient seeds.
	Seed uint64
	// Polynomial defines the field used by VLC.
	// If zero, DefaultPolynomial is used. RLC always uses DefaultPolynomial.
	Polynomial Polynomial
	// Now returns the current time. It defaults to time.Now.
	Now func() time.Time
	// Logger is used to log errors. It defaults to slog.Default().
	Logger *slog.Logger
	// Tracer is called once for every Encoder and Decoder created.
	// It may return nil.
	Tracer func(role logging.Role, scheme FECSchemeID) *logging.CodecTracer
}

// Clone clones a Config
func (c *Config) Clone() *Config {
	copy := *c
	return &copy
}

func validateConfig(scheme FECSchemeID, config *Config) error {
	if config == nil {
		return fecerr.Internal("missing config")
	}
	if config.SymbolSize <= 0 {
		return fecerr.Internal("invalid symbol size: %d", config.SymbolSize)
	}
	if config.MaxWindowSize < 0 {
		return fecerr.Internal("invalid window size: %d", config.MaxWindowSize)
	}
	if scheme == FECSchemeVLC {
		if config.MaxWindowSize > MaxVLCWindowSize {
			return fecerr.Internal("VLC window size %d exceeds %d", config.MaxWindowSize, MaxVLCWindowSize)
		}
		if config.Polynomial != 0 {
			if _, err := gf256.NewField(config.Polynomial); err != nil {
				return fecerr.Internal("%w", err)
			}
		}
	}
	return nil
}

// populateConfig populates fields in the Config with their default values, if none are set.
// It may be called with nil.
func populateConfig(config *Config) *Config {
	if config == nil {
		config = &Config{}
	}
	maxWindowSize := config.MaxWindowSize
	if maxWindowSize == 0 {
		maxWindowSize = DefaultMaxWindowSize
	}
	polynomial := config.Polynomial
	if polynomial == 0 {
		polynomial = DefaultPolynomial
	}
	now := config.Now
	if now == nil {
		now = time.Now
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Config{
		SymbolSize:    config.SymbolSize,
		MaxWindowSize: maxWindowSize,
		FirstSymbolID: config.FirstSymbolID,
		Seed:          config.Seed,
		Polynomial:    polynomial,
		Now:           now,
		Logger:        logger,
		Tracer:        config.Tracer,
	}
}
