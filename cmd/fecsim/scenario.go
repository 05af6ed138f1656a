package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/quic-go/fecwindow"
)

var validate = validator.New()

// A Scenario describes a simulation run.
type Scenario struct {
	Scheme  string `yaml:"scheme" validate:"required,oneof=rlc vlc"`
	Streams int    `yaml:"streams" validate:"gte=1,lte=4096"`
	// Parallelism limits the number of streams simulated at the same time. Zero means no limit.
	Parallelism int `yaml:"parallelism" validate:"gte=0"`

	Symbols       int    `yaml:"symbols" validate:"gte=1"`
	SymbolSize    int    `yaml:"symbol_size" validate:"gte=1,lte=65536"`
	WindowSize    int    `yaml:"window_size" validate:"gte=1,lte=4096"`
	FirstSymbolID uint64 `yaml:"first_symbol_id"`
	Polynomial    uint16 `yaml:"polynomial" validate:"omitempty,gte=256,lte=511"`

	// RepairInterval is the number of source symbols sent between two batches of repair symbols.
	RepairInterval int `yaml:"repair_interval" validate:"gte=1"`
	RepairCount    int `yaml:"repair_count" validate:"gte=1"`
	// AckInterval is the number of source symbols sent between two SYMBOL_ACK frames.
	AckInterval int `yaml:"ack_interval" validate:"gte=1"`

	Loss float64 `yaml:"loss" validate:"gte=0,lt=1"`
	Seed uint64  `yaml:"seed"`
	// Rate limits the frames sent per second and stream. Zero means no limit.
	Rate      float64 `yaml:"rate" validate:"gte=0"`
	Burst     int     `yaml:"burst" validate:"gte=0"`
	QueueSize int     `yaml:"queue_size" validate:"gte=1"`
	// Expiry drops pending VLC repair symbols older than this.
	Expiry time.Duration `yaml:"expiry" validate:"gte=0"`
}

func defaultScenario() *Scenario {
	return &Scenario{
		Scheme:         "rlc",
		Streams:        1,
		Symbols:        1000,
		SymbolSize:     1200,
		WindowSize:     fecwindow.DefaultMaxWindowSize,
		RepairInterval: 4,
		RepairCount:    1,
		AckInterval:    8,
		Loss:           0.05,
		Seed:           1,
		QueueSize:      1024,
	}
}

// loadScenario reads a scenario from a YAML file.
// Fields missing from the file keep their default values.
func loadScenario(path string) (*Scenario, error) {
	s := defaultScenario()
	if err := readScenario(path, s); err != nil {
		return nil, err
	}
	return s, nil
}

func readScenario(path string, s *Scenario) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading scenario: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	return nil
}

// Validate checks the scenario.
func (s *Scenario) Validate() error {
	s.Scheme = strings.ToLower(s.Scheme)
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid scenario: %w", err)
	}
	if s.Scheme == "vlc" && s.WindowSize > fecwindow.MaxVLCWindowSize {
		return fmt.Errorf("invalid scenario: VLC window size %d exceeds %d", s.WindowSize, fecwindow.MaxVLCWindowSize)
	}
	return nil
}

// FECScheme returns the scheme identifier.
func (s *Scenario) FECScheme() fecwindow.FECSchemeID {
	if s.Scheme == "vlc" {
		return fecwindow.FECSchemeVLC
	}
	return fecwindow.FECSchemeRLC
}
