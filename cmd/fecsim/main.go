// fecsim simulates streams protected by forward erasure correction over lossy links.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/quic-go/fecwindow"
	"github.com/quic-go/fecwindow/logging"
	"github.com/quic-go/fecwindow/metrics"
	"github.com/quic-go/fecwindow/qlog"
)

type options struct {
	scenarioPath string
	scenario     *Scenario
	qlogDir      string
	metricsFile  string
	csvFile      string
	logFormat    string
	logLevel     string
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{scenario: defaultScenario()}
	rootCmd := &cobra.Command{
		Use:          "fecsim",
		Short:        "Simulate FEC protected streams over lossy links",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "log format (text or json)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn or error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.load(cmd); err != nil {
				return err
			}
			logger, err := newLogger(cmd.ErrOrStderr(), opts.logFormat, opts.logLevel)
			if err != nil {
				return err
			}
			return run(cmd.Context(), opts, logger, cmd.OutOrStdout())
		},
	}
	s := opts.scenario
	flags := runCmd.Flags()
	flags.StringVarP(&opts.scenarioPath, "scenario", "f", "", "YAML scenario file, flags override its values")
	flags.StringVar(&s.Scheme, "scheme", s.Scheme, "FEC scheme (rlc or vlc)")
	flags.IntVar(&s.Streams, "streams", s.Streams, "number of streams")
	flags.IntVar(&s.Parallelism, "parallelism", s.Parallelism, "streams simulated in parallel, 0 for no limit")
	flags.IntVar(&s.Symbols, "symbols", s.Symbols, "source symbols sent per stream")
	flags.IntVar(&s.SymbolSize, "symbol-size", s.SymbolSize, "size of a source symbol")
	flags.IntVar(&s.WindowSize, "window", s.WindowSize, "maximum window size")
	flags.IntVar(&s.RepairInterval, "repair-interval", s.RepairInterval, "source symbols between repair symbols")
	flags.IntVar(&s.RepairCount, "repair-count", s.RepairCount, "repair symbols sent per interval")
	flags.IntVar(&s.AckInterval, "ack-interval", s.AckInterval, "source symbols between acknowledgments")
	flags.Float64Var(&s.Loss, "loss", s.Loss, "probability of losing a source or repair symbol")
	flags.Uint64Var(&s.Seed, "seed", s.Seed, "seed of the simulation")
	flags.Float64Var(&s.Rate, "rate", s.Rate, "frames per second and stream, 0 for no limit")
	flags.StringVar(&opts.qlogDir, "qlog-dir", "", "write qlog files to this directory")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file")
	flags.StringVar(&opts.csvFile, "csv", "", "write per-stream results as CSV to this file")

	validateCmd := &cobra.Command{
		Use:   "validate [scenario]",
		Short: "Validate a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadScenario(args[0])
			if err != nil {
				return err
			}
			if err := s.Validate(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d %s streams, %d symbols of %d bytes\n",
				args[0], s.Streams, strings.ToUpper(s.Scheme), s.Symbols, s.SymbolSize)
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, validateCmd)
	return rootCmd
}

var scenarioFlags = []string{
	"scheme", "streams", "parallelism", "symbols", "symbol-size", "window",
	"repair-interval", "repair-count", "ack-interval", "loss", "seed", "rate",
}

// load reads the scenario file, if any, and applies the flags set on the command line.
func (o *options) load(cmd *cobra.Command) error {
	if o.scenarioPath != "" {
		changed := make(map[string]string)
		for _, name := range scenarioFlags {
			if cmd.Flags().Changed(name) {
				changed[name] = cmd.Flags().Lookup(name).Value.String()
			}
		}
		*o.scenario = *defaultScenario()
		if err := readScenario(o.scenarioPath, o.scenario); err != nil {
			return err
		}
		for name, value := range changed {
			if err := cmd.Flags().Set(name, value); err != nil {
				return err
			}
		}
	}
	return o.scenario.Validate()
}

func newLogger(w io.Writer, format, level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: l}
	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
}

func run(ctx context.Context, opts *options, logger *slog.Logger, out io.Writer) error {
	s := opts.scenario
	registry := prometheus.NewRegistry()
	collectors := metrics.NewCollectors(registry)
	tracers := func(stream int) func(logging.Role, fecwindow.FECSchemeID) *logging.CodecTracer {
		return func(role logging.Role, scheme fecwindow.FECSchemeID) *logging.CodecTracer {
			t := []*logging.CodecTracer{collectors.NewCodecTracer(role, scheme)}
			if opts.qlogDir != "" {
				qt, err := qlog.NewFileCodecTracer(opts.qlogDir, "stream_"+strconv.Itoa(stream), role, scheme)
				if err != nil {
					logger.Warn("creating qlog file failed", "stream", stream, "err", err)
				} else {
					t = append(t, qt)
				}
			}
			return logging.NewMultiplexedCodecTracer(t...)
		}
	}

	results := make([]*StreamResult, s.Streams)
	g, ctx := errgroup.WithContext(ctx)
	if s.Parallelism > 0 {
		g.SetLimit(s.Parallelism)
	}
	for i := 0; i < s.Streams; i++ {
		g.Go(func() error {
			sim, err := newStreamSim(i, s, logger, tracers)
			if err != nil {
				return err
			}
			r, err := sim.Run(ctx)
			if err != nil {
				return fmt.Errorf("stream %d: %w", i, err)
			}
			results[i] = r
			logger.Debug("stream done", "stream", i, "recovered", r.Recovered, "unrecovered", r.Unrecovered)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if opts.csvFile != "" {
		f, err := os.Create(opts.csvFile)
		if err != nil {
			return err
		}
		if err := writeCSV(f, results); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	if opts.metricsFile != "" {
		if err := prometheus.WriteToTextfile(opts.metricsFile, registry); err != nil {
			return err
		}
	}
	return writeSummary(out, results)
}
