package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"golang.org/x/time/rate"

	"github.com/quic-go/fecwindow"
	"github.com/quic-go/fecwindow/internal/wire"
	"github.com/quic-go/fecwindow/logging"
)

// StreamResult summarizes the simulation of one stream.
type StreamResult struct {
	Stream       int
	Scheme       string
	SourceSent   int
	SourceLost   int
	RepairSent   int
	RepairLost   int
	Recovered    int
	Unrecovered  int
	UnusedRepair int
	Errors       int
	Duration     time.Duration
}

// RecoveryRatio is the share of lost source symbols that were recovered.
func (r *StreamResult) RecoveryRatio() float64 {
	if r.SourceLost == 0 {
		return 1
	}
	return float64(r.Recovered) / float64(r.SourceLost)
}

type tracerFactory func(stream int) func(logging.Role, fecwindow.FECSchemeID) *logging.CodecTracer

// streamSim simulates an encoder and a decoder connected by a lossy link.
type streamSim struct {
	id       int
	scenario *Scenario
	logger   *slog.Logger

	enc *fecwindow.Encoder
	dec *fecwindow.Decoder

	forward       *link
	backward      *link
	forwardParser *wire.FrameParser
	backParser    *wire.FrameParser

	rng     *rand.Rand
	known   []bool
	results StreamResult
}

func newStreamSim(id int, s *Scenario, logger *slog.Logger, tracer tracerFactory) (*streamSim, error) {
	scheme := s.FECScheme()
	config := &fecwindow.Config{
		SymbolSize:    s.SymbolSize,
		MaxWindowSize: s.WindowSize,
		FirstSymbolID: fecwindow.SymbolID(s.FirstSymbolID),
		Seed:          s.Seed + uint64(id),
		Polynomial:    fecwindow.Polynomial(s.Polynomial),
		Logger:        logger,
	}
	if tracer != nil {
		config.Tracer = tracer(id)
	}
	enc, err := fecwindow.NewEncoder(scheme, config)
	if err != nil {
		return nil, fmt.Errorf("creating encoder: %w", err)
	}
	// the decoder learns the first id from the WINDOW frame
	decConfig := config.Clone()
	decConfig.FirstSymbolID = 0
	dec, err := fecwindow.NewDecoder(scheme, decConfig)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("creating decoder: %w", err)
	}

	limit := rate.Inf
	if s.Rate > 0 {
		limit = rate.Limit(s.Rate)
	}
	rng := rand.New(rand.NewPCG(s.Seed, uint64(id)))
	return &streamSim{
		id:            id,
		scenario:      s,
		logger:        logger.With("stream", id),
		enc:           enc,
		dec:           dec,
		forward:       newLink(s.QueueSize, s.Loss, limit, s.Burst, rng),
		backward:      newLink(s.QueueSize, 0, rate.Inf, 1, rng),
		forwardParser: wire.NewFrameParser(scheme, s.SymbolSize),
		backParser:    wire.NewFrameParser(scheme, s.SymbolSize),
		rng:           rng,
		known:         make([]bool, s.Symbols),
		results:       StreamResult{Stream: id, Scheme: scheme.String()},
	}, nil
}

func (s *streamSim) Close() {
	s.enc.Close()
	s.dec.Close()
}

// Run sends all source symbols of the scenario and returns the results.
func (s *streamSim) Run(ctx context.Context) (*StreamResult, error) {
	start := time.Now()
	defer s.Close()

	if err := s.forward.SendControl(&wire.WindowFrame{
		FirstID: fecwindow.SymbolID(s.scenario.FirstSymbolID),
		Size:    uint64(s.scenario.WindowSize),
	}); err != nil {
		return nil, err
	}
	payload := make([]byte, s.scenario.SymbolSize)
	for i := 0; i < s.scenario.Symbols; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for j := range payload {
			payload[j] = byte(s.rng.Uint32())
		}
		if err := s.sendSource(ctx, payload); err != nil {
			return nil, err
		}
		if (i+1)%s.scenario.RepairInterval == 0 || i == s.scenario.Symbols-1 {
			if err := s.sendRepair(ctx); err != nil {
				return nil, err
			}
		}
		if err := s.forward.Receive(s.forwardParser, s.handleForwardFrame); err != nil {
			return nil, err
		}
		if (i+1)%s.scenario.AckInterval == 0 {
			if err := s.acknowledge(); err != nil {
				return nil, err
			}
		}
	}

	for _, known := range s.known {
		if !known {
			s.results.Unrecovered++
		}
	}
	s.results.Duration = time.Since(start)
	return &s.results, nil
}

func (s *streamSim) sendSource(ctx context.Context, payload []byte) error {
	if s.enc.WindowSize() >= s.scenario.WindowSize {
		// the oldest symbol was lost for good: give up on it and let the acknowledgments move on
		first, _ := s.enc.FirstMetadata()
		s.enc.ReceivedSymbol(first)
		s.enc.RemoveUpTo(first + 1)
	}
	id, err := s.enc.ProtectData(payload)
	if err != nil {
		return err
	}
	s.results.SourceSent++
	delivered, err := s.forward.SendData(ctx, &wire.SourceSymbolFrame{ID: id, Payload: payload})
	if err != nil {
		return err
	}
	if !delivered {
		s.results.SourceLost++
	}
	return nil
}

func (s *streamSim) sendRepair(ctx context.Context) error {
	for k := 0; k < s.scenario.RepairCount; k++ {
		rs, err := s.enc.GenerateRepairSymbol()
		if err != nil {
			if errors.Is(err, fecwindow.ErrNoSymbolToGenerate) {
				return nil
			}
			return err
		}
		s.results.RepairSent++
		delivered, err := s.forward.SendData(ctx, &wire.RepairFrame{Data: rs})
		if err != nil {
			return err
		}
		if !delivered {
			s.results.RepairLost++
		}
	}
	return nil
}

func (s *streamSim) handleForwardFrame(f wire.Frame) error {
	switch frame := f.(type) {
	case *wire.WindowFrame:
		if s.dec.Scheme() == fecwindow.FECSchemeVLC {
			return s.dec.SetFirstSymbolID(frame.FirstID)
		}
		s.dec.RemoveUpTo(frame.FirstID)
	case *wire.SourceSymbolFrame:
		symbols, err := s.dec.ReceiveSourceSymbol(frame.ID, frame.Payload)
		if err != nil {
			s.handleDecoderError(err)
			return nil
		}
		s.markKnown(frame.ID)
		s.recovered(symbols[1:])
	case *wire.RepairFrame:
		_, symbols, err := s.dec.ReceiveRepairSymbol(frame.Data)
		if err != nil {
			if errors.Is(err, fecwindow.ErrUnusedRepairSymbol) {
				s.results.UnusedRepair++
			}
			s.handleDecoderError(err)
			return nil
		}
		s.recovered(symbols)
	default:
		return fmt.Errorf("unexpected frame on the forward link: %T", f)
	}
	return nil
}

// handleDecoderError logs internal errors. The decoder remains usable after any error.
func (s *streamSim) handleDecoderError(err error) {
	var fecErr *fecwindow.Error
	if errors.As(err, &fecErr) && fecErr.Code.Category() != fecwindow.CategoryInternal {
		return
	}
	s.results.Errors++
	s.logger.Warn("decoder error", "err", err)
}

func (s *streamSim) recovered(symbols []fecwindow.SourceSymbol) {
	for _, sym := range symbols {
		s.markKnown(sym.ID)
		s.results.Recovered++
	}
}

func (s *streamSim) markKnown(id fecwindow.SymbolID) {
	i := uint64(id) - s.scenario.FirstSymbolID
	if i < uint64(len(s.known)) {
		s.known[i] = true
	}
}

// acknowledge sends a SYMBOL_ACK frame to the encoder and slides both windows.
func (s *streamSim) acknowledge() error {
	ack := s.dec.SymbolAck()
	if ack == nil {
		return nil
	}
	if err := s.backward.SendControl(ack); err != nil {
		return err
	}
	if largest, ok := s.dec.LargestContiguouslyReceived(); ok {
		if err := s.removeFromDecoder(largest + 1); err != nil {
			return err
		}
	}
	return s.backward.Receive(s.backParser, func(f wire.Frame) error {
		frame, ok := f.(*wire.SymbolAckFrame)
		if !ok {
			return fmt.Errorf("unexpected frame on the backward link: %T", f)
		}
		s.enc.HandleSymbolAck(frame)
		if acked, ok := s.enc.LargestContiguouslyAcked(); ok {
			s.enc.RemoveUpTo(acked + 1)
		}
		return nil
	})
}

func (s *streamSim) removeFromDecoder(id fecwindow.SymbolID) error {
	if s.scenario.Expiry > 0 && s.dec.Scheme() == fecwindow.FECSchemeVLC {
		_, err := s.dec.RemoveUpToWithExpiry(id, time.Now().Add(-s.scenario.Expiry))
		return err
	}
	s.dec.RemoveUpTo(id)
	return nil
}
