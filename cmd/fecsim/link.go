package main

import (
	"context"
	"math/rand/v2"

	"golang.org/x/time/rate"

	"github.com/quic-go/fecwindow/internal/wire"
)

// A link carries the frames of one direction of a stream.
// Data frames are dropped with probability loss, control frames are always delivered.
type link struct {
	queue   *frameQueue
	limiter *rate.Limiter
	rng     *rand.Rand
	loss    float64

	sent    int
	dropped int
}

func newLink(queueLen int, loss float64, limit rate.Limit, burst int, rng *rand.Rand) *link {
	if burst < 1 {
		burst = 1
	}
	return &link{
		queue:   newFrameQueue(queueLen),
		limiter: rate.NewLimiter(limit, burst),
		rng:     rng,
		loss:    loss,
	}
}

// SendData paces and sends a frame that may be lost.
// It reports whether the frame was delivered to the queue.
func (l *link) SendData(ctx context.Context, f wire.Frame) (bool, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return false, err
	}
	l.sent++
	if l.loss > 0 && l.rng.Float64() < l.loss {
		l.dropped++
		return false, nil
	}
	return true, l.enqueue(f)
}

// SendControl sends a frame that is never lost.
func (l *link) SendControl(f wire.Frame) error {
	return l.enqueue(f)
}

func (l *link) enqueue(f wire.Frame) error {
	b, err := f.Append(make([]byte, 0, f.Length()))
	if err != nil {
		return err
	}
	return l.queue.Add(b)
}

// Receive calls handle for every queued frame, in order.
func (l *link) Receive(parser *wire.FrameParser, handle func(wire.Frame) error) error {
	for {
		data := l.queue.Peek()
		if data == nil {
			return nil
		}
		for len(data) > 0 {
			n, f, err := parser.ParseNext(data)
			if err != nil {
				return err
			}
			data = data[n:]
			if err := handle(f); err != nil {
				return err
			}
		}
		l.queue.Pop()
	}
}
