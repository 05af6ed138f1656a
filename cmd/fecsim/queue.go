package main

import (
	"errors"
	"sync"
)

var errQueueFull = errors.New("frame queue full")

// frameQueue is a bounded queue of serialized frames.
type frameQueue struct {
	mx       sync.Mutex
	frames   [][]byte
	maxLen   int
	closeErr error
	closed   bool
}

func newFrameQueue(maxLen int) *frameQueue {
	return &frameQueue{maxLen: maxLen}
}

// Add queues a frame.
// Once maxLen frames are queued, Add fails instead of blocking the sender.
func (q *frameQueue) Add(frame []byte) error {
	q.mx.Lock()
	if q.closed {
		q.mx.Unlock()
		return q.closeErr
	}
	if len(q.frames) >= q.maxLen {
		q.mx.Unlock()
		return errQueueFull
	}
	q.frames = append(q.frames, frame)
	q.mx.Unlock()
	return nil
}

// Peek gets the next frame.
// Pop needs to be called before the next call to Peek.
func (q *frameQueue) Peek() []byte {
	q.mx.Lock()
	defer q.mx.Unlock()
	if len(q.frames) == 0 {
		return nil
	}
	return q.frames[0]
}

func (q *frameQueue) Pop() {
	q.mx.Lock()
	defer q.mx.Unlock()
	if len(q.frames) == 0 {
		return
	}
	q.frames[0] = nil
	q.frames = q.frames[1:]
}

func (q *frameQueue) Len() int {
	q.mx.Lock()
	defer q.mx.Unlock()
	return len(q.frames)
}

func (q *frameQueue) CloseWithError(e error) {
	q.mx.Lock()
	defer q.mx.Unlock()
	q.closeErr = e
	q.closed = true
}
