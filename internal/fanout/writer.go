package fanout

import (
	"fmt"
	"io"
	"sync"
	"time"
)

const (
	writerQueueSize    = 256
	writerDrainTimeout = 2 * time.Second
)

type flusher interface {
	Flush() error
}

// tokenWriter serializes tokens from every callback onto one writer. Writing and flushing happen on
// its own goroutine so no decoder lock is held across blocking output.
type tokenWriter struct {
	w            io.Writer
	queue        chan string
	done         chan struct{}
	stopping     chan struct{}
	stopOnce     sync.Once
	fail         func(error)
	drainTimeout time.Duration
}

func newTokenWriter(w io.Writer, fail func(error)) *tokenWriter {
	if w == nil {
		w = io.Discard
	}
	t := &tokenWriter{
		w:            w,
		queue:        make(chan string, writerQueueSize),
		done:         make(chan struct{}),
		stopping:     make(chan struct{}),
		fail:         fail,
		drainTimeout: writerDrainTimeout,
	}
	go t.run()
	return t
}

func (t *tokenWriter) run() {
	defer close(t.done)
	var err error
	for token := range t.queue {
		// keep draining after a failure so producers never block on a dead writer
		if err != nil {
			continue
		}
		if _, err = io.WriteString(t.w, token); err == nil {
			if f, ok := t.w.(flusher); ok {
				err = f.Flush()
			}
		}
		if err != nil {
			t.fail(fmt.Errorf("write token: %w", err))
		}
	}
}

// write queues a token. Once shutdown has been called it no longer waits for room in the queue,
// so a stalled sink cannot hold a callback forever.
func (t *tokenWriter) write(token string) {
	select {
	case t.queue <- token:
	case <-t.stopping:
	}
}

// shutdown releases callbacks blocked in write. It may be called more than once.
func (t *tokenWriter) shutdown() {
	t.stopOnce.Do(func() {
		close(t.stopping)
	})
}

// close waits for the queued tokens to be written. It returns false when the sink did not drain
// within drainTimeout; the remaining tokens are then abandoned. No write may follow close.
func (t *tokenWriter) close() bool {
	t.shutdown()
	close(t.queue)
	select {
	case <-t.done:
		return true
	case <-time.After(t.drainTimeout):
		return false
	}
}
