// Package sender owns the optional output connection and forwards clock traffic received on the
// designated clock input to it.
package sender

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/leandrodaf/midimon/sdk/contracts"
)

// ErrClosed is returned by HandleClock after Close.
var ErrClosed = errors.New("sender closed")

// DefaultChannel is the output channel used when none is configured.
const DefaultChannel uint8 = 1

// ClockRef is a non-owning handle to the clock listener connection. The owner of the connection
// detaches it before tearing the connection down; afterwards Port reports the clock as absent.
type ClockRef struct {
	port  string
	alive atomic.Bool
}

// NewClockRef returns an attached reference to the named clock port.
func NewClockRef(port string) *ClockRef {
	r := &ClockRef{port: port}
	r.alive.Store(true)
	return r
}

// Port returns the clock port name, or false once the reference has been detached.
func (r *ClockRef) Port() (string, bool) {
	if r == nil || !r.alive.Load() {
		return "", false
	}
	return r.port, true
}

// Detach marks the referenced connection as gone. It is safe to call more than once.
func (r *ClockRef) Detach() {
	if r != nil {
		r.alive.Store(false)
	}
}

// Sender forwards clock bytes to an output port. The output connection is optional: without one
// HandleClock only counts ticks.
type Sender struct {
	mu      sync.Mutex
	conn    contracts.OutputConnection
	channel uint8
	clock   *ClockRef
	ticks   uint64
	closed  bool
	logger  contracts.Logger
}

// New creates a sender. conn may be nil. A channel outside 1-16 falls back to DefaultChannel.
func New(conn contracts.OutputConnection, channel uint8, logger contracts.Logger) *Sender {
	if channel < 1 || channel > 16 {
		channel = DefaultChannel
	}
	return &Sender{conn: conn, channel: channel, logger: logger}
}

// SetClockInput records the clock listener. The sender never closes it.
func (s *Sender) SetClockInput(ref *ClockRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = ref
}

// ClockInput returns the clock port name while its connection is alive.
func (s *Sender) ClockInput() (string, bool) {
	s.mu.Lock()
	ref := s.clock
	s.mu.Unlock()
	return ref.Port()
}

// Channel returns the fixed output channel, 1-16.
func (s *Sender) Channel() uint8 {
	return s.channel
}

// Output describes the output port, or false when the sender has none.
func (s *Sender) Output() (contracts.DeviceInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return contracts.DeviceInfo{}, false
	}
	return s.conn.Port(), true
}

// Ticks returns the number of timing clock pulses seen.
func (s *Sender) Ticks() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

// HandleClock is the clock hook: timing clock, start, continue and stop bytes are passed through to
// the output port. Other bytes are ignored. The send happens outside the lock.
func (s *Sender) HandleClock(status byte) error {
	switch contracts.MIDICommand(status) {
	case contracts.TimingClock, contracts.Start, contracts.Continue, contracts.Stop:
	default:
		return nil
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if contracts.MIDICommand(status) == contracts.TimingClock {
		s.ticks++
	}
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		return nil
	}
	if err := conn.Send([]byte{status}); err != nil {
		return fmt.Errorf("forward clock %#02x to %q: %w", status, conn.Port().Name, err)
	}
	return nil
}

// Close releases the output connection. The clock listener is left to its owner.
func (s *Sender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.conn == nil {
		return nil
	}
	if s.logger != nil {
		s.logger.Info("Closing output port", s.logger.Field().String("port", s.conn.Port().Name))
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}
