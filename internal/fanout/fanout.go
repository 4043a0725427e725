// Package fanout connects every MIDI input port to its own decoder and merges the resulting tokens
// into one output stream.
package fanout

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/leandrodaf/midimon/internal/decoder"
	"github.com/leandrodaf/midimon/internal/sender"
	"github.com/leandrodaf/midimon/sdk/contracts"
	"go.uber.org/multierr"
)

var (
	ErrNoInputPorts   = errors.New("no MIDI input ports found")
	ErrAlreadyStarted = errors.New("monitor already started")
)

// Config configures a Fanout.
type Config struct {
	Driver        contracts.Driver
	Logger        contracts.Logger
	TokenWriter   io.Writer // nil discards tokens
	OutputPort    string    // "" selects the first output port, contracts.NoOutputPort none
	ClockPort     string    // "" disables the clock listener
	OutputChannel uint8
}

// Fanout owns every input connection for the lifetime of the monitor. Connections are only closed
// by Stop; the driver stops delivering callbacks for a connection once it is closed.
type Fanout struct {
	cfg    Config
	driver contracts.Driver
	logger contracts.Logger

	mu        sync.RWMutex // callbacks hold the read side
	started   bool
	stopped   bool
	conns     []contracts.InputConnection
	handlers  []*decoder.Handler
	byName    map[string]*decoder.Handler
	clockConn contracts.InputConnection
	clockRef  *sender.ClockRef
	sender    *sender.Sender

	writer   *tokenWriter
	tap      atomic.Value // chan contracts.Token
	errs     chan error
	errOnce  sync.Once
	stopOnce sync.Once
}

// New creates a Fanout. Nothing is opened until Start.
func New(cfg Config) *Fanout {
	f := &Fanout{
		cfg:    cfg,
		driver: cfg.Driver,
		logger: cfg.Logger.Named("fanout"),
		byName: make(map[string]*decoder.Handler),
		errs:   make(chan error, 1),
	}
	f.writer = newTokenWriter(cfg.TokenWriter, f.fail)
	return f
}

// Start enumerates the ports, opens the optional output and clock roles, and connects every other
// input port. A port that fails to open is logged and skipped. It returns ErrNoInputPorts when the
// driver reports no input port at all.
func (f *Fanout) Start() error {
	f.mu.Lock()
	if f.started || f.stopped {
		f.mu.Unlock()
		return ErrAlreadyStarted
	}
	f.started = true
	f.mu.Unlock()

	inputs, err := f.driver.Inputs()
	if err != nil {
		return fmt.Errorf("list input ports: %w", err)
	}
	if len(inputs) == 0 {
		return ErrNoInputPorts
	}
	f.logger.Info("MIDI input ports found",
		f.logger.Field().Int("count", len(inputs)),
		f.logger.Field().String("driver", f.driver.Name()))

	s := sender.New(f.openOutput(), f.cfg.OutputChannel, f.logger)
	f.mu.Lock()
	f.sender = s
	f.mu.Unlock()

	f.openClock(inputs)

	seen := make(map[string]int, len(inputs))
	for _, port := range inputs {
		if f.cfg.ClockPort != "" && port.Name == f.cfg.ClockPort {
			continue
		}
		name := uniqueName(seen, port.Name)
		h := decoder.NewHandler(name)

		f.logger.Info("Connecting to input port", f.logger.Field().String("port", name))
		conn, err := f.driver.ListenTo(port, f.receive(h))
		if err != nil {
			f.logger.Error("Failed to connect to input port",
				f.logger.Field().String("port", name),
				f.logger.Field().Error("error", err))
			continue
		}

		f.mu.Lock()
		if f.stopped {
			f.mu.Unlock()
			return multierr.Append(ErrAlreadyStarted, conn.Close())
		}
		f.conns = append(f.conns, conn)
		f.handlers = append(f.handlers, h)
		f.byName[name] = h
		f.mu.Unlock()
	}
	return nil
}

// openOutput returns nil when the output role is disabled, unmatched or fails to open.
func (f *Fanout) openOutput() contracts.OutputConnection {
	name := f.cfg.OutputPort
	if name == contracts.NoOutputPort {
		return nil
	}
	outputs, err := f.driver.Outputs()
	if err != nil {
		f.logger.Warn("Failed to list output ports", f.logger.Field().Error("error", err))
		return nil
	}

	var port contracts.DeviceInfo
	switch {
	case name == "" && len(outputs) > 0:
		port = outputs[0]
	case name == "":
		f.logger.Info("No MIDI output ports; clock forwarding disabled")
		return nil
	default:
		found := false
		for _, p := range outputs {
			if p.Name == name {
				port, found = p, true
				break
			}
		}
		if !found {
			f.logger.Warn("Output port not found", f.logger.Field().String("port", name))
			return nil
		}
	}

	conn, err := f.driver.SendTo(port)
	if err != nil {
		f.logger.Error("Failed to connect to output port",
			f.logger.Field().String("port", port.Name),
			f.logger.Field().Error("error", err))
		return nil
	}
	f.logger.Info("Connected to output port", f.logger.Field().String("port", port.Name))
	return conn
}

func (f *Fanout) openClock(inputs []contracts.DeviceInfo) {
	name := f.cfg.ClockPort
	if name == "" {
		return
	}
	for _, port := range inputs {
		if port.Name != name {
			continue
		}
		conn, err := f.driver.ListenTo(port, f.receiveClock())
		if err != nil {
			f.logger.Error("Failed to connect to clock port",
				f.logger.Field().String("port", name),
				f.logger.Field().Error("error", err))
			return
		}
		ref := sender.NewClockRef(name)
		f.mu.Lock()
		if f.stopped {
			f.mu.Unlock()
			ref.Detach()
			if err := conn.Close(); err != nil {
				f.logger.Error("Failed to close clock port", f.logger.Field().Error("error", err))
			}
			return
		}
		f.clockConn, f.clockRef = conn, ref
		f.mu.Unlock()
		f.sender.SetClockInput(ref)
		f.logger.Info("Connected to clock source", f.logger.Field().String("port", name))
		return
	}
	f.logger.Warn("Clock port not found", f.logger.Field().String("port", name))
}

// receive returns the callback for one source. The handler is owned by this callback alone.
func (f *Fanout) receive(h *decoder.Handler) contracts.Receiver {
	return func(raw []byte) {
		f.mu.RLock()
		defer f.mu.RUnlock()
		if f.stopped {
			return
		}
		token, ok := h.Handle(raw)
		if !ok {
			return
		}
		f.writer.write(token)
		f.publish(h.Source(), token)
	}
}

func (f *Fanout) receiveClock() contracts.Receiver {
	return func(raw []byte) {
		f.mu.RLock()
		defer f.mu.RUnlock()
		if f.stopped || len(raw) != 1 {
			return
		}
		if err := f.sender.HandleClock(raw[0]); err != nil {
			f.fail(err)
		}
	}
}

func (f *Fanout) publish(source, token string) {
	ch, _ := f.tap.Load().(chan contracts.Token)
	if ch == nil {
		return
	}
	select {
	case ch <- contracts.Token{Timestamp: uint64(time.Now().UTC().UnixNano()), Source: source, Text: token}:
	default:
		f.logger.Warn("Token channel full; dropping token", f.logger.Field().String("source", source))
	}
}

func (f *Fanout) fail(err error) {
	f.logger.Error("MIDI I/O failed", f.logger.Field().Error("error", err))
	f.errOnce.Do(func() {
		f.errs <- err
	})
}

// StartCapture mirrors every token onto tokenChannel without blocking: tokens are dropped when the
// channel is full. The output stream is unaffected.
func (f *Fanout) StartCapture(tokenChannel chan contracts.Token) {
	if tokenChannel == nil {
		f.logger.Error("StartCapture called with nil tokenChannel")
		return
	}
	f.tap.Store(tokenChannel)
}

// Err delivers the first output or clock forwarding error.
func (f *Fanout) Err() <-chan error {
	return f.errs
}

// Sources returns the monitored source names in connection order.
func (f *Fanout) Sources() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, len(f.handlers))
	for i, h := range f.handlers {
		names[i] = h.Source()
	}
	return names
}

// History returns the tokens emitted so far for source, or nil for an unknown source.
func (f *Fanout) History(source string) []string {
	f.mu.RLock()
	h := f.byName[source]
	f.mu.RUnlock()
	if h == nil {
		return nil
	}
	return h.History()
}

// Sender returns the sender created by Start, or nil before Start.
func (f *Fanout) Sender() *sender.Sender {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.sender
}

// Stop waits for in-flight callbacks, then closes the clock listener, every input connection, the
// sender and the driver, and flushes the remaining tokens. Callbacks blocked on a stalled output
// drop their token, and the flush gives up after writerDrainTimeout. Calling it again is a no-op.
func (f *Fanout) Stop() error {
	var err error
	f.stopOnce.Do(func() {
		// unblock callbacks waiting on a full token queue, otherwise Lock never succeeds
		f.writer.shutdown()
		f.mu.Lock()
		f.stopped = true
		conns, clockConn, clockRef, s := f.conns, f.clockConn, f.clockRef, f.sender
		f.conns, f.clockConn = nil, nil
		f.mu.Unlock()

		clockRef.Detach()
		if clockConn != nil {
			err = multierr.Append(err, clockConn.Close())
		}
		for _, conn := range conns {
			err = multierr.Append(err, conn.Close())
		}
		if s != nil {
			err = multierr.Append(err, s.Close())
		}
		if !f.writer.close() {
			f.logger.Warn("Token output stalled; dropping queued tokens")
		}
		err = multierr.Append(err, f.driver.Close())
		f.logger.Info("MIDI monitor stopped", f.logger.Field().Int("connections", len(conns)))
	})
	return err
}

func uniqueName(seen map[string]int, name string) string {
	seen[name]++
	if n := seen[name]; n > 1 {
		return name + "#" + strconv.Itoa(n)
	}
	return name
}
