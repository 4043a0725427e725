// Package gomididrv is the cross-platform backend built on gomidi's rtmidi driver.
package gomididrv

import (
	"errors"
	"fmt"
	"sync"

	"github.com/leandrodaf/midimon/sdk/contracts"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// Name is the backend name used for selection.
const Name = "rtmidi"

var (
	ErrPortNotFound  = errors.New("MIDI port not found")
	ErrListenFailed  = errors.New("error listening to MIDI input")
	ErrOpenOutFailed = errors.New("error opening MIDI output")
)

// Driver wraps an rtmidi driver instance.
type Driver struct {
	drv    *rtmididrv.Driver
	logger contracts.Logger
}

// NewDriver creates the rtmidi driver.
func NewDriver(options *contracts.ClientOptions) (contracts.Driver, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("create rtmidi driver: %w", err)
	}
	options.Logger.Info("MIDI driver successfully created", options.Logger.Field().String("driver", Name))
	return &Driver{drv: drv, logger: options.Logger}, nil
}

// Name returns "rtmidi".
func (d *Driver) Name() string {
	return Name
}

// Inputs lists the rtmidi input ports.
func (d *Driver) Inputs() ([]contracts.DeviceInfo, error) {
	ins, err := d.drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI inputs: %w", err)
	}
	devices := make([]contracts.DeviceInfo, len(ins))
	for i, in := range ins {
		devices[i] = contracts.DeviceInfo{Number: in.Number(), Name: in.String()}
	}
	return devices, nil
}

// Outputs lists the rtmidi output ports.
func (d *Driver) Outputs() ([]contracts.DeviceInfo, error) {
	outs, err := d.drv.Outs()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI outputs: %w", err)
	}
	devices := make([]contracts.DeviceInfo, len(outs))
	for i, out := range outs {
		devices[i] = contracts.DeviceInfo{Number: out.Number(), Name: out.String()}
	}
	return devices, nil
}

// ListenTo opens the input port with the given number and name. SysEx, timing and active sensing
// are all delivered; the decoder decides what to suppress.
func (d *Driver) ListenTo(port contracts.DeviceInfo, recv contracts.Receiver) (contracts.InputConnection, error) {
	ins, err := d.drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI inputs: %w", err)
	}
	in, err := findIn(ins, port)
	if err != nil {
		return nil, err
	}

	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
		recv(msg)
	}, gomidi.UseSysEx(), gomidi.UseTimeCode(), gomidi.UseActiveSense())
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrListenFailed, port.Name, err)
	}
	d.logger.Debug("Listening to MIDI input", d.logger.Field().String("port", port.Name))
	return &inConn{port: port, in: in, stop: stop}, nil
}

// SendTo opens the output port with the given number and name.
func (d *Driver) SendTo(port contracts.DeviceInfo) (contracts.OutputConnection, error) {
	outs, err := d.drv.Outs()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI outputs: %w", err)
	}
	out, err := findOut(outs, port)
	if err != nil {
		return nil, err
	}
	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrOpenOutFailed, port.Name, err)
	}
	return &outConn{port: port, out: out, send: send}, nil
}

// Close releases every port opened through the driver.
func (d *Driver) Close() error {
	return d.drv.Close()
}

// findIn matches by number first, then by name, since indexes shift when devices are plugged in.
func findIn(ins []drivers.In, port contracts.DeviceInfo) (drivers.In, error) {
	for _, in := range ins {
		if in.Number() == port.Number && in.String() == port.Name {
			return in, nil
		}
	}
	for _, in := range ins {
		if in.String() == port.Name {
			return in, nil
		}
	}
	return nil, fmt.Errorf("%w: input %q", ErrPortNotFound, port.Name)
}

func findOut(outs []drivers.Out, port contracts.DeviceInfo) (drivers.Out, error) {
	for _, out := range outs {
		if out.Number() == port.Number && out.String() == port.Name {
			return out, nil
		}
	}
	for _, out := range outs {
		if out.String() == port.Name {
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: output %q", ErrPortNotFound, port.Name)
}

type inConn struct {
	port contracts.DeviceInfo
	in   drivers.In
	stop func()
	once sync.Once
}

func (c *inConn) Port() contracts.DeviceInfo {
	return c.port
}

func (c *inConn) Close() error {
	var err error
	c.once.Do(func() {
		c.stop()
		err = c.in.Close()
	})
	return err
}

type outConn struct {
	port contracts.DeviceInfo
	out  drivers.Out
	send func(msg gomidi.Message) error
	mu   sync.Mutex
	once sync.Once
}

func (c *outConn) Port() contracts.DeviceInfo {
	return c.port
}

func (c *outConn) Send(raw []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.send(gomidi.Message(raw))
}

func (c *outConn) Close() error {
	var err error
	c.once.Do(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		err = c.out.Close()
	})
	return err
}
