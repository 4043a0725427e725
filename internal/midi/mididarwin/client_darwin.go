//go:build darwin
// +build darwin

package mididarwin

import (
	"errors"
	"fmt"
	"sync"

	"github.com/leandrodaf/midimon/internal/decoder"
	"github.com/leandrodaf/midimon/sdk/contracts"
	"github.com/youpy/go-coremidi"
)

// Error definitions for MIDI connection and handling issues.
var (
	ErrInvalidMIDIDevice   = errors.New("invalid MIDI device")
	ErrMIDIConnectionError = errors.New("error connecting to MIDI device")
	ErrCreateInputPort     = errors.New("error creating input port")
	ErrCreateOutputPort    = errors.New("error creating output port")
)

// internalPortConnection is an interface for handling disconnection from a MIDI port.
type internalPortConnection interface {
	Disconnect()
}

// Driver talks to CoreMIDI directly. Every input connection gets its own input port so each
// source has a dedicated read callback.
type Driver struct {
	logger contracts.Logger
	client coremidi.Client
	mu     sync.Mutex
	conns  []*inConn
}

// NewDriver creates a CoreMIDI client named after the configured client name.
func NewDriver(options *contracts.ClientOptions) (contracts.Driver, error) {
	client, err := coremidi.NewClient(options.CoreMIDIConfig.ClientName)
	if err != nil {
		return nil, err
	}
	options.Logger.Info("MIDI client successfully created", options.Logger.Field().String("driver", Name))
	return &Driver{logger: options.Logger, client: client}, nil
}

// Name returns "coremidi".
func (d *Driver) Name() string {
	return Name
}

// Inputs lists the CoreMIDI sources.
func (d *Driver) Inputs() ([]contracts.DeviceInfo, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI sources: %w", err)
	}
	devices := make([]contracts.DeviceInfo, len(sources))
	for i, source := range sources {
		entity := source.Entity()
		devices[i] = contracts.DeviceInfo{
			Number:       i,
			Name:         source.Name(),
			EntityName:   entity.Name(),
			Manufacturer: entity.Manufacturer(),
		}
	}
	return devices, nil
}

// Outputs lists the CoreMIDI destinations.
func (d *Driver) Outputs() ([]contracts.DeviceInfo, error) {
	destinations, err := coremidi.AllDestinations()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI destinations: %w", err)
	}
	devices := make([]contracts.DeviceInfo, len(destinations))
	for i, dest := range destinations {
		devices[i] = contracts.DeviceInfo{Number: i, Name: dest.Name()}
	}
	return devices, nil
}

// ListenTo connects a new input port to the source. CoreMIDI packets may carry several messages,
// so each packet is split before it reaches recv.
func (d *Driver) ListenTo(port contracts.DeviceInfo, recv contracts.Receiver) (contracts.InputConnection, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("error retrieving MIDI sources: %w", err)
	}
	if port.Number < 0 || port.Number >= len(sources) || sources[port.Number].Name() != port.Name {
		d.logger.Error(ErrInvalidMIDIDevice.Error(), d.logger.Field().String("port", port.Name))
		return nil, ErrInvalidMIDIDevice
	}

	conn := &inConn{port: port, recv: recv}
	inputPort, err := coremidi.NewInputPort(d.client, "midimon "+port.Name, conn.handleMIDIMessage)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateInputPort, err)
	}
	conn.portConn, err = inputPort.Connect(sources[port.Number])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMIDIConnectionError, err)
	}

	d.mu.Lock()
	d.conns = append(d.conns, conn)
	d.mu.Unlock()
	d.logger.Info("MIDI device successfully connected", d.logger.Field().String("port", port.Name))
	return conn, nil
}

// SendTo opens an output port towards the destination.
func (d *Driver) SendTo(port contracts.DeviceInfo) (contracts.OutputConnection, error) {
	destinations, err := coremidi.AllDestinations()
	if err != nil {
		return nil, fmt.Errorf("error retrieving MIDI destinations: %w", err)
	}
	if port.Number < 0 || port.Number >= len(destinations) || destinations[port.Number].Name() != port.Name {
		return nil, ErrInvalidMIDIDevice
	}
	outputPort, err := coremidi.NewOutputPort(d.client, "midimon out")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateOutputPort, err)
	}
	return &outConn{port: port, out: outputPort, dest: destinations[port.Number]}, nil
}

// Close disconnects any input connection still open.
func (d *Driver) Close() error {
	d.mu.Lock()
	conns := d.conns
	d.conns = nil
	d.mu.Unlock()
	for _, c := range conns {
		c.Close()
	}
	return nil
}

type inConn struct {
	port     contracts.DeviceInfo
	recv     contracts.Receiver
	portConn internalPortConnection
	mu       sync.Mutex
	closed   bool
	wg       sync.WaitGroup
}

func (c *inConn) Port() contracts.DeviceInfo {
	return c.port
}

// handleMIDIMessage runs on the CoreMIDI thread.
func (c *inConn) handleMIDIMessage(source coremidi.Source, packet coremidi.Packet) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.wg.Add(1)
	c.mu.Unlock()
	defer c.wg.Done()

	for _, msg := range decoder.Split(packet.Data) {
		c.recv(msg)
	}
}

// Close disconnects the source and waits for a callback in progress.
func (c *inConn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	if c.portConn != nil {
		c.portConn.Disconnect()
	}
	c.wg.Wait()
	return nil
}

type outConn struct {
	port contracts.DeviceInfo
	out  coremidi.OutputPort
	dest coremidi.Destination
	mu   sync.Mutex
}

func (c *outConn) Port() contracts.DeviceInfo {
	return c.port
}

func (c *outConn) Send(raw []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	packet := coremidi.NewPacket(raw, 0)
	return packet.Send(&c.out, &c.dest)
}

func (c *outConn) Close() error {
	return nil
}
