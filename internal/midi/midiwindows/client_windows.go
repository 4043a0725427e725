//go:build windows
// +build windows

package midiwindows

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/leandrodaf/midimon/internal/decoder"
	"github.com/leandrodaf/midimon/sdk/contracts"
	"golang.org/x/sys/windows"
)

// Type definitions for MIDI handles
type (
	HMIDIIN  windows.Handle
	HMIDIOUT windows.Handle
)

// Constants for callback flags
const (
	CALLBACK_NULL     = 0x00000000 // No callback
	CALLBACK_FUNCTION = 0x00030000 // Indicates that the callback is a function
	MIDI_IO_STATUS    = 0x00000020 // MIDI input/output status
)

// Constants for MIDI message types
const (
	MIM_OPEN      = 0x3C1 // MIDI device opened
	MIM_CLOSE     = 0x3C2 // MIDI device closed
	MIM_DATA      = 0x3C3 // MIDI data received
	MIM_LONGDATA  = 0x3C4 // System exclusive buffer received
	MIM_ERROR     = 0x3C5 // MIDI error
	MIM_LONGERROR = 0x3C6 // Long MIDI error
	MIM_MOREDATA  = 0x3CC // More MIDI data available
)

var ErrDeviceCall = errors.New("winmm call failed")

// Struct representing MIDI input device capabilities
type midiInCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	dwSupport      uint32
}

// Struct representing MIDI output device capabilities
type midiOutCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	wTechnology    uint16
	wVoices        uint16
	wNotes         uint16
	wChannelMask   uint16
	dwSupport      uint32
}

// Load the winmm.dll library and required functions
var (
	winmm                 = windows.NewLazySystemDLL("winmm.dll")
	procMidiInGetNumDevs  = winmm.NewProc("midiInGetNumDevs")
	procMidiInGetDevCaps  = winmm.NewProc("midiInGetDevCapsW")
	procMidiInOpen        = winmm.NewProc("midiInOpen")
	procMidiInStart       = winmm.NewProc("midiInStart")
	procMidiInStop        = winmm.NewProc("midiInStop")
	procMidiInClose       = winmm.NewProc("midiInClose")
	procMidiOutGetNumDevs = winmm.NewProc("midiOutGetNumDevs")
	procMidiOutGetDevCaps = winmm.NewProc("midiOutGetDevCapsW")
	procMidiOutOpen       = winmm.NewProc("midiOutOpen")
	procMidiOutShortMsg   = winmm.NewProc("midiOutShortMsg")
	procMidiOutClose      = winmm.NewProc("midiOutClose")
)

// winmm limits the number of callbacks a process may create, so one trampoline serves every
// connection and the instance parameter identifies the connection.
var (
	callbackOnce sync.Once
	callback     uintptr

	instancesMu sync.RWMutex
	instances   = map[uintptr]*inConn{}
	nextID      uintptr
)

// Driver is the winmm backend.
type Driver struct {
	logger contracts.Logger
}

// NewDriver creates the winmm driver.
func NewDriver(options *contracts.ClientOptions) (contracts.Driver, error) {
	options.Logger.Info("MIDI client created for Windows", options.Logger.Field().String("driver", Name))
	return &Driver{logger: options.Logger}, nil
}

// Name returns "winmm".
func (d *Driver) Name() string {
	return Name
}

// Inputs lists the winmm input devices.
func (d *Driver) Inputs() ([]contracts.DeviceInfo, error) {
	r0, _, _ := procMidiInGetNumDevs.Call()
	numDevices := uint32(r0)

	devices := make([]contracts.DeviceInfo, 0, numDevices)
	for i := uint32(0); i < numDevices; i++ {
		var caps midiInCaps
		r1, _, _ := procMidiInGetDevCaps.Call(uintptr(i), uintptr(unsafe.Pointer(&caps)), unsafe.Sizeof(caps))
		if r1 != 0 {
			d.logger.Warn(fmt.Sprintf("Failed to get information for MIDI device %d", i))
			continue
		}
		devices = append(devices, contracts.DeviceInfo{
			Number:       int(i),
			Name:         windows.UTF16ToString(caps.szPname[:]),
			Manufacturer: fmt.Sprintf("MID: %d PID: %d", caps.wMid, caps.wPid),
		})
	}
	return devices, nil
}

// Outputs lists the winmm output devices.
func (d *Driver) Outputs() ([]contracts.DeviceInfo, error) {
	r0, _, _ := procMidiOutGetNumDevs.Call()
	numDevices := uint32(r0)

	devices := make([]contracts.DeviceInfo, 0, numDevices)
	for i := uint32(0); i < numDevices; i++ {
		var caps midiOutCaps
		r1, _, _ := procMidiOutGetDevCaps.Call(uintptr(i), uintptr(unsafe.Pointer(&caps)), unsafe.Sizeof(caps))
		if r1 != 0 {
			d.logger.Warn(fmt.Sprintf("Failed to get information for MIDI output %d", i))
			continue
		}
		devices = append(devices, contracts.DeviceInfo{
			Number:       int(i),
			Name:         windows.UTF16ToString(caps.szPname[:]),
			Manufacturer: fmt.Sprintf("MID: %d PID: %d", caps.wMid, caps.wPid),
		})
	}
	return devices, nil
}

// ListenTo opens and starts the input device.
func (d *Driver) ListenTo(port contracts.DeviceInfo, recv contracts.Receiver) (contracts.InputConnection, error) {
	callbackOnce.Do(func() {
		callback = windows.NewCallback(midiInCallback)
	})

	conn := &inConn{port: port, recv: recv, logger: d.logger}
	instancesMu.Lock()
	nextID++
	conn.id = nextID
	instances[conn.id] = conn
	instancesMu.Unlock()

	r1, _, err := procMidiInOpen.Call(
		uintptr(unsafe.Pointer(&conn.handle)),
		uintptr(port.Number),
		callback,
		conn.id,
		uintptr(CALLBACK_FUNCTION|MIDI_IO_STATUS),
	)
	if r1 != 0 {
		conn.forget()
		return nil, fmt.Errorf("%w: midiInOpen %d: %v", ErrDeviceCall, port.Number, err)
	}

	r1, _, err = procMidiInStart.Call(uintptr(conn.handle))
	if r1 != 0 {
		procMidiInClose.Call(uintptr(conn.handle))
		conn.forget()
		return nil, fmt.Errorf("%w: midiInStart %d: %v", ErrDeviceCall, port.Number, err)
	}

	d.logger.Info(fmt.Sprintf("MIDI device %d connected", port.Number))
	return conn, nil
}

// SendTo opens the output device.
func (d *Driver) SendTo(port contracts.DeviceInfo) (contracts.OutputConnection, error) {
	conn := &outConn{port: port}
	r1, _, err := procMidiOutOpen.Call(
		uintptr(unsafe.Pointer(&conn.handle)),
		uintptr(port.Number),
		0,
		0,
		uintptr(CALLBACK_NULL),
	)
	if r1 != 0 {
		return nil, fmt.Errorf("%w: midiOutOpen %d: %v", ErrDeviceCall, port.Number, err)
	}
	return conn, nil
}

// Close is a no-op: every connection is closed individually.
func (d *Driver) Close() error {
	return nil
}

type inConn struct {
	id     uintptr
	port   contracts.DeviceInfo
	handle HMIDIIN
	recv   contracts.Receiver
	logger contracts.Logger
	once   sync.Once
}

func (c *inConn) Port() contracts.DeviceInfo {
	return c.port
}

func (c *inConn) forget() {
	instancesMu.Lock()
	delete(instances, c.id)
	instancesMu.Unlock()
}

// Close stops and closes the device. winmm delivers no callbacks once midiInClose returns.
func (c *inConn) Close() error {
	var err error
	c.once.Do(func() {
		defer c.forget()
		if r1, _, e := procMidiInStop.Call(uintptr(c.handle)); r1 != 0 {
			err = fmt.Errorf("%w: midiInStop: %v", ErrDeviceCall, e)
			return
		}
		if r1, _, e := procMidiInClose.Call(uintptr(c.handle)); r1 != 0 {
			err = fmt.Errorf("%w: midiInClose: %v", ErrDeviceCall, e)
		}
	})
	return err
}

// midiInCallback processes incoming MIDI messages
func midiInCallback(hMidiIn uintptr, wMsg uint32, dwInstance uintptr, dwParam1 uintptr, dwParam2 uintptr) uintptr {
	instancesMu.RLock()
	c := instances[dwInstance]
	instancesMu.RUnlock()
	if c == nil {
		return 0
	}

	switch wMsg {
	case MIM_OPEN:
		c.logger.Debug("MIDI device opened", c.logger.Field().String("port", c.port.Name))
	case MIM_CLOSE:
		c.logger.Debug("MIDI device closed", c.logger.Field().String("port", c.port.Name))
	case MIM_DATA, MIM_MOREDATA:
		status := byte(dwParam1 & 0xFF)
		packed := []byte{status, byte((dwParam1 >> 8) & 0xFF), byte((dwParam1 >> 16) & 0xFF)}
		n := decoder.MessageLength(status)
		if n < 1 || n > len(packed) {
			n = 1
		}
		c.recv(packed[:n])
	case MIM_LONGDATA:
		c.logger.Debug("SysEx buffer received; ignored", c.logger.Field().String("port", c.port.Name))
	case MIM_ERROR, MIM_LONGERROR:
		c.logger.Error(fmt.Sprintf("MIDI error: msg=0x%X", wMsg), c.logger.Field().String("port", c.port.Name))
	default:
		c.logger.Warn(fmt.Sprintf("Unknown MIDI message: 0x%X", wMsg))
	}
	return 0
}

type outConn struct {
	port   contracts.DeviceInfo
	handle HMIDIOUT
	mu     sync.Mutex
	closed bool
}

func (c *outConn) Port() contracts.DeviceInfo {
	return c.port
}

// Send writes a short message; winmm takes it packed little-endian into one DWORD.
func (c *outConn) Send(raw []byte) error {
	if len(raw) == 0 || len(raw) > 3 {
		return fmt.Errorf("%w: short message of %d bytes", ErrDeviceCall, len(raw))
	}
	var packed uintptr
	for i, b := range raw {
		packed |= uintptr(b) << (8 * i)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("%w: output closed", ErrDeviceCall)
	}
	if r1, _, err := procMidiOutShortMsg.Call(uintptr(c.handle), packed); r1 != 0 {
		return fmt.Errorf("%w: midiOutShortMsg: %v", ErrDeviceCall, err)
	}
	return nil
}

func (c *outConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if r1, _, err := procMidiOutClose.Call(uintptr(c.handle)); r1 != 0 {
		return fmt.Errorf("%w: midiOutClose: %v", ErrDeviceCall, err)
	}
	return nil
}
