package contracts

// MIDICommand is a status byte, or the high nibble of one, as seen on the wire.
type MIDICommand byte

const (
	// NoteOff is the channel voice Note Off status (0x80).
	NoteOff MIDICommand = 0x80
	// NoteOn is the channel voice Note On status (0x90). Velocity 0 means Note Off.
	NoteOn MIDICommand = 0x90
	// ControlChange is the channel voice Control Change status (0xB0).
	ControlChange MIDICommand = 0xB0
	// SysEx opens a System Exclusive message (0xF0).
	SysEx MIDICommand = 0xF0
	// SysExEnd terminates a System Exclusive message (0xF7).
	SysExEnd MIDICommand = 0xF7
	// TimingClock is the 24 PPQN realtime clock pulse (0xF8).
	TimingClock MIDICommand = 0xF8
	// Start begins playback from the top of the sequence (0xFA).
	Start MIDICommand = 0xFA
	// Continue resumes playback (0xFB).
	Continue MIDICommand = 0xFB
	// Stop halts playback (0xFC).
	Stop MIDICommand = 0xFC

	// StatusMask selects the message type nibble of a channel status byte.
	StatusMask byte = 0xF0
)

// Token is one emitted token together with the source it was decoded from.
type Token struct {
	Timestamp uint64 // Timestamp is the wall-clock time of decoding in Unix nanoseconds.
	Source    string // Source is the display name of the input port.
	Text      string // Text is the canonical token, including its trailing space.
}

// Receiver is invoked by a driver for every message delivered on an input connection.
// Calls for a single connection are sequential; calls for different connections may run in parallel.
type Receiver func(raw []byte)

// InputConnection is a live subscription to one input port. Dropping it without Close leaks the port.
type InputConnection interface {
	Port() DeviceInfo // Port describes the connected input port.
	Close() error     // Close stops delivery and releases the port.
}

// OutputConnection is an open output port.
type OutputConnection interface {
	Port() DeviceInfo      // Port describes the connected output port.
	Send(raw []byte) error // Send writes one complete message to the port.
	Close() error          // Close releases the port.
}

// Driver enumerates MIDI ports and opens connections on them.
type Driver interface {
	// Name identifies the backend.
	Name() string
	// Inputs lists the input ports.
	Inputs() ([]DeviceInfo, error)
	// Outputs lists the output ports.
	Outputs() ([]DeviceInfo, error)
	// ListenTo opens an input port and delivers its messages to recv until the connection is closed.
	ListenTo(port DeviceInfo, recv Receiver) (InputConnection, error)
	// SendTo opens an output port.
	SendTo(port DeviceInfo) (OutputConnection, error)
	// Close releases the backend.
	Close() error
}

// Monitor decodes the traffic of every input port into tokens.
type Monitor interface {
	Start() error                         // Start connects to the ports and begins decoding.
	Sources() []string                    // Sources lists the monitored sources in connection order.
	History(source string) []string       // History returns the tokens emitted for a source so far.
	StartCapture(tokenChannel chan Token) // StartCapture mirrors every token onto the given channel.
	Err() <-chan error                    // Err reports the first I/O error seen on a callback path.
	Stop() error                          // Stop tears down every connection and releases the driver.
}
