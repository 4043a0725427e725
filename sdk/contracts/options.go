package contracts

import "io"

// CoreMIDIConfig holds configuration for CoreMIDI.
type CoreMIDIConfig struct {
	ClientName string // Name of the MIDI client.
}

// ClientOptions defines the configuration options for the monitor.
type ClientOptions struct {
	Logger         Logger          // Logger for connection lifecycle and errors.
	LogLevel       LogLevel        // Level of logging to use.
	LogFilePath    string          // File path for logging if file logging is enabled.
	Driver         string          // Backend name: "rtmidi", "coremidi" or "winmm".
	OutputPort     string          // Output port name; empty picks the first port, "none" disables.
	ClockPort      string          // Input port that drives the sender's clock hook; empty disables.
	OutputChannel  uint8           // Fixed output channel number (1-16).
	TokenWriter    io.Writer       // Destination of the token stream.
	CoreMIDIConfig *CoreMIDIConfig // Configuration specific to CoreMIDI.
}

// NoOutputPort disables the sender's output connection.
const NoOutputPort = "none"

// Option is a function that modifies ClientOptions.
type Option func(*ClientOptions)

// WithLogger sets the logger for the monitor.
func WithLogger(l Logger) Option {
	return func(opts *ClientOptions) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level for the monitor.
func WithLogLevel(level LogLevel) Option {
	return func(opts *ClientOptions) {
		opts.LogLevel = level
	}
}

// WithLogFile sends log output to the given file instead of the console.
func WithLogFile(path string) Option {
	return func(opts *ClientOptions) {
		opts.LogFilePath = path
	}
}

// WithDriver selects the MIDI backend by name.
func WithDriver(name string) Option {
	return func(opts *ClientOptions) {
		opts.Driver = name
	}
}

// WithOutputPort selects the output port by exact name.
func WithOutputPort(name string) Option {
	return func(opts *ClientOptions) {
		opts.OutputPort = name
	}
}

// WithClockPort designates the input port used as clock source.
func WithClockPort(name string) Option {
	return func(opts *ClientOptions) {
		opts.ClockPort = name
	}
}

// WithOutputChannel sets the sender's output channel.
func WithOutputChannel(channel uint8) Option {
	return func(opts *ClientOptions) {
		opts.OutputChannel = channel
	}
}

// WithTokenWriter sets where tokens are written. Use io.Discard to silence the stream.
func WithTokenWriter(w io.Writer) Option {
	return func(opts *ClientOptions) {
		opts.TokenWriter = w
	}
}

// WithCoreMIDIConfig sets the CoreMIDI configuration.
func WithCoreMIDIConfig(config CoreMIDIConfig) Option {
	return func(opts *ClientOptions) {
		opts.CoreMIDIConfig = &config
	}
}
