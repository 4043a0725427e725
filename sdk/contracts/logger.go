package contracts

// LogLevel represents the severity level for logging.
type LogLevel int

const (
	// InfoLevel indicates informational messages about connections and port selection.
	InfoLevel LogLevel = iota
	// DebugLevel indicates per-message diagnostics, useful when a device misbehaves.
	DebugLevel
	// ErrorLevel indicates a port or I/O failure.
	ErrorLevel
	// WarnLevel indicates a skipped role, such as a clock port that was not found.
	WarnLevel
	// FatalLevel indicates an error that aborts the process.
	FatalLevel
)

// LogDestination specifies where the log messages should be directed.
type LogDestination string

const (
	// ConsoleLog directs log messages to standard error.
	ConsoleLog LogDestination = "console"
	// FileLog directs log messages to a file.
	FileLog LogDestination = "file"
)

// Field builds the typed key/value pairs attached to a log entry: port names, counts, channels,
// timestamps and errors.
type Field interface {
	String(key string, val string) Field
	Int(key string, val int) Field
	Uint8(key string, val uint8) Field
	Uint64(key string, val uint64) Field
	Error(key string, val error) Field
}

// Logger is the structured logger shared by the backends, the fan-out and the CLI.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	// Field returns a builder for structured fields.
	Field() Field
	// Named returns a child logger whose entries carry the given name.
	Named(name string) Logger

	// SetLevel changes the minimum level for this logger and every logger derived from it.
	SetLevel(level LogLevel)
	// SetDestination redirects output; FileLog takes the file path as its first argument.
	SetDestination(dest LogDestination, filePath ...string)
}
