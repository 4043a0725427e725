package logger

import (
	"os"

	"github.com/leandrodaf/midimon/sdk/contracts"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger implements contracts.Logger on top of zap.
type ZapLogger struct {
	logger *zap.Logger
	level  zap.AtomicLevel
}

// NewZapLogger creates a production zap logger writing JSON to standard error.
func NewZapLogger() contracts.Logger {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	return &ZapLogger{logger: newCore(level, zapcore.Lock(os.Stderr)), level: level}
}

// NewDevelopmentLogger creates a human-readable console logger writing to standard error.
func NewDevelopmentLogger() contracts.Logger {
	level := zap.NewAtomicLevelAt(zapcore.DebugLevel)
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)
	return &ZapLogger{logger: zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)), level: level}
}

// NewFromZap wraps an existing zap logger. The level filter of the wrapped core still applies.
func NewFromZap(z *zap.Logger) contracts.Logger {
	level := zap.NewAtomicLevelAt(zapcore.DebugLevel)
	return &ZapLogger{logger: z.WithOptions(zap.AddCallerSkip(1), zap.IncreaseLevel(level)), level: level}
}

func newCore(level zap.AtomicLevel, sink zapcore.WriteSyncer) *zap.Logger {
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return zap.New(zapcore.NewCore(encoder, sink, level), zap.AddCaller(), zap.AddCallerSkip(1))
}

// Info logs a message at the INFO level
func (z *ZapLogger) Info(msg string, fields ...contracts.Field) {
	z.logger.Info(msg, toZapFields(fields)...)
}

// Error logs a message at the ERROR level
func (z *ZapLogger) Error(msg string, fields ...contracts.Field) {
	z.logger.Error(msg, toZapFields(fields)...)
}

// Debug logs a message at the DEBUG level
func (z *ZapLogger) Debug(msg string, fields ...contracts.Field) {
	z.logger.Debug(msg, toZapFields(fields)...)
}

// Warn logs a message at the WARN level
func (z *ZapLogger) Warn(msg string, fields ...contracts.Field) {
	z.logger.Warn(msg, toZapFields(fields)...)
}

// Fatal logs a message at the FATAL level and terminates the application
func (z *ZapLogger) Fatal(msg string, fields ...contracts.Field) {
	z.logger.Fatal(msg, toZapFields(fields)...)
}

// Field returns a new instance of Field
func (z *ZapLogger) Field() contracts.Field {
	return &zapField{}
}

// Named returns a child logger sharing this logger's level.
func (z *ZapLogger) Named(name string) contracts.Logger {
	return &ZapLogger{logger: z.logger.Named(name), level: z.level}
}

// SetLevel sets the logging level
func (z *ZapLogger) SetLevel(level contracts.LogLevel) {
	z.level.SetLevel(toZapLevel(level))
}

// SetDestination redirects output to a file when dest is FileLog. Failures to open the file keep
// the current destination and are reported on it.
func (z *ZapLogger) SetDestination(dest contracts.LogDestination, filePath ...string) {
	if dest != contracts.FileLog {
		z.logger = newCore(z.level, zapcore.Lock(os.Stderr))
		return
	}
	if len(filePath) == 0 || filePath[0] == "" {
		z.logger.Warn("file log destination requested without a path")
		return
	}
	f, err := os.OpenFile(filePath[0], os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		z.logger.Error("failed to open log file", zap.String("path", filePath[0]), zap.Error(err))
		return
	}
	z.logger = newCore(z.level, zapcore.AddSync(f))
}

func toZapLevel(level contracts.LogLevel) zapcore.Level {
	switch level {
	case contracts.DebugLevel:
		return zapcore.DebugLevel
	case contracts.WarnLevel:
		return zapcore.WarnLevel
	case contracts.ErrorLevel:
		return zapcore.ErrorLevel
	case contracts.FatalLevel:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func toZapFields(fields []contracts.Field) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		if f, ok := field.(*zapField); ok && f.key != "" {
			out = append(out, f.zap)
		}
	}
	return out
}

// zapField implements contracts.Field
type zapField struct {
	key string
	zap zap.Field
}

func (f *zapField) Int(key string, val int) contracts.Field {
	return &zapField{key, zap.Int(key, val)}
}

func (f *zapField) String(key string, val string) contracts.Field {
	return &zapField{key, zap.String(key, val)}
}

func (f *zapField) Error(key string, val error) contracts.Field {
	return &zapField{key, zap.NamedError(key, val)}
}

func (f *zapField) Uint64(key string, val uint64) contracts.Field {
	return &zapField{key, zap.Uint64(key, val)}
}

func (f *zapField) Uint8(key string, val uint8) contracts.Field {
	return &zapField{key, zap.Uint8(key, val)}
}
