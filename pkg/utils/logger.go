package utils

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	// LevelDebug is the debug log level.
	LevelDebug LogLevel = iota
	// LevelInfo is the info log level.
	LevelInfo
	// LevelWarn is the warning log level.
	LevelWarn
	// LevelError is the error log level.
	LevelError
)

// String returns the string representation of LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ParseLogLevel parses a string to LogLevel. Unknown values map to LevelInfo.
func ParseLogLevel(level string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger is the interface for logging. Messages are printf-style.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
}

// Log output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ZeroLogger implements Logger on top of zerolog.
type ZeroLogger struct {
	z zerolog.Logger
}

// NewLogger creates a zerolog-backed Logger writing to output.
// Format "json" emits one JSON object per line; anything else uses the
// human-readable console writer.
func NewLogger(level LogLevel, format string, output io.Writer) *ZeroLogger {
	if output == nil {
		output = os.Stderr
	}
	if format != FormatJSON {
		output = zerolog.ConsoleWriter{
			Out:        output,
			NoColor:    true,
			TimeFormat: "2006-01-02 15:04:05.000",
		}
	}
	z := zerolog.New(output).Level(level.zerolog()).With().Timestamp().Logger()
	return &ZeroLogger{z: z}
}

// Debug logs a debug message.
func (l *ZeroLogger) Debug(msg string, args ...interface{}) {
	l.z.Debug().Msgf(msg, args...)
}

// Info logs an info message.
func (l *ZeroLogger) Info(msg string, args ...interface{}) {
	l.z.Info().Msgf(msg, args...)
}

// Warn logs a warning message.
func (l *ZeroLogger) Warn(msg string, args ...interface{}) {
	l.z.Warn().Msgf(msg, args...)
}

// Error logs an error message.
func (l *ZeroLogger) Error(msg string, args ...interface{}) {
	l.z.Error().Msgf(msg, args...)
}

// WithField creates a new logger with the given field.
func (l *ZeroLogger) WithField(key string, value interface{}) Logger {
	return &ZeroLogger{z: l.z.With().Interface(key, value).Logger()}
}

// WithFields creates a new logger with the given fields.
func (l *ZeroLogger) WithFields(fields map[string]interface{}) Logger {
	return &ZeroLogger{z: l.z.With().Fields(fields).Logger()}
}

// NullLogger is a logger that discards all log messages.
type NullLogger struct{}

// Debug does nothing.
func (l *NullLogger) Debug(msg string, args ...interface{}) {}

// Info does nothing.
func (l *NullLogger) Info(msg string, args ...interface{}) {}

// Warn does nothing.
func (l *NullLogger) Warn(msg string, args ...interface{}) {}

// Error does nothing.
func (l *NullLogger) Error(msg string, args ...interface{}) {}

// WithField returns the same NullLogger.
func (l *NullLogger) WithField(key string, value interface{}) Logger {
	return l
}

// WithFields returns the same NullLogger.
func (l *NullLogger) WithFields(fields map[string]interface{}) Logger {
	return l
}

var (
	globalMu     sync.RWMutex
	globalLogger Logger = NewLogger(LevelInfo, FormatText, os.Stderr)
)

// SetGlobalLogger sets the global logger.
func SetGlobalLogger(logger Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = logger
}

// GetGlobalLogger returns the global logger.
func GetGlobalLogger() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}
