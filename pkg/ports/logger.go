// Package ports defines the interfaces framecut components depend on.
package ports

import (
	"fmt"
	"strings"
)

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	// LevelDebug is for per-frame and per-request details.
	LevelDebug LogLevel = iota
	// LevelInfo is for per-call progress and outcomes.
	LevelInfo
	// LevelWarn is for conditions the tool works around, such as a clamped range.
	LevelWarn
	// LevelError is for failed calls.
	LevelError
	// LevelQuiet suppresses all log output.
	LevelQuiet
)

var levelNames = map[LogLevel]string{
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
	LevelQuiet: "quiet",
}

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	if s, ok := levelNames[l]; ok {
		return s
	}
	return "unknown"
}

// ParseLogLevel parses a string into a LogLevel.
// Unrecognized values fall back to LevelInfo.
func ParseLogLevel(s string) LogLevel {
	var l LogLevel
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return LevelInfo
	}
	return l
}

// UnmarshalText lets config decoders read levels by name.
func (l *LogLevel) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	if name == "warning" {
		name = "warn"
	}
	for level, s := range levelNames {
		if s == name {
			*l = level
			return nil
		}
	}
	return fmt.Errorf("ports: unknown log level %q", text)
}

// MarshalText implements encoding.TextMarshaler.
func (l LogLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Logger abstracts logging operations with multi-language support.
type Logger interface {
	// Debug logs a debug message. msg is a translatable format key.
	Debug(msg string, args ...interface{})

	// Info logs an informational message.
	Info(msg string, args ...interface{})

	// Warn logs a recoverable problem.
	Warn(msg string, args ...interface{})

	// Error logs a failure.
	Error(msg string, args ...interface{})

	// WithComponent returns a Logger that prefixes messages with the component name.
	WithComponent(component string) Logger
}
