package logger

import "github.com/user/framecut/pkg/ports"

// NoopLogger discards all messages. Used for quiet mode and tests.
type NoopLogger struct{}

// NewNoop creates a new no-op logger.
func NewNoop() *NoopLogger {
	return &NoopLogger{}
}

func (l *NoopLogger) Debug(msg string, args ...interface{}) {}
func (l *NoopLogger) Info(msg string, args ...interface{})  {}
func (l *NoopLogger) Warn(msg string, args ...interface{})  {}
func (l *NoopLogger) Error(msg string, args ...interface{}) {}

// WithComponent returns the same no-op logger.
func (l *NoopLogger) WithComponent(component string) ports.Logger {
	return l
}

// New returns a NoopLogger when quiet is set or the level is LevelQuiet,
// and a ConsoleLogger otherwise.
func New(level ports.LogLevel, quiet bool) ports.Logger {
	if quiet || level >= ports.LevelQuiet {
		return NewNoop()
	}
	return NewConsole(level)
}
