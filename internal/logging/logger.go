// Package logging provides structured logging for the extraction pipeline.
package logging

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog.Logger behind the key-value call shape used
// throughout the pipeline, so call sites never depend on zerolog directly.
type Logger struct {
	prefix string
	zl     zerolog.Logger
}

// NewLogger creates a new logger tagged with the given component prefix.
func NewLogger(prefix string) *Logger {
	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}).
		With().
		Timestamp().
		Str("component", prefix).
		Logger()
	return &Logger{prefix: prefix, zl: zl}
}

// Info logs an informational message with key-value pairs.
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.event(l.zl.Info(), keysAndValues...).Msg(msg)
}

// Warn logs a warning message with key-value pairs.
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.event(l.zl.Warn(), keysAndValues...).Msg(msg)
}

// Error logs an error message with key-value pairs.
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.event(l.zl.Error(), keysAndValues...).Msg(msg)
}

// Debug logs a debug message with key-value pairs.
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.event(l.zl.Debug(), keysAndValues...).Msg(msg)
}

// With returns a child logger tagged with an additional key-value pair,
// useful for threading a job ID or plugin name through a call chain.
func (l *Logger) With(key string, value interface{}) *Logger {
	return &Logger{prefix: l.prefix, zl: l.zl.With().Interface(key, value).Logger()}
}

func (l *Logger) event(evt *zerolog.Event, keysAndValues ...interface{}) *zerolog.Event {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		evt = evt.Interface(key, keysAndValues[i+1])
	}
	return evt
}
