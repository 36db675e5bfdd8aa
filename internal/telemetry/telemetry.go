// Package telemetry is a leveled tracer: a numeric level gate plus an
// output sink, carried as a value type rather than global state so
// independent Decoder/Encoder instances never share a trace level.
package telemetry

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Logger gates messages by level against a configured threshold before
// writing them to an underlying *log.Logger.
type Logger struct {
	threshold int
	out       *log.Logger
}

// New returns a Logger writing to w, with messages above threshold
// dropped. threshold <= 0 disables all output.
func New(w io.Writer, threshold int) *Logger {
	return &Logger{
		threshold: threshold,
		out:       log.New(w, "", log.LstdFlags|log.Lmicroseconds),
	}
}

// Discard returns a Logger that drops every message, the default a
// Decoder/Encoder uses when no Logger is configured.
func Discard() *Logger {
	return New(io.Discard, 0)
}

// Stderr returns a Logger writing to os.Stderr at the given threshold.
func Stderr(threshold int) *Logger {
	return New(os.Stderr, threshold)
}

// Tracef logs a formatted message at level if level is within threshold.
func (l *Logger) Tracef(level int, format string, args ...any) {
	if l == nil || l.out == nil || l.threshold <= 0 || level > l.threshold {
		return
	}
	l.out.Output(2, fmt.Sprintf("[%d] %s", level, fmt.Sprintf(format, args...)))
}

// SetLevel adjusts the threshold at which Tracef calls are accepted.
func (l *Logger) SetLevel(threshold int) {
	if l == nil {
		return
	}
	l.threshold = threshold
}
