// Package corelog is the ambient logging layer this module uses in place
// of a structured logging library. The teacher's emulator-shaped packages
// (pkg/debugger, pkg/emulator, cmd/mze, cmd/mzr) never import one — every
// diagnostic goes through fmt.Fprintf(os.Stderr, …) or is returned as an
// error — and no example repo in the pack pulls in zap/zerolog/logrus for
// anything emulator-core-shaped either. corelog keeps that convention
// while giving each subsystem its own prefixed *log.Logger instead of
// every package writing to os.Stderr directly.
package corelog

import (
	"io"
	"log"
	"os"
)

// Level is a coarse severity tag. This module only ever logs WARNING and
// ERROR: spec.md §7 reserves anything a user needs to see for the CLI/HTTP
// response text, never a log line.
type Level int

const (
	Warning Level = iota
	Error
)

func (l Level) String() string {
	if l == Error {
		return "ERROR"
	}
	return "WARNING"
}

// Logger wraps a standard library *log.Logger with a subsystem tag.
type Logger struct {
	std *log.Logger
	tag string
}

// New creates a Logger that writes to w (os.Stderr in production, a
// bytes.Buffer in tests) with the given subsystem tag, e.g. "access",
// "scheduler", "snapshot".
func New(w io.Writer, tag string) *Logger {
	return &Logger{
		std: log.New(w, "", log.LstdFlags),
		tag: tag,
	}
}

// Default builds a Logger writing to os.Stderr, the process-wide default
// every package-level logger in this module is built from.
func Default(tag string) *Logger {
	return New(os.Stderr, tag)
}

// Warnf logs a WARNING-level message.
func (l *Logger) Warnf(format string, args ...any) {
	l.logf(Warning, format, args...)
}

// Errorf logs an ERROR-level message.
func (l *Logger) Errorf(format string, args ...any) {
	l.logf(Error, format, args...)
}

func (l *Logger) logf(level Level, format string, args ...any) {
	l.std.Printf("["+l.tag+"] "+level.String()+": "+format, args...)
}
