// Package logging provides the ambient logging facility used throughout
// fync, adapted from the teacher's pkg/logging: a Logger wrapping the
// standard log package, carrying a dotted name prefix, colorizing warnings
// and errors with github.com/fatih/color, and reduced to the levels this
// module actually distinguishes (disabled/error/warn/info/debug — the
// teacher's additional "trace" level has no user here).
package logging

import (
	"bytes"
	"fmt"
	"io"
	"log"

	"github.com/fatih/color"
)

// Logger is the main logger type. It still functions if nil (all methods
// are no-ops on a nil receiver), so a component can be handed a nil logger
// when logging isn't wanted without needing to guard every call site.
type Logger struct {
	prefix string
	level  Level
}

// Root is the root logger from which all other loggers derive, logging at
// LevelInfo by default.
var Root = &Logger{level: LevelInfo}

// NewRoot creates a root logger at the given level.
func NewRoot(level Level) *Logger {
	return &Logger{level: level}
}

// Sublogger creates a new sublogger with the specified name appended to the
// dotted prefix.
func (l *Logger) Sublogger(name string) *Logger {
	if l == nil {
		return nil
	}
	prefix := name
	if l.prefix != "" {
		prefix = l.prefix + "." + name
	}
	return &Logger{prefix: prefix, level: l.level}
}

func (l *Logger) enabled(level Level) bool {
	return l != nil && level <= l.level
}

func (l *Logger) output(calldepth int, line string) {
	if l.prefix != "" {
		line = fmt.Sprintf("[%s] %s", l.prefix, line)
	}
	log.Output(calldepth, line)
}

// Info logs at LevelInfo with fmt.Sprint semantics.
func (l *Logger) Info(v ...interface{}) {
	if l.enabled(LevelInfo) {
		l.output(3, fmt.Sprint(v...))
	}
}

// Infof logs at LevelInfo with fmt.Sprintf semantics.
func (l *Logger) Infof(format string, v ...interface{}) {
	if l.enabled(LevelInfo) {
		l.output(3, fmt.Sprintf(format, v...))
	}
}

// Debug logs at LevelDebug with fmt.Sprint semantics.
func (l *Logger) Debug(v ...interface{}) {
	if l.enabled(LevelDebug) {
		l.output(3, fmt.Sprint(v...))
	}
}

// Debugf logs at LevelDebug with fmt.Sprintf semantics.
func (l *Logger) Debugf(format string, v ...interface{}) {
	if l.enabled(LevelDebug) {
		l.output(3, fmt.Sprintf(format, v...))
	}
}

// Warn logs a non-fatal error with a yellow "Warning:" prefix.
func (l *Logger) Warn(err error) {
	if l.enabled(LevelWarn) {
		l.output(3, color.YellowString("Warning: %v", err))
	}
}

// Error logs a fatal error with a red "Error:" prefix.
func (l *Logger) Error(err error) {
	if l.enabled(LevelError) {
		l.output(3, color.RedString("Error: %v", err))
	}
}

// Writer returns an io.Writer that writes each line it receives at
// LevelInfo, useful for redirecting a subprocess's output through the
// logger.
func (l *Logger) Writer() io.Writer {
	if l == nil {
		return io.Discard
	}
	return &lineWriter{log: func(s string) { l.Info(s) }}
}

// lineWriter splits a byte stream into lines and forwards complete lines to
// a callback, adapted from the teacher's pkg/logging writer type.
type lineWriter struct {
	log    func(string)
	buffer []byte
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buffer = append(w.buffer, p...)

	var processed int
	remaining := w.buffer
	for {
		index := bytes.IndexByte(remaining, '\n')
		if index == -1 {
			break
		}
		w.log(trimCarriageReturn(remaining[:index]))
		processed += index + 1
		remaining = remaining[index+1:]
	}

	if processed > 0 {
		leftover := len(w.buffer) - processed
		if leftover > 0 {
			copy(w.buffer[:leftover], w.buffer[processed:])
		}
		w.buffer = w.buffer[:leftover]
	}

	return len(p), nil
}

func trimCarriageReturn(b []byte) string {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		b = b[:len(b)-1]
	}
	return string(b)
}
