// Package logger is the diagnostic channel of the checks. Stdout belongs to the
// status-bar protocol, so every line goes to a separate sink, stderr unless
// the command redirects it.
//
// Debug lines are printed only when I3SI_DEBUG is set or --debug is passed.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// DebugEnv enables debug output when set to any non-empty value.
const DebugEnv = "I3SI_DEBUG"

// Level is the severity of a log line.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Logger defines the interface for logging operations.
// All methods accept a format string and arguments, similar to fmt.Printf.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

var (
	forceDebug atomic.Bool

	sinkMu sync.Mutex
	sink   io.Writer = os.Stderr
	now              = time.Now
)

// SetDebug forces debug output on or off regardless of the environment.
func SetDebug(enabled bool) {
	forceDebug.Store(enabled)
}

// DebugEnabled reports whether debug lines are printed.
func DebugEnabled() bool {
	return forceDebug.Load() || os.Getenv(DebugEnv) != ""
}

// SetOutput redirects every env logger to w. A nil writer restores stderr.
func SetOutput(w io.Writer) {
	sinkMu.Lock()
	defer sinkMu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	sink = w
}

// envLogger writes prefixed lines to the shared sink.
type envLogger struct {
	prefix string
}

// NewEnvLogger returns a logger tagged with prefix, e.g. "[cpu]".
func NewEnvLogger(prefix string) Logger {
	return &envLogger{prefix: prefix}
}

func (l *envLogger) Debug(format string, args ...interface{}) {
	if DebugEnabled() {
		l.write(LevelDebug, format, args)
	}
}

func (l *envLogger) Info(format string, args ...interface{}) {
	l.write(LevelInfo, format, args)
}

func (l *envLogger) Warn(format string, args ...interface{}) {
	l.write(LevelWarn, format, args)
}

func (l *envLogger) Error(format string, args ...interface{}) {
	l.write(LevelError, format, args)
}

// write emits "15:04:05.000 [prefix] level: message". Multi-line messages are
// folded so one call stays one line in the bar's log.
func (l *envLogger) write(level Level, format string, args []interface{}) {
	msg := strings.ReplaceAll(fmt.Sprintf(format, args...), "\n", " | ")
	line := fmt.Sprintf("%s %s %s: %s\n", now().Format("15:04:05.000"), l.prefix, level, msg)

	sinkMu.Lock()
	defer sinkMu.Unlock()
	_, _ = io.WriteString(sink, line)
}

type noopLogger struct{}

// Noop returns a logger that discards all messages.
func Noop() Logger {
	return noopLogger{}
}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

// Entry is one captured log line.
type Entry struct {
	Level   Level
	Message string
}

// BufferLogger records every line, debug included, for tests.
type BufferLogger struct {
	mu      sync.Mutex
	entries []Entry
}

// NewBufferLogger creates an empty BufferLogger.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{}
}

func (l *BufferLogger) Debug(format string, args ...interface{}) {
	l.record(LevelDebug, format, args)
}

func (l *BufferLogger) Info(format string, args ...interface{}) {
	l.record(LevelInfo, format, args)
}

func (l *BufferLogger) Warn(format string, args ...interface{}) {
	l.record(LevelWarn, format, args)
}

func (l *BufferLogger) Error(format string, args ...interface{}) {
	l.record(LevelError, format, args)
}

func (l *BufferLogger) record(level Level, format string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{Level: level, Message: fmt.Sprintf(format, args...)})
}

// Entries returns a copy of the captured lines in order.
func (l *BufferLogger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), l.entries...)
}

// HasLevel reports whether any line was logged at level.
func (l *BufferLogger) HasLevel(level Level) bool {
	for _, e := range l.Entries() {
		if e.Level == level {
			return true
		}
	}
	return false
}

// Contains reports whether a line at level contains substr.
func (l *BufferLogger) Contains(level Level, substr string) bool {
	for _, e := range l.Entries() {
		if e.Level == level && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
