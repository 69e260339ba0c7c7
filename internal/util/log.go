package util

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
)

type LogLevel int32

const (
	LevelTrace LogLevel = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[string]LogLevel{
	"trace": LevelTrace,
	"debug": LevelDebug,
	"info":  LevelInfo,
	"warn":  LevelWarn,
	"error": LevelError,
}

// Logger wraps a zerolog console logger with level filtering.
type Logger struct {
	level atomic.Int32
	base  zerolog.Logger
}

// NewLogger creates a level-aware logger writing to stderr. Stdout belongs to
// the status and menu protocols.
func NewLogger(level LogLevel) *Logger {
	return NewLoggerWithWriter(level, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
}

// NewLoggerWithWriter creates a level-aware logger writing to the provided destination.
func NewLoggerWithWriter(level LogLevel, w io.Writer) *Logger {
	l := &Logger{base: zerolog.New(w).With().Timestamp().Str("component", "minhypr").Logger()}
	l.level.Store(int32(level))
	return l
}

// Discard returns a logger that drops everything; handy for tests.
func Discard() *Logger {
	return NewLoggerWithWriter(LevelError+1, io.Discard)
}

func (l *Logger) event(level LogLevel) *zerolog.Event {
	switch level {
	case LevelTrace:
		// zerolog's global level drops TraceLevel by default.
		return l.base.Debug().Bool("trace", true)
	case LevelDebug:
		return l.base.Debug()
	case LevelInfo:
		return l.base.Info()
	case LevelWarn:
		return l.base.Warn()
	default:
		return l.base.Error()
	}
}

func (l *Logger) logf(level LogLevel, format string, args ...interface{}) {
	if l == nil || level < LogLevel(l.level.Load()) {
		return
	}
	l.event(level).Msg(fmt.Sprintf(format, args...))
}

func (l *Logger) Tracef(format string, args ...interface{}) {
	l.logf(LevelTrace, format, args...)
}
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.logf(LevelDebug, format, args...)
}
func (l *Logger) Infof(format string, args ...interface{}) {
	l.logf(LevelInfo, format, args...)
}
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.logf(LevelWarn, format, args...)
}
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.logf(LevelError, format, args...)
}

// ParseLogLevel converts a string into a LogLevel, defaulting to info.
func ParseLogLevel(s string) LogLevel {
	if lvl, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return lvl
	}
	return LevelInfo
}
