// Package rlog is the registers CLI's ambient logging wrapper around the
// standard library's log package. Only cmd/registers imports it; the core
// register packages are silent, returning errors for the caller to report.
//
// Grounded on the teacher's pkg/database/client.go logger field
// (log.New(log.Writer(), prefix, log.LstdFlags), overridable through a
// functional option).
package rlog

import (
	"io"
	"log"
	"os"
)

// Level is a logging verbosity threshold.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

// ParseLevel maps a config.Config.LogLevel string to a Level, defaulting to
// Info for an unrecognised value.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return Debug
	case "warn":
		return Warn
	case "error":
		return Error
	default:
		return Info
	}
}

// Logger is a level-filtered wrapper around *log.Logger.
type Logger struct {
	level Level
	std   *log.Logger
}

// Option configures a Logger.
type Option func(*Logger)

// WithOutput overrides the logger's destination writer.
func WithOutput(w io.Writer) Option {
	return func(l *Logger) { l.std = log.New(w, l.std.Prefix(), l.std.Flags()) }
}

// WithPrefix overrides the logger's line prefix.
func WithPrefix(prefix string) Option {
	return func(l *Logger) { l.std = log.New(l.std.Writer(), prefix, l.std.Flags()) }
}

// New returns a Logger at the given level, writing to stderr with the
// standard "[registers] " prefix unless overridden by an Option.
func New(level Level, opts ...Option) *Logger {
	l := &Logger{
		level: level,
		std:   log.New(os.Stderr, "[registers] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Logger) log(level Level, tag, format string, args ...any) {
	if level < l.level {
		return
	}
	l.std.Printf(tag+format, args...)
}

// Debugf logs at Debug level.
func (l *Logger) Debugf(format string, args ...any) { l.log(Debug, "DEBUG ", format, args...) }

// Infof logs at Info level.
func (l *Logger) Infof(format string, args ...any) { l.log(Info, "INFO ", format, args...) }

// Warnf logs at Warn level.
func (l *Logger) Warnf(format string, args ...any) { l.log(Warn, "WARN ", format, args...) }

// Errorf logs at Error level.
func (l *Logger) Errorf(format string, args ...any) { l.log(Error, "ERROR ", format, args...) }
