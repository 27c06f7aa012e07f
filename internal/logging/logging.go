// Package logging provides a leveled wrapper around the standard logger.
package logging

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync/atomic"
)

// Level represents a logging threshold. Higher values are more verbose.
type Level int32

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// ParseLevel parses a level name. An empty string yields LevelInfo.
func ParseLevel(raw string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "error":
		return LevelError, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "", "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	default:
		return LevelInfo, fmt.Errorf("invalid log level %q (expected error, warn, info or debug)", raw)
	}
}

// Logger writes tagged, leveled lines through a *log.Logger.
type Logger struct {
	out   *log.Logger
	tag   string
	level *atomic.Int32
}

var globalLevel atomic.Int32

func init() {
	globalLevel.Store(int32(LevelInfo))
}

// SetLevel sets the threshold shared by every logger created with New.
func SetLevel(level Level) {
	globalLevel.Store(int32(level))
}

// GetLevel returns the shared threshold.
func GetLevel() Level {
	return Level(globalLevel.Load())
}

// New returns a logger that writes through the standard logger with the
// given component tag, e.g. New("presence") prefixes lines with "[presence] ".
func New(tag string) *Logger {
	return &Logger{out: log.Default(), tag: tag, level: &globalLevel}
}

// NewWithWriter returns a logger with its own writer and threshold.
func NewWithWriter(w io.Writer, tag string, level Level) *Logger {
	lvl := &atomic.Int32{}
	lvl.Store(int32(level))
	return &Logger{out: log.New(w, "", 0), tag: tag, level: lvl}
}

// Discard drops everything.
var Discard = NewWithWriter(io.Discard, "", LevelError)

// Enabled reports whether a line at level would be written.
func (l *Logger) Enabled(level Level) bool {
	return level <= Level(l.level.Load())
}

func (l *Logger) printf(level Level, format string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if l.tag != "" {
		msg = "[" + l.tag + "] " + msg
	}
	// calldepth 3 points Lshortfile at the caller of Errorf/Infof/...
	_ = l.out.Output(3, msg)
}

func (l *Logger) Errorf(format string, args ...any) { l.printf(LevelError, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.printf(LevelWarn, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.printf(LevelInfo, format, args...) }
func (l *Logger) Debugf(format string, args ...any) { l.printf(LevelDebug, format, args...) }
