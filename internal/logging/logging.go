// Package logging prints the tool's tagged diagnostics.
package logging

import (
	"fmt"
	"io"
	"log"
)

// Tag prefixes every line the tool prints.
const Tag = "CVP-GETCONFIG: "

// Level is the -v verbosity.
type Level int

const (
	// LevelQuiet prints results and errors only.
	LevelQuiet Level = iota
	// LevelDebug also prints request and matching diagnostics.
	LevelDebug
	// LevelTrace is accepted for compatibility and currently prints like LevelQuiet.
	LevelTrace
)

// ParseLevel converts a -v value. Valid values are "0", "1" and "2".
func ParseLevel(v string) (Level, error) {
	switch v {
	case "0":
		return LevelQuiet, nil
	case "1":
		return LevelDebug, nil
	case "2":
		return LevelTrace, nil
	default:
		return LevelQuiet, fmt.Errorf("invalid verbose level %q (choose from 0, 1, 2)", v)
	}
}

// Logger is a thin wrapper around log.Logger with levels.
type Logger struct {
	logger *log.Logger
	level  Level
}

// New creates a logger writing to w.
func New(w io.Writer, level Level) *Logger {
	return &Logger{logger: log.New(w, Tag, 0), level: level}
}

// Infof always prints.
func (l *Logger) Infof(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.logger.Printf(format, args...)
}

// Debugf prints only at LevelDebug.
func (l *Logger) Debugf(format string, args ...interface{}) {
	if l == nil || l.level != LevelDebug {
		return
	}
	l.logger.Printf(format, args...)
}

// DebugEnabled reports whether Debugf prints.
func (l *Logger) DebugEnabled() bool {
	return l != nil && l.level == LevelDebug
}
