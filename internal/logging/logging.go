// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package logging provides the leveled logger used across hwdbg.
//
// A nil *Logger is valid and discards everything, so components can take an
// optional logger without nil checks.
//
package logging

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Level is a log severity.
//
type Level int

// Log levels, from least to most verbose.
const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

var levelNames = [...]string{"error", "warn", "info", "debug"}

func (l Level) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return fmt.Sprintf("level(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel returns the level with the given (case insensitive) name.
//
func ParseLevel(s string) (Level, error) {
	for i, n := range levelNames {
		if strings.EqualFold(s, n) {
			return Level(i), nil
		}
	}
	return LevelError, errors.Errorf("unknown log level %q", s)
}

// Logger is a leveled logger. It is safe for concurrent use.
//
type Logger struct {
	mu     sync.RWMutex
	level  Level
	logger *log.Logger
}

// New returns a logger writing messages up to level to w, with the given
// prefix.
//
func New(w io.Writer, level Level, prefix string) *Logger {
	return &Logger{
		level:  level,
		logger: log.New(w, prefix, log.LstdFlags|log.Lmicroseconds),
	}
}

// Discard returns a logger that drops every message.
//
func Discard() *Logger {
	return New(io.Discard, LevelError, "")
}

// SetLevel adjusts the current logging level.
//
func (l *Logger) SetLevel(level Level) {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

// Enabled reports whether messages at level are written.
//
func (l *Logger) Enabled(level Level) bool {
	if l == nil {
		return false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return level <= l.level
}

func (l *Logger) logf(level Level, format string, args ...interface{}) {
	if !l.Enabled(level) {
		return
	}
	l.logger.Output(3, level.String()+": "+fmt.Sprintf(format, args...))
}

// Debugf logs a debug message.
func (l *Logger) Debugf(format string, args ...interface{}) { l.logf(LevelDebug, format, args...) }

// Infof logs an informational message.
func (l *Logger) Infof(format string, args ...interface{}) { l.logf(LevelInfo, format, args...) }

// Warnf logs a warning.
func (l *Logger) Warnf(format string, args ...interface{}) { l.logf(LevelWarn, format, args...) }

// Errorf logs an error.
func (l *Logger) Errorf(format string, args ...interface{}) { l.logf(LevelError, format, args...) }
