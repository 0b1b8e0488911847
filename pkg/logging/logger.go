// Package logging provides structured logging for widen using Go's slog.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu     sync.RWMutex
	logger *slog.Logger
	level  = new(slog.LevelVar)
)

// Level represents log level.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Config controls logging behavior.
type Config struct {
	Level      Level
	JSONFormat bool
	Output     io.Writer
}

// DefaultConfig logs warnings and above as text to stderr.
func DefaultConfig() Config {
	return Config{
		Level:      LevelWarn,
		JSONFormat: false,
		Output:     os.Stderr,
	}
}

// Init replaces the package logger. It is safe to call more than once;
// the last call wins.
func Init(cfg Config) {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	level.Set(cfg.Level.slog())

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.JSONFormat {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	SetLogger(slog.New(handler))
}

// ParseLevel parses a level name. Unknown names fall back to warn.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelWarn
	}
}

func (l Level) slog() slog.Level {
	switch ParseLevel(string(l)) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// SetLevel changes the level of a logger created by Init without
// rebuilding its handler.
func SetLevel(l Level) {
	level.Set(l.slog())
}

// Discard silences all logging; handy in tests.
func Discard() {
	SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) {
	current().Debug(msg, args...)
}

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) {
	current().Info(msg, args...)
}

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) {
	current().Warn(msg, args...)
}

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) {
	current().Error(msg, args...)
}

// With returns a logger with the given attributes.
func With(args ...any) *slog.Logger {
	return current().With(args...)
}

// SetLogger sets a custom logger.
func SetLogger(l *slog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// GetLogger returns the current logger, initialising defaults on first use.
func GetLogger() *slog.Logger {
	return current()
}

func current() *slog.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l != nil {
		return l
	}

	Init(DefaultConfig())

	mu.RLock()
	defer mu.RUnlock()
	return logger
}
