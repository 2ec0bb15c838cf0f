// Package logging provides a small slog-backed logger for reconstruction runs
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jeremyhahn/go-quorum/pkg/correlation"
)

// Logger provides leveled, structured logging
type Logger struct {
	logger *slog.Logger
	level  slog.Level
}

// Options controls how a Logger renders records
type Options struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string

	// Format is "text" or "json". Empty means text.
	Format string

	// Output defaults to os.Stderr
	Output io.Writer
}

// ParseLevel converts a level name into a slog.Level
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("logging: unknown level %q", level)
	}
}

// New creates a logger from options
func New(opts Options) (*Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(opts.Format) {
	case "", "text":
		handler = slog.NewTextHandler(out, handlerOpts)
	case "json":
		handler = slog.NewJSONHandler(out, handlerOpts)
	default:
		return nil, fmt.Errorf("logging: unknown format %q", opts.Format)
	}
	return &Logger{logger: slog.New(handler), level: level}, nil
}

// Discard returns a logger that drops every record
func Discard() *Logger {
	return &Logger{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		level:  slog.LevelError,
	}
}

// With returns a logger that adds args to every record
func (l *Logger) With(args ...any) *Logger {
	return &Logger{logger: l.logger.With(args...), level: l.level}
}

// WithContext returns a logger tagged with the run ID carried by ctx, if any
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if id := correlation.RunID(ctx); id != "" {
		return l.With("run_id", id)
	}
	return l
}

// DebugEnabled reports whether debug records are emitted
func (l *Logger) DebugEnabled() bool {
	return l.level <= slog.LevelDebug
}

// Info logs an informational message
func (l *Logger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

// Error logs an error
func (l *Logger) Error(err error, args ...any) {
	l.logger.Error(err.Error(), args...)
}
