// Package logging provides the leveled logging sink used throughout settle.
// The sink wraps a zap logger with a quiet-mode toggle that suppresses debug
// and info output while leaving warnings, errors, and the mandatory resolution
// summary untouched.
package logging

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a production-ready structured logger configured for JSON output.
func New() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.StacktraceKey = "stacktrace"
	cfg.DisableStacktrace = false

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// Sink is the leveled logging surface. Debug and Info are suppressed in quiet
// mode; Warn, Error, and Summary always emit. A nil base logger is replaced
// with a no-op logger, so a zero-configured Sink is safe to use.
type Sink struct {
	mu    sync.RWMutex
	base  *zap.Logger
	quiet atomic.Bool
}

// NewSink wraps the provided logger. Passing nil yields a silent sink that
// can later be given a real logger via SetLogger.
func NewSink(logger *zap.Logger) *Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sink{base: logger}
}

// SetLogger replaces the underlying logger. Quiet mode is preserved.
func (s *Sink) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s.mu.Lock()
	s.base = logger
	s.mu.Unlock()
}

// SetQuiet toggles suppression of Debug and Info output.
func (s *Sink) SetQuiet(quiet bool) {
	s.quiet.Store(quiet)
}

// Quiet reports whether quiet mode is active.
func (s *Sink) Quiet() bool {
	return s.quiet.Load()
}

func (s *Sink) logger() *zap.Logger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.base
}

// Debug emits a debug-level line unless quiet mode is active.
func (s *Sink) Debug(msg string, fields ...zap.Field) {
	if s.quiet.Load() {
		return
	}
	s.logger().Debug(msg, fields...)
}

// Info emits an info-level line unless quiet mode is active.
func (s *Sink) Info(msg string, fields ...zap.Field) {
	if s.quiet.Load() {
		return
	}
	s.logger().Info(msg, fields...)
}

// Warn emits a warning regardless of quiet mode.
func (s *Sink) Warn(msg string, fields ...zap.Field) {
	s.logger().Warn(msg, fields...)
}

// Error emits an error regardless of quiet mode.
func (s *Sink) Error(msg string, fields ...zap.Field) {
	s.logger().Error(msg, fields...)
}

// Summary emits the mandatory resolution summary. It is never suppressed.
func (s *Sink) Summary(msg string, fields ...zap.Field) {
	s.logger().Info(msg, fields...)
}
