// Package logging provides the process-wide zap logger.
//
// The terminal belongs to the TUI while it runs, so entries go to a rotating
// JSON file rather than stdout.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	globalLogger atomic.Pointer[zap.Logger]
	once         sync.Once
)

// Config controls where and how much is logged.
type Config struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	SessionID  string
}

// Initialize builds the global logger. Only the first call has any effect.
// An empty File disables logging.
func Initialize(cfg Config) error {
	var initErr error
	once.Do(func() {
		if cfg.File == "" {
			globalLogger.Store(zap.NewNop())
			return
		}
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			initErr = fmt.Errorf("failed to create log directory: %w", err)
			globalLogger.Store(zap.NewNop())
			return
		}
		writer := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    maxOr(cfg.MaxSizeMB, 10),
			MaxBackups: maxOr(cfg.MaxBackups, 3),
		})
		globalLogger.Store(New(cfg, writer))
	})
	return initErr
}

// New builds a logger writing JSON entries to w. It does not touch the global logger.
func New(cfg Config, w zapcore.WriteSyncer) *zap.Logger {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil || cfg.Level == "" {
		level.SetLevel(zap.InfoLevel)
	}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), w, level)
	logger := zap.New(core, zap.AddStacktrace(zap.ErrorLevel)).Named("keyzen")
	if cfg.SessionID != "" {
		logger = logger.With(zap.String("session", cfg.SessionID))
	}
	return logger
}

// GetLogger returns the global logger, or a no-op logger before Initialize.
func GetLogger() *zap.Logger {
	if logger := globalLogger.Load(); logger != nil {
		return logger
	}
	return zap.NewNop()
}

// Sync flushes buffered entries.
func Sync() {
	logger := globalLogger.Load()
	if logger == nil {
		return
	}
	if err := logger.Sync(); err != nil && !strings.Contains(err.Error(), "invalid argument") {
		fmt.Fprintln(os.Stderr, "failed to sync logger:", err)
	}
}

func maxOr(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
