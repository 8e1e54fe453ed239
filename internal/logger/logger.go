// Package logger provides the process-wide leveled logger backed by zap.
package logger

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	sugar  = zap.NewNop().Sugar()
	atomic = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// ParseLevel converts a textual level into a zap level.
// Unknown or empty values map to info.
func ParseLevel(level string) (zapcore.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel, true
	case "info", "":
		return zapcore.InfoLevel, true
	case "warn", "warning":
		return zapcore.WarnLevel, true
	case "error":
		return zapcore.ErrorLevel, true
	default:
		return zapcore.InfoLevel, false
	}
}

// Initialize installs a JSON logger writing to path, or to stderr when path is empty.
func Initialize(level, path string) error {
	lvl, ok := ParseLevel(level)
	atomic.SetLevel(lvl)

	sink := zapcore.Lock(os.Stderr)
	if path != "" {
		// #nosec G304 -- path comes from the operator's own flags
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return err
		}
		sink = zapcore.Lock(f)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), sink, atomic)

	mu.Lock()
	sugar = zap.New(core).Sugar()
	mu.Unlock()

	if !ok {
		Warnw("Invalid log level, using INFO", "value", level)
	}
	return nil
}

// Sync flushes buffered entries.
func Sync() {
	_ = get().Sync()
}

func get() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Debugf logs a formatted debug message
func Debugf(msg string, args ...any) { get().Debugf(msg, args...) }

// Infof logs a formatted info message
func Infof(msg string, args ...any) { get().Infof(msg, args...) }

// Warnf logs a formatted warning
func Warnf(msg string, args ...any) { get().Warnf(msg, args...) }

// Errorf logs a formatted error
func Errorf(msg string, args ...any) { get().Errorf(msg, args...) }

// Debugw logs a debug message with key-value pairs
func Debugw(msg string, kv ...any) { get().Debugw(msg, kv...) }

// Infow logs an info message with key-value pairs
func Infow(msg string, kv ...any) { get().Infow(msg, kv...) }

// Warnw logs a warning with key-value pairs
func Warnw(msg string, kv ...any) { get().Warnw(msg, kv...) }

// Errorw logs an error with key-value pairs
func Errorw(msg string, kv ...any) { get().Errorw(msg, kv...) }

// Fatalf logs at fatal level and exits the process.
func Fatalf(msg string, args ...any) { get().Fatalf(msg, args...) }
