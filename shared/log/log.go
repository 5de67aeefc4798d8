// Package log holds the zap logger shared by every package in this module.
//
// The default logger discards everything. Programs that want to see rc
// allocations, borrow conflicts or invariant breaks install their own with
// SetLogger.
package log

import (
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var current atomic.Pointer[zap.Logger]

func init() {
	current.Store(zap.NewNop())
}

// L returns the logger currently installed.
func L() *zap.Logger {
	return current.Load()
}

// SetLogger installs logger for the whole module and returns a function that
// restores the previous one. A nil logger installs a no-op logger.
func SetLogger(logger *zap.Logger) (restore func()) {
	if logger == nil {
		logger = zap.NewNop()
	}
	prev := current.Swap(logger)
	return func() {
		if err := logger.Sync(); err != nil {
			prev.Debug("failed to sync logger", zap.Error(err))
		}
		current.Store(prev)
	}
}

// Debug writes a debug entry. Fields are only materialised by the caller, so
// hot paths should guard expensive fields with Enabled.
func Debug(msg string, fields ...zap.Field) {
	if ce := L().Check(zapcore.DebugLevel, msg); ce != nil {
		ce.Write(fields...)
	}
}

// Error writes an error entry.
func Error(msg string, fields ...zap.Field) {
	L().Error(msg, fields...)
}

// Enabled reports whether entries at level would be written.
func Enabled(level zapcore.Level) bool {
	return L().Core().Enabled(level)
}
