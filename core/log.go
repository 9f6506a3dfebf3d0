package core

import (
	"log/slog"
	"sync/atomic"
)

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(slog.Default())
}

// SetLogger replaces the logger used by the engine packages. Safe to call
// concurrently with logging.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	logger.Store(l)
}

// Logger returns the current engine logger.
func Logger() *slog.Logger {
	return logger.Load()
}
