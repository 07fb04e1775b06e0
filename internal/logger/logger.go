package logger

import (
	"go.uber.org/zap"
)

// Log is the shared engine logger. Call Init before use.
var Log *zap.Logger

// Init configures the global logger. Safe to call more than once;
// later calls keep the existing logger.
func Init() {
	if Log != nil {
		return
	}
	logger, err := zap.NewProduction()
	if err != nil {
		Log = zap.NewNop()
		return
	}
	Log = logger
}

// InitDevelopment swaps in a human-readable console logger, used by
// the examples and tests.
func InitDevelopment() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		Log = zap.NewNop()
		return
	}
	Log = logger
}
