// Package logging provides zap logger helpers.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// L is the process-wide logger. It starts as a no-op so packages that log
// before Init runs never hit a nil pointer.
var L = zap.NewNop()

// Init builds the bootstrap logger and installs it as L. Configuration has
// not been loaded yet when this runs, so development mode is taken from the
// PATCHVAULT_LOGGING_DEVELOPMENT environment variable.
func Init() {
	logger, err := New(os.Getenv("PATCHVAULT_LOGGING_DEVELOPMENT") == "true")
	if err != nil {
		return
	}
	L = logger
}

// Replace installs the configured logger as L and returns the previous one.
// The app container calls this once Viper has been read.
func Replace(logger *zap.Logger) *zap.Logger {
	prev := L
	L = logger
	return prev
}

// New builds a zap.Logger configured for development or production.
func New(development bool) (*zap.Logger, error) {
	if development {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		logger, err := cfg.Build()
		if err != nil {
			return nil, fmt.Errorf("build dev logger: %w", err)
		}
		return logger, nil
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = false
	cfg.EncoderConfig.TimeKey = "ts"
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build prod logger: %w", err)
	}
	return logger, nil
}
