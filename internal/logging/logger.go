// Package logging provides zap logger helpers.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap.Logger for the given mode and minimum level. Level accepts
// the usual zap names (debug, info, warn, error); an empty string means info.
func New(development bool, level string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", level, err)
		}
		lvl = parsed
	}

	if development {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(lvl)
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		logger, err := cfg.Build()
		if err != nil {
			return nil, fmt.Errorf("build dev logger: %w", err)
		}
		return logger, nil
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = false
	cfg.EncoderConfig.TimeKey = "ts"
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build prod logger: %w", err)
	}
	return logger, nil
}
