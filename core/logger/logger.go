package logger

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a new zap logger based on the configuration.
func New(cfg *Config) (*zap.Logger, error) {
	var config zap.Config

	if cfg.Level == "debug" {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
		// Production config samples repeated messages; drop counters must not be sampled away
		config.Sampling = nil
		if lvl, err := zapcore.ParseLevel(cfg.Level); err == nil {
			config.Level = zap.NewAtomicLevelAt(lvl)
		}
	}

	// Set format based on configuration
	if cfg.Format == "console" {
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		config.DisableStacktrace = true
	} else {
		config.Encoding = "json"
	}

	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.MessageKey = "message"

	if cfg.File != "" {
		config.OutputPaths = append(config.OutputPaths, cfg.File)
		if cfg.Format == "console" {
			// Color codes would end up in the file
			config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		}
	}

	return config.Build()
}

// WithRunID returns a logger tagged with a fresh run_id and the id itself.
func WithRunID(l *zap.Logger) (*zap.Logger, string) {
	id := uuid.NewString()
	return l.With(zap.String("run_id", id)), id
}
