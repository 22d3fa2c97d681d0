// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments
// (development vs production) and an optional log file that receives a copy of
// the stream, so a run leaves a traceable record next to its outputs.
//
// # Run Correlation
//
// WithRunID tags a logger with a random run_id (UUID). Every stage of a pipeline
// run logs through that logger so all lines of one run can be correlated.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json (production) or console (development)
//   - File: optional extra output path
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "console"})
//	log, runID := logger.WithRunID(log)
//	log.Info("Pipeline started", zap.String("run_id", runID))
package logger
