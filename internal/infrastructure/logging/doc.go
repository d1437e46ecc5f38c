// Package logging provides structured logging using uber/zap.
//
// The engine logs in two modes:
//   - Production: info-level JSON output for machine parsing
//   - Development: debug-level colored console output
//
// The level is configurable (LOG_LEVEL); every lifecycle transition,
// break, distraction and export failure is logged with structured
// fields rather than formatted strings.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("session started", zap.String("session_id", id))
//	logger.Error("persistence failed", zap.Error(err))
package logging
