// Package main is the entry point for the StudyTrace engine server.
//
// The server tracks study sessions from passive interaction signals,
// classifies focus, schedules spaced breaks and accumulates a
// training dataset from completed sessions.
//
// The server provides:
//   - REST API for session lifecycle, history and goals
//   - WebSocket streaming for signals in and notifications out
//   - CSV dataset export
//   - Rate limiting and Prometheus metrics
//
// Configuration:
//   - Environment variables (12-factor)
//   - Optional YAML threshold overrides (-thresholds)
//   - CLI flags (override env vars)
//
// Usage:
//
//	# Production mode
//	./server -port 8000 -storage ./data
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
