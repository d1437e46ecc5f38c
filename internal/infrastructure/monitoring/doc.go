/*
Package monitoring provides performance monitoring and metrics collection.

# Overview

This package implements Prometheus-based metrics collection for the
studytrace engine, tracking HTTP requests, session lifecycle events,
interaction signals, distraction events, breaks and dataset exports.

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Record engine metrics
	metrics.IncSessionsStarted()
	metrics.RecordSignal("keypress")

Metrics are exposed on /metrics via promhttp.
*/
package monitoring
