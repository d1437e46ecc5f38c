package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Session lifecycle metrics
	SessionActive     prometheus.Gauge
	SessionsStarted   prometheus.Counter
	SessionsCompleted *prometheus.CounterVec
	SessionsDiscarded prometheus.Counter

	// Signal metrics
	SignalsTotal      *prometheus.CounterVec
	DistractionEvents *prometheus.CounterVec

	// Break metrics
	BreaksStarted *prometheus.CounterVec
	BreaksSkipped prometheus.Counter

	// Export metrics
	ExportsTotal *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),

		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studytrace_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "studytrace_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "path"},
		),

		SessionActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "studytrace_session_active",
				Help: "Whether a study session is currently active (0 or 1)",
			},
		),
		SessionsStarted: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "studytrace_sessions_started_total",
				Help: "Total number of study sessions started",
			},
		),
		SessionsCompleted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studytrace_sessions_completed_total",
				Help: "Total number of persisted sessions by focus classification",
			},
			[]string{"focus_level"},
		),
		SessionsDiscarded: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "studytrace_sessions_discarded_total",
				Help: "Total number of sessions discarded before the minimum duration",
			},
		),

		SignalsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studytrace_signals_total",
				Help: "Total number of interaction signals ingested by type",
			},
			[]string{"type"},
		),
		DistractionEvents: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studytrace_distraction_events_total",
				Help: "Total number of distraction events recorded by type",
			},
			[]string{"type"},
		),

		BreaksStarted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studytrace_breaks_started_total",
				Help: "Total number of scheduled breaks by kind",
			},
			[]string{"kind"},
		),
		BreaksSkipped: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "studytrace_breaks_skipped_total",
				Help: "Total number of breaks skipped by the user",
			},
		),

		ExportsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studytrace_exports_total",
				Help: "Total number of dataset exports by status",
			},
			[]string{"status"},
		),

		WSConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "studytrace_ws_connections",
				Help: "Current number of WebSocket connections",
			},
		),

		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "studytrace_uptime_seconds",
				Help: "Service uptime in seconds",
			},
		),
	}

	go m.updateUptime()

	return m
}

func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordSignal records one ingested interaction signal
func (m *Metrics) RecordSignal(signalType string) {
	m.SignalsTotal.WithLabelValues(signalType).Inc()
}

// RecordDistraction records one distraction event
func (m *Metrics) RecordDistraction(distractionType string) {
	m.DistractionEvents.WithLabelValues(distractionType).Inc()
}

// RecordBreak records a started break
func (m *Metrics) RecordBreak(kind string) {
	m.BreaksStarted.WithLabelValues(kind).Inc()
}

// RecordExport records an export attempt
func (m *Metrics) RecordExport(status string) {
	m.ExportsTotal.WithLabelValues(status).Inc()
}

// IncSessionsStarted marks a session start
func (m *Metrics) IncSessionsStarted() {
	m.SessionsStarted.Inc()
	m.SessionActive.Set(1)
}

// IncSessionsCompleted marks a persisted session stop
func (m *Metrics) IncSessionsCompleted(focusLevel string) {
	m.SessionsCompleted.WithLabelValues(focusLevel).Inc()
	m.SessionActive.Set(0)
}

// IncSessionsDiscarded marks a discarded session
func (m *Metrics) IncSessionsDiscarded() {
	m.SessionsDiscarded.Inc()
	m.SessionActive.Set(0)
}

// IncWSConnections increments active WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
}

// DecWSConnections decrements active WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
}
