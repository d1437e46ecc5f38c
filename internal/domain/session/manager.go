package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/studytrace/backend/internal/domain/activity"
	"github.com/studytrace/backend/internal/domain/breaks"
	"github.com/studytrace/backend/internal/domain/distraction"
	"github.com/studytrace/backend/internal/domain/focus"
	"github.com/studytrace/backend/internal/domain/goals"
	"github.com/studytrace/backend/internal/events"
	"github.com/studytrace/backend/internal/infrastructure/logging"
	"github.com/studytrace/backend/internal/infrastructure/monitoring"
	"github.com/studytrace/backend/internal/shared/clock"
	"github.com/studytrace/backend/internal/shared/id"
	"github.com/studytrace/backend/internal/shared/types"
	"github.com/studytrace/backend/internal/storage"
)

var (
	// ErrAlreadyActive is returned by Start while a session is running
	ErrAlreadyActive = errors.New("a session is already active")
	// ErrNotActive is returned by Stop when no session is running
	ErrNotActive = errors.New("no active session")
	// ErrPersist wraps recoverable persistence failures on stop; the
	// session is still logically closed when it is returned
	ErrPersist = errors.New("session closed but persistence failed")
)

// Config holds the manager's thresholds
type Config struct {
	// MinSessionSeconds is the shortest session that gets persisted
	MinSessionSeconds int
	// TickInterval is the session clock cadence; defaults to one second
	TickInterval time.Duration
	Activity     activity.Config
	Breaks       breaks.Config
}

// DefaultConfig returns the standard thresholds
func DefaultConfig() Config {
	return Config{
		MinSessionSeconds: 60,
		TickInterval:      time.Second,
		Activity:          activity.DefaultConfig(),
		Breaks:            breaks.DefaultConfig(),
	}
}

// Manager owns the session lifecycle state machine
type Manager struct {
	cfg     Config
	clock   clock.Clock
	log     *logging.Logger
	bus     *events.Bus
	records *storage.Records
	metrics *monitoring.Metrics
	goals   *goals.Tracker

	mu             sync.Mutex
	state          types.SessionState
	sess           *types.Session
	collector      *activity.Collector
	distractions   *distraction.Log
	scheduler      *breaks.Scheduler
	breakAccum     time.Duration
	breakStartedAt *time.Time

	stopTicker chan struct{}
	tickerDone chan struct{}
}

// NewManager creates an idle manager
func NewManager(cfg Config, records *storage.Records, bus *events.Bus, log *logging.Logger) *Manager {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	if log == nil {
		log = logging.NewDefault()
	}
	if bus == nil {
		bus = events.NewBus()
	}
	m := &Manager{
		cfg:     cfg,
		clock:   clock.System{},
		log:     log,
		bus:     bus,
		records: records,
		state:   types.StateIdle,
	}
	m.scheduler = breaks.New(cfg.Breaks, breaks.Callbacks{
		OnBreakStarted: m.onBreakStarted,
		OnBreakEnded:   m.onBreakEnded,
	})
	return m
}

// WithClock replaces the wall clock, for deterministic tests
func (m *Manager) WithClock(clk clock.Clock) *Manager {
	m.clock = clk
	return m
}

// WithMetrics adds metrics tracking to the manager
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// WithGoals credits persisted sessions against the daily study goal
func (m *Manager) WithGoals(tracker *goals.Tracker) *Manager {
	m.goals = tracker
	return m
}

// Start begins a new session for the given subject. It fails with
// ErrAlreadyActive unless the manager is idle.
func (m *Manager) Start(subject string) (*types.Session, error) {
	m.mu.Lock()

	if m.state != types.StateIdle {
		m.mu.Unlock()
		return nil, ErrAlreadyActive
	}

	now := m.clock.Now()
	m.sess = &types.Session{
		ID:        id.NewSessionID().String(),
		Subject:   subject,
		StartedAt: now,
	}
	m.distractions = distraction.NewLog()
	m.collector = activity.NewCollector(m.cfg.Activity, m.clock, m)
	m.scheduler.ResetForSession()
	m.breakAccum = 0
	m.breakStartedAt = nil
	m.state = types.StateActive

	m.stopTicker = make(chan struct{})
	m.tickerDone = make(chan struct{})
	stop, done := m.stopTicker, m.tickerDone

	collector := m.collector
	sess := *m.sess
	m.mu.Unlock()

	collector.Start()
	go m.runTicker(stop, done)

	m.log.Info("session started",
		zap.String("session_id", sess.ID),
		zap.String("subject", sess.Subject),
	)
	if m.metrics != nil {
		m.metrics.IncSessionsStarted()
	}
	m.bus.Publish(events.SessionStarted, map[string]any{
		"session_id": sess.ID,
		"subject":    sess.Subject,
	})

	return &sess, nil
}

// Tick advances the session clock. A no-op while idle; called at the
// configured cadence by the internal ticker, and callable directly.
func (m *Manager) Tick() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == types.StateIdle || m.sess == nil {
		return
	}

	m.sess.ElapsedSeconds = m.elapsedLocked(m.clock.Now())
	m.scheduler.OnTick(m.sess.ElapsedSeconds)
}

// Stop ends the active session. Sessions shorter than the minimum are
// discarded silently: no data point, no log entry, but the manager
// still returns to idle. An optional override label replaces the
// classifier's category for user self-rating flows.
func (m *Manager) Stop(override *types.FocusLevel) (types.SessionResult, error) {
	m.mu.Lock()

	if m.state == types.StateIdle || m.sess == nil {
		m.mu.Unlock()
		return types.SessionResult{}, ErrNotActive
	}

	now := m.clock.Now()
	elapsed := m.elapsedLocked(now)
	sess := *m.sess
	collector := m.collector
	distractions := m.distractions

	m.teardownLocked()
	m.mu.Unlock()

	collector.Stop()

	if elapsed < m.cfg.MinSessionSeconds {
		m.log.Info("session discarded below minimum duration",
			zap.String("session_id", sess.ID),
			zap.Int("elapsed_seconds", elapsed),
			zap.Int("min_seconds", m.cfg.MinSessionSeconds),
		)
		if m.metrics != nil {
			m.metrics.IncSessionsDiscarded()
		}
		m.bus.Publish(events.SessionStopped, map[string]any{
			"session_id": sess.ID,
			"discarded":  true,
		})
		return types.SessionResult{Persisted: false}, nil
	}

	counters := collector.Snapshot()
	totalDistractionMs := distractions.TotalDurationMs()

	outcome := focus.Classify(focus.Input{
		ElapsedSeconds:     elapsed,
		TotalDistractionMs: totalDistractionMs,
		TabSwitches:        counters.TabSwitches,
		DistractionEvents:  distractions.Count(),
		ActivityTotal:      counters.ActivityTotal(),
	})
	level := outcome.Level
	if override != nil && override.Valid() {
		level = *override
	}

	record, dataPoint := buildRecords(sess, now, elapsed, counters, distractions.Count(), level, outcome.Score)
	result := types.SessionResult{
		Persisted: true,
		Record:    &record,
		DataPoint: &dataPoint,
	}

	var persistErr error
	if m.records != nil {
		if err := m.records.AppendSessionLog(record); err != nil {
			persistErr = err
		} else if err := m.records.AppendDataPoint(dataPoint); err != nil {
			persistErr = err
		}
	}

	if m.goals != nil {
		if err := m.goals.RecordStudy(record.Date, record.DurationMinutes); err != nil {
			m.log.Warn("failed to credit study goal", zap.Error(err),
				zap.String("session_id", sess.ID))
		}
	}

	m.log.Info("session stopped",
		zap.String("session_id", sess.ID),
		zap.Int("duration_minutes", record.DurationMinutes),
		zap.String("focus_level", string(level)),
		zap.Int("focus_score", outcome.Score),
	)
	if m.metrics != nil {
		m.metrics.IncSessionsCompleted(string(level))
	}
	m.bus.Publish(events.SessionStopped, map[string]any{
		"session_id":  sess.ID,
		"discarded":   false,
		"focus_level": string(level),
	})

	if persistErr != nil {
		result.WriteErr = persistErr.Error()
		m.log.Error("session persistence failed", zap.Error(persistErr),
			zap.String("session_id", sess.ID))
		return result, fmt.Errorf("%w: %v", ErrPersist, persistErr)
	}
	return result, nil
}

// Discard clears all in-progress state without persisting anything.
// A no-op error while idle.
func (m *Manager) Discard() error {
	m.mu.Lock()

	if m.state == types.StateIdle {
		m.mu.Unlock()
		return ErrNotActive
	}

	sessID := m.sess.ID
	collector := m.collector
	m.teardownLocked()
	m.mu.Unlock()

	collector.Stop()

	m.log.Info("session discarded", zap.String("session_id", sessID))
	if m.metrics != nil {
		m.metrics.IncSessionsDiscarded()
	}
	m.bus.Publish(events.SessionStopped, map[string]any{
		"session_id": sessID,
		"discarded":  true,
	})
	return nil
}

// SkipBreak forces an active break to end immediately
func (m *Manager) SkipBreak() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != types.StateOnBreak {
		return
	}
	m.scheduler.SkipBreak()
}

// HandleSignal ingests one passive interaction signal
func (m *Manager) HandleSignal(sig types.Signal) error {
	if err := sig.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	state := m.state
	collector := m.collector
	distractions := m.distractions
	m.mu.Unlock()

	if state == types.StateIdle || collector == nil {
		return nil
	}

	if m.metrics != nil {
		m.metrics.RecordSignal(string(sig.Type))
	}

	// Navigation reaches the distraction log directly; distraction
	// tracking is paused while on break
	if sig.Type == types.SignalNavigation && state == types.StateActive {
		kind := types.DistractionNavigation
		if sig.Internal {
			kind = types.DistractionInternalNav
		}
		evt, err := distractions.Record(kind, m.clock.Now().UnixMilli(), 0)
		if err != nil {
			return err
		}
		m.publishDistraction(evt)
	}

	return collector.Handle(sig)
}

// TabAway implements activity.TabAwaySink: the collector forwards
// tab-away intervals that met the minimum duration threshold.
func (m *Manager) TabAway(startedAt time.Time, duration time.Duration) {
	m.mu.Lock()
	state := m.state
	distractions := m.distractions
	m.mu.Unlock()

	// Distraction tracking applies only while actively studying
	if state != types.StateActive || distractions == nil {
		return
	}

	evt, err := distractions.Record(types.DistractionTabSwitch, startedAt.UnixMilli(), duration.Milliseconds())
	if err != nil {
		return
	}
	m.publishDistraction(evt)
}

// State returns the current lifecycle state
func (m *Manager) State() types.SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Snapshot returns the live view consumed by presentation layers
func (m *Manager) Snapshot() types.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := types.Snapshot{
		State: m.state,
		Break: m.scheduler.Snapshot(),
	}
	if m.sess == nil {
		snap.FocusScore = 100
		return snap
	}

	sess := *m.sess
	sess.ElapsedSeconds = m.elapsedLocked(m.clock.Now())
	snap.Session = &sess
	snap.Counters = m.collector.Snapshot()
	snap.Distractions = m.distractions.Count()
	snap.TotalDistractionMs = m.distractions.TotalDurationMs()
	snap.FocusScore = focus.Score(focus.Input{
		ElapsedSeconds:     sess.ElapsedSeconds,
		TotalDistractionMs: snap.TotalDistractionMs,
		TabSwitches:        snap.Counters.TabSwitches,
		DistractionEvents:  snap.Distractions,
		ActivityTotal:      snap.Counters.ActivityTotal(),
	})
	return snap
}

// Distractions returns the active session's distraction events
func (m *Manager) Distractions() []types.DistractionEvent {
	m.mu.Lock()
	distractions := m.distractions
	m.mu.Unlock()

	if distractions == nil {
		return nil
	}
	return distractions.All()
}

// elapsedLocked recomputes elapsed study time from the wall clock,
// excluding accumulated and in-progress break time. Callers hold mu.
func (m *Manager) elapsedLocked(now time.Time) int {
	if m.sess == nil {
		return 0
	}
	elapsed := now.Sub(m.sess.StartedAt) - m.breakAccum
	if m.breakStartedAt != nil {
		elapsed -= now.Sub(*m.breakStartedAt)
	}
	if elapsed < 0 {
		return 0
	}
	return int(elapsed.Seconds())
}

// teardownLocked stops the ticker and clears all per-session state.
// Callers hold mu; the collector must be stopped by the caller after
// releasing it.
func (m *Manager) teardownLocked() {
	if m.stopTicker != nil {
		close(m.stopTicker)
		m.stopTicker = nil
		m.tickerDone = nil
	}
	m.sess = nil
	m.collector = nil
	m.distractions = nil
	m.breakAccum = 0
	m.breakStartedAt = nil
	m.scheduler.ResetForSession()
	m.state = types.StateIdle
}

// onBreakStarted runs under the manager lock via Tick
func (m *Manager) onBreakStarted(kind types.BreakKind, durationSeconds int) {
	now := m.clock.Now()
	m.breakStartedAt = &now
	m.state = types.StateOnBreak

	m.log.Info("break started",
		zap.String("kind", string(kind)),
		zap.Int("duration_seconds", durationSeconds),
	)
	if m.metrics != nil {
		m.metrics.RecordBreak(string(kind))
	}
	m.bus.Publish(events.BreakStarted, map[string]any{
		"kind":             string(kind),
		"duration_seconds": durationSeconds,
	})
}

// onBreakEnded runs under the manager lock via Tick or SkipBreak
func (m *Manager) onBreakEnded(skipped bool) {
	if m.breakStartedAt != nil {
		m.breakAccum += m.clock.Now().Sub(*m.breakStartedAt)
		m.breakStartedAt = nil
	}
	m.state = types.StateActive

	m.log.Info("break ended", zap.Bool("skipped", skipped))
	if skipped && m.metrics != nil {
		m.metrics.BreaksSkipped.Inc()
	}
	m.bus.Publish(events.BreakEnded, map[string]any{"skipped": skipped})
}

func (m *Manager) publishDistraction(evt types.DistractionEvent) {
	if m.metrics != nil {
		m.metrics.RecordDistraction(string(evt.Type))
	}
	m.bus.Publish(events.DistractionRecorded, map[string]any{
		"type":        string(evt.Type),
		"duration_ms": evt.DurationMs,
	})
}

func (m *Manager) runTicker(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Tick()
		case <-stop:
			return
		}
	}
}

// buildRecords assembles the immutable persisted artifacts for one
// completed session
func buildRecords(
	sess types.Session,
	endedAt time.Time,
	elapsedSeconds int,
	counters types.ActivityCounters,
	distractionCount int,
	level types.FocusLevel,
	score int,
) (types.SessionLogRecord, types.MLDataPoint) {
	durationMinutes := elapsedSeconds / 60
	rateDivisor := durationMinutes
	if rateDivisor < 1 {
		rateDivisor = 1
	}
	keystrokeRate := counters.Keystrokes / rateDivisor

	record := types.SessionLogRecord{
		ID:                sess.ID,
		Date:              sess.StartedAt.Format("2006-01-02"),
		Subject:           sess.Subject,
		DurationMinutes:   durationMinutes,
		FocusScore:        score,
		FocusLevel:        level,
		StartTime:         sess.StartedAt.Format("15:04"),
		EndTime:           endedAt.Format("15:04"),
		TabSwitches:       counters.TabSwitches,
		Distractions:      distractionCount,
		KeystrokeRate:     keystrokeRate,
		MouseMovements:    counters.PointerMoves,
		InactivityPeriods: counters.InactivityPeriods,
		ScrollActivity:    counters.ScrollEvents,
	}

	dataPoint := types.MLDataPoint{
		SessionID:         sess.ID,
		Timestamp:         sess.StartedAt,
		Subject:           sess.Subject,
		DurationMinutes:   durationMinutes,
		TabSwitches:       counters.TabSwitches,
		KeystrokeRate:     keystrokeRate,
		MouseMovements:    counters.PointerMoves,
		InactivityPeriods: counters.InactivityPeriods,
		ScrollActivity:    counters.ScrollEvents,
		FocusLevel:        level,
	}

	return record, dataPoint
}
