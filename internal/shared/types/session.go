package types

import "time"

// SessionState represents the lifecycle state of the engine
type SessionState string

const (
	StateIdle    SessionState = "idle"
	StateActive  SessionState = "active"
	StateOnBreak SessionState = "on_break"
)

// FocusLevel is the persisted classification for a session
type FocusLevel string

const (
	FocusAttentive     FocusLevel = "attentive"
	FocusSemiAttentive FocusLevel = "semi-attentive"
	FocusDistracted    FocusLevel = "distracted"
)

// Valid reports whether the level is one of the three known classifications
func (f FocusLevel) Valid() bool {
	switch f {
	case FocusAttentive, FocusSemiAttentive, FocusDistracted:
		return true
	}
	return false
}

// Session represents one study attempt, owned exclusively by the lifecycle manager
type Session struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`
	StartedAt time.Time `json:"started_at"`
	// ElapsedSeconds is recomputed each tick from wall clock minus accumulated
	// break time, not incremented, so missed ticks do not skew it
	ElapsedSeconds int `json:"elapsed_seconds"`
}

// ActivityCounters holds per-session accumulators.
// All counters are monotonically non-decreasing within a session.
type ActivityCounters struct {
	TabSwitches       int `json:"tab_switches"`
	Keystrokes        int `json:"keystrokes"`
	PointerMoves      int `json:"pointer_moves"`
	ScrollEvents      int `json:"scroll_events"`
	InactivityPeriods int `json:"inactivity_periods"`
}

// ActivityTotal returns the combined keyboard/pointer/scroll activity volume
func (c ActivityCounters) ActivityTotal() int {
	return c.Keystrokes + c.PointerMoves + c.ScrollEvents
}

// DistractionType identifies the kind of inferred non-engagement
type DistractionType string

const (
	DistractionTabSwitch   DistractionType = "tab_switch"
	DistractionNavigation  DistractionType = "external_navigation"
	DistractionInternalNav DistractionType = "internal_navigation"
)

// Valid reports whether the type is a known distraction kind
func (d DistractionType) Valid() bool {
	switch d {
	case DistractionTabSwitch, DistractionNavigation, DistractionInternalNav:
		return true
	}
	return false
}

// DistractionEvent records one interval of inferred non-engagement.
// DurationMs is 0 for instantaneous navigation events.
type DistractionEvent struct {
	ID         string          `json:"id"`
	Type       DistractionType `json:"type"`
	StartedAt  int64           `json:"started_at"` // ms epoch
	DurationMs int64           `json:"duration_ms"`
}

// BreakKind distinguishes short from long scheduled breaks
type BreakKind string

const (
	BreakShort BreakKind = "short"
	BreakLong  BreakKind = "long"
)

// BreakState is the spaced-break scheduler's snapshot.
// Ephemeral: survives only the current process run.
type BreakState struct {
	SessionCount          int       `json:"session_count"`
	IsBreakActive         bool      `json:"is_break_active"`
	BreakSecondsRemaining int       `json:"break_seconds_remaining"`
	BreakKind             BreakKind `json:"break_kind,omitempty"`
	// BreakTimeFormatted is the remaining break time as M:SS, empty
	// outside a break
	BreakTimeFormatted string    `json:"break_time_formatted,omitempty"`
	NextBreakKind      BreakKind `json:"next_break_kind"`
}

// MLDataPoint is the exported feature record for one completed session.
// Created once at session end and immutable thereafter.
type MLDataPoint struct {
	SessionID         string     `json:"session_id"`
	Timestamp         time.Time  `json:"timestamp"`
	Subject           string     `json:"subject"`
	DurationMinutes   int        `json:"duration_minutes"`
	TabSwitches       int        `json:"tab_switches"`
	KeystrokeRate     int        `json:"keystroke_rate"` // per minute
	MouseMovements    int        `json:"mouse_movements"`
	InactivityPeriods int        `json:"inactivity_periods"`
	ScrollActivity    int        `json:"scroll_activity"`
	FocusLevel        FocusLevel `json:"focus_level"`
}

// SessionLogRecord is the durable per-session log entry
type SessionLogRecord struct {
	ID                string     `json:"id"`
	Date              string     `json:"date"` // YYYY-MM-DD
	Subject           string     `json:"subject"`
	DurationMinutes   int        `json:"duration_minutes"`
	FocusScore        int        `json:"focus_score"`
	FocusLevel        FocusLevel `json:"focus_level"`
	StartTime         string     `json:"start_time"` // HH:MM
	EndTime           string     `json:"end_time"`   // HH:MM
	TabSwitches       int        `json:"tab_switches"`
	Distractions      int        `json:"distractions"`
	KeystrokeRate     int        `json:"keystroke_rate"`
	MouseMovements    int        `json:"mouse_movements"`
	InactivityPeriods int        `json:"inactivity_periods"`
	ScrollActivity    int        `json:"scroll_activity"`
}

// Snapshot is the live view of the engine exposed to presentation layers
type Snapshot struct {
	State              SessionState     `json:"state"`
	Session            *Session         `json:"session,omitempty"`
	Counters           ActivityCounters `json:"counters"`
	Distractions       int              `json:"distractions"`
	TotalDistractionMs int64            `json:"total_distraction_ms"`
	FocusScore         int              `json:"focus_score"`
	Break              BreakState       `json:"break"`
}

// SessionResult is what stop() reports back to the caller
type SessionResult struct {
	Persisted bool              `json:"persisted"`
	Record    *SessionLogRecord `json:"record,omitempty"`
	DataPoint *MLDataPoint      `json:"data_point,omitempty"`
	// WriteErr carries a recoverable persistence failure; the session is
	// logically closed even when it is set
	WriteErr string `json:"write_error,omitempty"`
}
