// Package breaks implements the spaced-break scheduler: a Pomodoro-style
// state machine that interrupts study at fixed intervals and alternates
// short and long breaks.
package breaks

import (
	"fmt"
	"sync"

	"github.com/studytrace/backend/internal/shared/types"
)

// State represents the scheduler state
type State int

const (
	StateStudying State = iota
	StateOnBreak
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateStudying:
		return "studying"
	case StateOnBreak:
		return "on-break"
	default:
		return "unknown"
	}
}

// Config holds the schedule parameters
type Config struct {
	StudyDurationMinutes    int
	ShortBreakMinutes       int
	LongBreakMinutes        int
	SessionsBeforeLongBreak int
}

// DefaultConfig returns the standard 25/5/15 schedule with a long
// break every fourth interval
func DefaultConfig() Config {
	return Config{
		StudyDurationMinutes:    25,
		ShortBreakMinutes:       5,
		LongBreakMinutes:        15,
		SessionsBeforeLongBreak: 4,
	}
}

// Callbacks are invoked on state transitions. They run under the
// scheduler lock and must not block.
type Callbacks struct {
	OnBreakStarted func(kind types.BreakKind, durationSeconds int)
	OnBreakEnded   func(skipped bool)
}

// Scheduler alternates Studying and OnBreak driven by the session clock
type Scheduler struct {
	cfg Config
	cbs Callbacks

	mu               sync.Mutex
	state            State
	sessionCount     int
	breakKind        types.BreakKind
	secondsRemaining int
	// lastBoundary is the most recent boundary acted on, so duplicate
	// ticks don't re-enter the break and a missed tick past the
	// boundary still triggers it
	lastBoundary int
}

// New creates a scheduler in the Studying state
func New(cfg Config, cbs Callbacks) *Scheduler {
	if cfg.StudyDurationMinutes <= 0 {
		cfg = DefaultConfig()
	}
	return &Scheduler{cfg: cfg, cbs: cbs, state: StateStudying}
}

// OnTick advances the scheduler with the session's current elapsed
// seconds. While studying it checks for a break boundary; while on
// break it counts the break down (the session clock is suspended, so
// each call while on break is one break second).
func (s *Scheduler) OnTick(elapsedSeconds int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateOnBreak:
		s.countDown()
	case StateStudying:
		s.checkBoundary(elapsedSeconds)
	}
}

func (s *Scheduler) checkBoundary(elapsedSeconds int) {
	interval := s.cfg.StudyDurationMinutes * 60
	if elapsedSeconds < s.lastBoundary+interval {
		return
	}
	s.lastBoundary = elapsedSeconds - elapsedSeconds%interval

	s.sessionCount++
	kind := types.BreakShort
	duration := s.cfg.ShortBreakMinutes * 60
	if s.sessionCount%s.cfg.SessionsBeforeLongBreak == 0 {
		kind = types.BreakLong
		duration = s.cfg.LongBreakMinutes * 60
	}

	s.state = StateOnBreak
	s.breakKind = kind
	s.secondsRemaining = duration

	if s.cbs.OnBreakStarted != nil {
		s.cbs.OnBreakStarted(kind, duration)
	}
}

func (s *Scheduler) countDown() {
	s.secondsRemaining--
	if s.secondsRemaining > 0 {
		return
	}
	s.secondsRemaining = 0
	s.state = StateStudying
	s.breakKind = ""

	if s.cbs.OnBreakEnded != nil {
		s.cbs.OnBreakEnded(false)
	}
}

// SkipBreak forces an immediate transition back to Studying
func (s *Scheduler) SkipBreak() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateOnBreak {
		return
	}
	s.secondsRemaining = 0
	s.state = StateStudying
	s.breakKind = ""

	if s.cbs.OnBreakEnded != nil {
		s.cbs.OnBreakEnded(true)
	}
}

// OnBreak reports whether a break is currently active
func (s *Scheduler) OnBreak() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateOnBreak
}

// Snapshot returns the current break state
func (s *Scheduler) Snapshot() types.BreakState {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := types.BreakShort
	if (s.sessionCount+1)%s.cfg.SessionsBeforeLongBreak == 0 {
		next = types.BreakLong
	}

	snap := types.BreakState{
		SessionCount:          s.sessionCount,
		IsBreakActive:         s.state == StateOnBreak,
		BreakSecondsRemaining: s.secondsRemaining,
		BreakKind:             s.breakKind,
		NextBreakKind:         next,
	}
	if snap.IsBreakActive {
		snap.BreakTimeFormatted = FormatBreakTime(s.secondsRemaining)
	}
	return snap
}

// ResetForSession prepares the scheduler for a new session. The
// completed-interval count survives for the rest of the run; only the
// break in progress and the boundary guard are cleared.
func (s *Scheduler) ResetForSession() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateStudying
	s.breakKind = ""
	s.secondsRemaining = 0
	s.lastBoundary = 0
}

// FormatBreakTime renders remaining break seconds as M:SS for display
func FormatBreakTime(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
