// Package distraction keeps the per-session log of inferred
// non-engagement intervals. The log is append-only, scoped to one
// session, and cleared when the session ends or is discarded.
package distraction

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/studytrace/backend/internal/shared/types"
)

// Log is the append/query store for one session's distraction events.
// Ordering is arrival order, which is chronological by construction
// since events are recorded synchronously as they occur.
type Log struct {
	mu     sync.RWMutex
	events []types.DistractionEvent
}

// NewLog creates an empty log
func NewLog() *Log {
	return &Log{}
}

// Record appends one event. Events with unknown types are rejected.
func (l *Log) Record(eventType types.DistractionType, startedAt int64, durationMs int64) (types.DistractionEvent, error) {
	if !eventType.Valid() {
		return types.DistractionEvent{}, fmt.Errorf("unknown distraction type: %q", eventType)
	}

	evt := types.DistractionEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		StartedAt:  startedAt,
		DurationMs: durationMs,
	}

	l.mu.Lock()
	l.events = append(l.events, evt)
	l.mu.Unlock()

	return evt, nil
}

// All returns the events in arrival order
func (l *Log) All() []types.DistractionEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]types.DistractionEvent, len(l.events))
	copy(out, l.events)
	return out
}

// Count returns the number of recorded events
func (l *Log) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}

// TotalDurationMs sums the duration of all recorded events
func (l *Log) TotalDurationMs() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var total int64
	for _, evt := range l.events {
		total += evt.DurationMs
	}
	return total
}

// Reset clears the log for a new session
func (l *Log) Reset() {
	l.mu.Lock()
	l.events = nil
	l.mu.Unlock()
}
