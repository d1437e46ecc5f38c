package storage

import (
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/studytrace/backend/internal/shared/types"
)

// Named records in the store. The break state is deliberately absent:
// it is ephemeral and lives only in the scheduler.
const (
	KeySessionLog = "session_log"
	KeyDataset    = "ml_dataset"
	KeyGoals      = "goals"
)

// schemaVersion is bumped when a record layout changes incompatibly.
// Loads tolerate older or missing envelopes by defaulting to empty.
const schemaVersion = 1

type envelope[T any] struct {
	Version int `json:"version"`
	Data    T   `json:"data"`
}

// Goals holds the study-goal record maintained across sessions
type Goals struct {
	DailyGoalMinutes int            `json:"daily_goal_minutes"`
	StudiedByDate    map[string]int `json:"studied_by_date"` // YYYY-MM-DD -> minutes
	CurrentStreak    int            `json:"current_streak"`
	LastStudyDate    string         `json:"last_study_date"`
}

// Records wraps a Store with the engine's typed collections
type Records struct {
	store Store
}

// NewRecords creates the typed record layer over a store
func NewRecords(store Store) *Records {
	return &Records{store: store}
}

// AppendSessionLog appends one completed-session record.
// Insertion order is completion order and is preserved across restarts.
func (r *Records) AppendSessionLog(rec types.SessionLogRecord) error {
	logs, err := r.SessionLog()
	if err != nil {
		return err
	}
	logs = append(logs, rec)
	return r.save(KeySessionLog, logs)
}

// SessionLog returns all persisted session-log records in completion order
func (r *Records) SessionLog() ([]types.SessionLogRecord, error) {
	return load[[]types.SessionLogRecord](r.store, KeySessionLog)
}

// AppendDataPoint appends one exported feature record
func (r *Records) AppendDataPoint(dp types.MLDataPoint) error {
	points, err := r.Dataset()
	if err != nil {
		return err
	}
	points = append(points, dp)
	return r.save(KeyDataset, points)
}

// Dataset returns all persisted feature records in completion order
func (r *Records) Dataset() ([]types.MLDataPoint, error) {
	return load[[]types.MLDataPoint](r.store, KeyDataset)
}

// LoadGoals returns the goal record, defaulting when absent
func (r *Records) LoadGoals() (Goals, error) {
	g, err := load[Goals](r.store, KeyGoals)
	if err != nil {
		return Goals{}, err
	}
	if g.StudiedByDate == nil {
		g.StudiedByDate = make(map[string]int)
	}
	return g, nil
}

// SaveGoals persists the goal record
func (r *Records) SaveGoals(g Goals) error {
	return r.save(KeyGoals, g)
}

func (r *Records) save(key string, data any) error {
	raw, err := sonic.Marshal(envelope[any]{Version: schemaVersion, Data: data})
	if err != nil {
		return fmt.Errorf("failed to marshal %q: %w", key, err)
	}
	return r.store.Set(key, raw)
}

// load reads and decodes a named record, returning the zero value when the
// key is missing or carries an unknown schema version
func load[T any](store Store, key string) (T, error) {
	var zero T

	raw, ok, err := store.Get(key)
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, nil
	}

	var env envelope[T]
	if err := sonic.Unmarshal(raw, &env); err != nil {
		return zero, fmt.Errorf("failed to unmarshal %q: %w", key, err)
	}
	if env.Version != schemaVersion {
		return zero, nil
	}
	return env.Data, nil
}
