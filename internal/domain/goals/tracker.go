// Package goals maintains the study-goal record: the daily goal in
// minutes, per-day studied totals and the current day streak.
package goals

import (
	"errors"
	"sync"
	"time"

	"github.com/studytrace/backend/internal/storage"
)

// ErrInvalidGoal is returned for non-positive goal values
var ErrInvalidGoal = errors.New("daily goal must be positive")

// Status is the dashboard view of goal progress
type Status struct {
	DailyGoalMinutes    int  `json:"daily_goal_minutes"`
	StudiedTodayMinutes int  `json:"studied_today_minutes"`
	CurrentStreak       int  `json:"current_streak"`
	GoalMet             bool `json:"goal_met"`
}

// Tracker updates and queries the persisted goal record
type Tracker struct {
	mu      sync.Mutex
	records *storage.Records
}

// NewTracker creates a tracker over the record store
func NewTracker(records *storage.Records) *Tracker {
	return &Tracker{records: records}
}

// SetDailyGoal persists a new daily goal in minutes
func (t *Tracker) SetDailyGoal(minutes int) error {
	if minutes <= 0 {
		return ErrInvalidGoal
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	g, err := t.records.LoadGoals()
	if err != nil {
		return err
	}
	g.DailyGoalMinutes = minutes
	return t.records.SaveGoals(g)
}

// RecordStudy credits minutes to the given day and advances the streak.
// Days are YYYY-MM-DD strings; consecutive study days extend the
// streak, a gap resets it to one.
func (t *Tracker) RecordStudy(day string, minutes int) error {
	if minutes <= 0 {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	g, err := t.records.LoadGoals()
	if err != nil {
		return err
	}

	g.StudiedByDate[day] += minutes

	switch g.LastStudyDate {
	case day:
		// Same day: streak unchanged
	case previousDay(day):
		g.CurrentStreak++
		g.LastStudyDate = day
	default:
		g.CurrentStreak = 1
		g.LastStudyDate = day
	}

	return t.records.SaveGoals(g)
}

// Status reports progress for the given day
func (t *Tracker) Status(day string) (Status, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	g, err := t.records.LoadGoals()
	if err != nil {
		return Status{}, err
	}

	studied := g.StudiedByDate[day]
	return Status{
		DailyGoalMinutes:    g.DailyGoalMinutes,
		StudiedTodayMinutes: studied,
		CurrentStreak:       g.CurrentStreak,
		GoalMet:             g.DailyGoalMinutes > 0 && studied >= g.DailyGoalMinutes,
	}, nil
}

func previousDay(day string) string {
	d, err := time.Parse("2006-01-02", day)
	if err != nil {
		return ""
	}
	return d.AddDate(0, 0, -1).Format("2006-01-02")
}
