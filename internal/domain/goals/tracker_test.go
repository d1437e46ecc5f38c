package goals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studytrace/backend/internal/storage"
)

func newTestTracker() *Tracker {
	return NewTracker(storage.NewRecords(storage.NewMemStore()))
}

func TestSetDailyGoal(t *testing.T) {
	tr := newTestTracker()

	require.NoError(t, tr.SetDailyGoal(120))

	status, err := tr.Status("2026-03-01")
	require.NoError(t, err)
	assert.Equal(t, 120, status.DailyGoalMinutes)
	assert.False(t, status.GoalMet)
}

func TestSetDailyGoalRejectsNonPositive(t *testing.T) {
	tr := newTestTracker()
	assert.ErrorIs(t, tr.SetDailyGoal(0), ErrInvalidGoal)
	assert.ErrorIs(t, tr.SetDailyGoal(-5), ErrInvalidGoal)
}

func TestRecordStudyAccumulates(t *testing.T) {
	tr := newTestTracker()
	require.NoError(t, tr.SetDailyGoal(60))

	require.NoError(t, tr.RecordStudy("2026-03-01", 25))
	require.NoError(t, tr.RecordStudy("2026-03-01", 40))

	status, err := tr.Status("2026-03-01")
	require.NoError(t, err)
	assert.Equal(t, 65, status.StudiedTodayMinutes)
	assert.True(t, status.GoalMet)
	assert.Equal(t, 1, status.CurrentStreak)
}

func TestStreakAdvancesOnConsecutiveDays(t *testing.T) {
	tr := newTestTracker()

	require.NoError(t, tr.RecordStudy("2026-03-01", 30))
	require.NoError(t, tr.RecordStudy("2026-03-02", 30))
	require.NoError(t, tr.RecordStudy("2026-03-03", 30))

	status, err := tr.Status("2026-03-03")
	require.NoError(t, err)
	assert.Equal(t, 3, status.CurrentStreak)
}

func TestStreakResetsAfterGap(t *testing.T) {
	tr := newTestTracker()

	require.NoError(t, tr.RecordStudy("2026-03-01", 30))
	require.NoError(t, tr.RecordStudy("2026-03-02", 30))
	require.NoError(t, tr.RecordStudy("2026-03-05", 30))

	status, err := tr.Status("2026-03-05")
	require.NoError(t, err)
	assert.Equal(t, 1, status.CurrentStreak)
}

func TestZeroMinutesIgnored(t *testing.T) {
	tr := newTestTracker()
	require.NoError(t, tr.RecordStudy("2026-03-01", 0))

	status, err := tr.Status("2026-03-01")
	require.NoError(t, err)
	assert.Zero(t, status.StudiedTodayMinutes)
	assert.Zero(t, status.CurrentStreak)
}
