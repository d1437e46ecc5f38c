package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studytrace/backend/internal/shared/types"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("alpha", []byte(`{"v":1}`)))

	data, ok, err := store.Get("alpha")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte(`{"v":1}`), data)

	keys, err := store.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, keys)

	require.NoError(t, store.Remove("alpha"))
	_, ok, err = store.Get("alpha")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStoreMissingKey(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, ok, err := store.Get("absent")
	require.NoError(t, err)
	assert.False(t, ok)

	// Removing a missing key is not an error
	assert.NoError(t, store.Remove("absent"))
}

func TestSessionLogInsertionOrder(t *testing.T) {
	recs := NewRecords(NewMemStore())

	for _, id := range []string{"sess_a", "sess_b", "sess_c"} {
		require.NoError(t, recs.AppendSessionLog(types.SessionLogRecord{
			ID:      id,
			Subject: "mathematics",
		}))
	}

	logs, err := recs.SessionLog()
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, "sess_a", logs[0].ID)
	assert.Equal(t, "sess_b", logs[1].ID)
	assert.Equal(t, "sess_c", logs[2].ID)
}

func TestDatasetSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewFileStore(dir)
	require.NoError(t, err)
	recs := NewRecords(store)

	dp := types.MLDataPoint{
		SessionID:       "sess_x",
		Timestamp:       time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Subject:         "physics",
		DurationMinutes: 30,
		KeystrokeRate:   12,
		FocusLevel:      types.FocusAttentive,
	}
	require.NoError(t, recs.AppendDataPoint(dp))

	// Reopen the store as a fresh process would
	reopened, err := NewFileStore(dir)
	require.NoError(t, err)

	points, err := NewRecords(reopened).Dataset()
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, dp.SessionID, points[0].SessionID)
	assert.Equal(t, dp.DurationMinutes, points[0].DurationMinutes)
	assert.Equal(t, dp.FocusLevel, points[0].FocusLevel)
}

func TestLoadGoalsDefaults(t *testing.T) {
	recs := NewRecords(NewMemStore())

	g, err := recs.LoadGoals()
	require.NoError(t, err)
	assert.NotNil(t, g.StudiedByDate)
	assert.Zero(t, g.DailyGoalMinutes)
	assert.Zero(t, g.CurrentStreak)
}

func TestUnknownSchemaVersionDefaults(t *testing.T) {
	store := NewMemStore()
	require.NoError(t, store.Set(KeySessionLog, []byte(`{"version":99,"data":[{"id":"old"}]}`)))

	logs, err := NewRecords(store).SessionLog()
	require.NoError(t, err)
	assert.Empty(t, logs)
}
