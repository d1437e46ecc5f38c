package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studytrace/backend/internal/domain/goals"
	"github.com/studytrace/backend/internal/events"
	"github.com/studytrace/backend/internal/shared/clock"
	"github.com/studytrace/backend/internal/shared/types"
	"github.com/studytrace/backend/internal/storage"
)

var testStart = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// testConfig disables the background ticker and sampler so every tick
// in a test is explicit
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.TickInterval = time.Hour
	cfg.Activity.SampleInterval = time.Hour
	return cfg
}

func newTestManager(t *testing.T) (*Manager, *clock.Fake, *storage.MemStore) {
	t.Helper()
	store := storage.NewMemStore()
	clk := clock.NewFake(testStart)
	m := NewManager(testConfig(), storage.NewRecords(store), events.NewBus(), nil).WithClock(clk)
	return m, clk, store
}

func TestStartWhileActive(t *testing.T) {
	m, _, _ := newTestManager(t)

	_, err := m.Start("math")
	require.NoError(t, err)

	_, err = m.Start("physics")
	assert.ErrorIs(t, err, ErrAlreadyActive)

	require.NoError(t, m.Discard())
}

func TestStopWhileIdle(t *testing.T) {
	m, _, _ := newTestManager(t)

	_, err := m.Stop(nil)
	assert.ErrorIs(t, err, ErrNotActive)
	assert.ErrorIs(t, m.Discard(), ErrNotActive)
}

func TestShortSessionDiscarded(t *testing.T) {
	m, clk, store := newTestManager(t)

	_, err := m.Start("math")
	require.NoError(t, err)

	clk.Advance(45 * time.Second)
	m.Tick()

	result, err := m.Stop(nil)
	require.NoError(t, err)
	assert.False(t, result.Persisted)
	assert.Nil(t, result.Record)
	assert.Equal(t, types.StateIdle, m.State())

	log, err := storage.NewRecords(store).SessionLog()
	require.NoError(t, err)
	assert.Empty(t, log)
}

func TestStopPersistsRecordAndDataPoint(t *testing.T) {
	m, clk, store := newTestManager(t)

	_, err := m.Start("math")
	require.NoError(t, err)

	for i := 0; i < 30; i++ {
		require.NoError(t, m.HandleSignal(types.Signal{Type: types.SignalKeyPress}))
	}
	for i := 0; i < 4; i++ {
		require.NoError(t, m.HandleSignal(types.Signal{Type: types.SignalPointerMove}))
	}
	require.NoError(t, m.HandleSignal(types.Signal{Type: types.SignalScroll}))
	require.NoError(t, m.HandleSignal(types.Signal{Type: types.SignalScroll}))

	// One brief tab-away, under the distraction minimum
	clk.Advance(100 * time.Second)
	require.NoError(t, m.HandleSignal(types.Signal{Type: types.SignalVisibility, Hidden: true}))
	clk.Advance(2 * time.Second)
	require.NoError(t, m.HandleSignal(types.Signal{Type: types.SignalVisibility, Hidden: false}))

	clk.Advance(198 * time.Second)
	m.Tick()

	result, err := m.Stop(nil)
	require.NoError(t, err)
	require.True(t, result.Persisted)
	require.NotNil(t, result.Record)
	require.NotNil(t, result.DataPoint)

	rec := result.Record
	assert.Equal(t, "math", rec.Subject)
	assert.Equal(t, "2026-03-01", rec.Date)
	assert.Equal(t, "09:00", rec.StartTime)
	assert.Equal(t, "09:05", rec.EndTime)
	assert.Equal(t, 5, rec.DurationMinutes)
	assert.Equal(t, 1, rec.TabSwitches)
	assert.Equal(t, 0, rec.Distractions)
	assert.Equal(t, 6, rec.KeystrokeRate)
	assert.Equal(t, 4, rec.MouseMovements)
	assert.Equal(t, 2, rec.ScrollActivity)
	assert.Equal(t, types.FocusAttentive, rec.FocusLevel)
	assert.Equal(t, 83, rec.FocusScore)

	records := storage.NewRecords(store)
	log, err := records.SessionLog()
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.Equal(t, rec.ID, log[0].ID)

	dataset, err := records.Dataset()
	require.NoError(t, err)
	require.Len(t, dataset, 1)
	assert.Equal(t, rec.ID, dataset[0].SessionID)
	assert.Equal(t, types.FocusAttentive, dataset[0].FocusLevel)
}

func TestStopWithManualOverride(t *testing.T) {
	m, clk, _ := newTestManager(t)

	_, err := m.Start("math")
	require.NoError(t, err)

	clk.Advance(10 * time.Minute)
	m.Tick()

	override := types.FocusDistracted
	result, err := m.Stop(&override)
	require.NoError(t, err)
	require.True(t, result.Persisted)
	assert.Equal(t, types.FocusDistracted, result.Record.FocusLevel)
}

func TestStopIgnoresInvalidOverride(t *testing.T) {
	m, clk, _ := newTestManager(t)

	_, err := m.Start("math")
	require.NoError(t, err)

	clk.Advance(10 * time.Minute)
	m.Tick()

	override := types.FocusLevel("bogus")
	result, err := m.Stop(&override)
	require.NoError(t, err)
	assert.Equal(t, types.FocusAttentive, result.Record.FocusLevel)
}

func TestPersistenceFailure(t *testing.T) {
	m, clk, store := newTestManager(t)

	_, err := m.Start("math")
	require.NoError(t, err)

	clk.Advance(10 * time.Minute)
	m.Tick()

	store.FailWrites = true
	result, err := m.Stop(nil)
	assert.ErrorIs(t, err, ErrPersist)
	assert.True(t, result.Persisted)
	assert.NotNil(t, result.Record)
	assert.NotEmpty(t, result.WriteErr)

	// The session is closed despite the failed write
	assert.Equal(t, types.StateIdle, m.State())
	store.FailWrites = false
	_, err = m.Start("physics")
	require.NoError(t, err)
	require.NoError(t, m.Discard())
}

func TestTabAwayRecordsDistraction(t *testing.T) {
	m, clk, _ := newTestManager(t)

	_, err := m.Start("math")
	require.NoError(t, err)

	clk.Advance(time.Minute)
	require.NoError(t, m.HandleSignal(types.Signal{Type: types.SignalVisibility, Hidden: true}))
	clk.Advance(15 * time.Second)
	require.NoError(t, m.HandleSignal(types.Signal{Type: types.SignalVisibility, Hidden: false}))

	snap := m.Snapshot()
	assert.Equal(t, 1, snap.Distractions)
	assert.Equal(t, int64(15000), snap.TotalDistractionMs)

	evts := m.Distractions()
	require.Len(t, evts, 1)
	assert.Equal(t, types.DistractionTabSwitch, evts[0].Type)
	assert.Equal(t, int64(15000), evts[0].DurationMs)

	require.NoError(t, m.Discard())
}

func TestNavigationRecordsDistraction(t *testing.T) {
	m, _, _ := newTestManager(t)

	_, err := m.Start("math")
	require.NoError(t, err)

	require.NoError(t, m.HandleSignal(types.Signal{Type: types.SignalNavigation}))
	require.NoError(t, m.HandleSignal(types.Signal{Type: types.SignalNavigation, Internal: true}))

	evts := m.Distractions()
	require.Len(t, evts, 2)
	assert.Equal(t, types.DistractionNavigation, evts[0].Type)
	assert.Equal(t, types.DistractionInternalNav, evts[1].Type)

	require.NoError(t, m.Discard())
}

func TestStopCreditsDailyGoal(t *testing.T) {
	store := storage.NewMemStore()
	records := storage.NewRecords(store)
	tracker := goals.NewTracker(records)
	clk := clock.NewFake(testStart)
	m := NewManager(testConfig(), records, events.NewBus(), nil).
		WithClock(clk).
		WithGoals(tracker)

	_, err := m.Start("math")
	require.NoError(t, err)

	clk.Advance(30 * time.Minute)
	result, err := m.Stop(nil)
	require.NoError(t, err)
	require.True(t, result.Persisted)

	status, err := tracker.Status("2026-03-01")
	require.NoError(t, err)
	assert.Equal(t, 30, status.StudiedTodayMinutes)
	assert.Equal(t, 1, status.CurrentStreak)
}

func TestDiscardedStopLeavesGoalUntouched(t *testing.T) {
	store := storage.NewMemStore()
	records := storage.NewRecords(store)
	tracker := goals.NewTracker(records)
	clk := clock.NewFake(testStart)
	m := NewManager(testConfig(), records, events.NewBus(), nil).
		WithClock(clk).
		WithGoals(tracker)

	_, err := m.Start("math")
	require.NoError(t, err)

	clk.Advance(30 * time.Second)
	result, err := m.Stop(nil)
	require.NoError(t, err)
	require.False(t, result.Persisted)

	status, err := tracker.Status("2026-03-01")
	require.NoError(t, err)
	assert.Zero(t, status.StudiedTodayMinutes)
	assert.Zero(t, status.CurrentStreak)
}

func TestStopDuringBreakExcludesBreakTime(t *testing.T) {
	m, clk, store := newTestManager(t)

	_, err := m.Start("math")
	require.NoError(t, err)

	clk.Advance(25 * time.Minute)
	m.Tick()
	require.Equal(t, types.StateOnBreak, m.State())

	// Wall time spent inside the break must not count as study time
	clk.Advance(4 * time.Minute)

	result, err := m.Stop(nil)
	require.NoError(t, err)
	require.True(t, result.Persisted)
	assert.Equal(t, 25, result.Record.DurationMinutes)
	assert.Equal(t, types.StateIdle, m.State())

	log, err := storage.NewRecords(store).SessionLog()
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.Equal(t, 25, log[0].DurationMinutes)
}

func TestBreakSuspendsElapsedTime(t *testing.T) {
	m, clk, _ := newTestManager(t)

	_, err := m.Start("math")
	require.NoError(t, err)

	// Cross the first study boundary
	clk.Advance(25 * time.Minute)
	m.Tick()
	assert.Equal(t, types.StateOnBreak, m.State())

	snap := m.Snapshot()
	assert.True(t, snap.Break.IsBreakActive)
	assert.Equal(t, types.BreakShort, snap.Break.BreakKind)
	assert.Equal(t, 1500, snap.Session.ElapsedSeconds)

	// Wall time on break does not count as study time
	clk.Advance(100 * time.Second)
	assert.Equal(t, 1500, m.Snapshot().Session.ElapsedSeconds)

	m.SkipBreak()
	assert.Equal(t, types.StateActive, m.State())

	clk.Advance(50 * time.Second)
	m.Tick()
	assert.Equal(t, 1550, m.Snapshot().Session.ElapsedSeconds)

	require.NoError(t, m.Discard())
}

func TestBreakSignalsPauseDistractionTracking(t *testing.T) {
	m, clk, _ := newTestManager(t)

	_, err := m.Start("math")
	require.NoError(t, err)

	clk.Advance(25 * time.Minute)
	m.Tick()
	require.Equal(t, types.StateOnBreak, m.State())

	require.NoError(t, m.HandleSignal(types.Signal{Type: types.SignalNavigation}))
	assert.Empty(t, m.Distractions())

	require.NoError(t, m.Discard())
}

func TestSnapshotWhileIdle(t *testing.T) {
	m, _, _ := newTestManager(t)

	snap := m.Snapshot()
	assert.Equal(t, types.StateIdle, snap.State)
	assert.Nil(t, snap.Session)
	assert.Equal(t, 100, snap.FocusScore)
}

func TestDiscardDropsEverything(t *testing.T) {
	m, clk, store := newTestManager(t)

	_, err := m.Start("math")
	require.NoError(t, err)

	clk.Advance(20 * time.Minute)
	m.Tick()

	require.NoError(t, m.Discard())
	assert.Equal(t, types.StateIdle, m.State())

	log, err := storage.NewRecords(store).SessionLog()
	require.NoError(t, err)
	assert.Empty(t, log)
}

func TestStopEventsPublished(t *testing.T) {
	store := storage.NewMemStore()
	clk := clock.NewFake(testStart)
	bus := events.NewBus()
	m := NewManager(testConfig(), storage.NewRecords(store), bus, nil).WithClock(clk)

	var seen []events.Type
	unsubscribe := bus.Subscribe(func(e events.Event) {
		seen = append(seen, e.Type)
	})
	defer unsubscribe()

	_, err := m.Start("math")
	require.NoError(t, err)

	clk.Advance(10 * time.Minute)
	m.Tick()

	_, err = m.Stop(nil)
	require.NoError(t, err)

	assert.Equal(t, []events.Type{events.SessionStarted, events.SessionStopped}, seen)
}
