package distraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studytrace/backend/internal/shared/types"
)

func TestRecordPreservesOrder(t *testing.T) {
	log := NewLog()

	_, err := log.Record(types.DistractionTabSwitch, 1000, 12_000)
	require.NoError(t, err)
	_, err = log.Record(types.DistractionInternalNav, 20_000, 0)
	require.NoError(t, err)
	_, err = log.Record(types.DistractionTabSwitch, 30_000, 8_000)
	require.NoError(t, err)

	events := log.All()
	require.Len(t, events, 3)
	assert.Equal(t, types.DistractionTabSwitch, events[0].Type)
	assert.Equal(t, types.DistractionInternalNav, events[1].Type)
	assert.Equal(t, int64(30_000), events[2].StartedAt)
}

func TestRejectsUnknownType(t *testing.T) {
	log := NewLog()

	_, err := log.Record(types.DistractionType("daydream"), 0, 0)
	assert.Error(t, err)
	assert.Zero(t, log.Count())
}

func TestTotalDurationMs(t *testing.T) {
	log := NewLog()

	log.Record(types.DistractionTabSwitch, 0, 15_000)
	log.Record(types.DistractionNavigation, 100, 0) // instantaneous
	log.Record(types.DistractionTabSwitch, 200, 5_000)

	assert.Equal(t, int64(20_000), log.TotalDurationMs())
}

func TestReset(t *testing.T) {
	log := NewLog()
	log.Record(types.DistractionTabSwitch, 0, 10_000)

	log.Reset()

	assert.Zero(t, log.Count())
	assert.Zero(t, log.TotalDurationMs())
	assert.Empty(t, log.All())
}

func TestEventIDsAssigned(t *testing.T) {
	log := NewLog()

	evt, err := log.Record(types.DistractionTabSwitch, 0, 10_000)
	require.NoError(t, err)
	assert.NotEmpty(t, evt.ID)

	other, _ := log.Record(types.DistractionTabSwitch, 0, 10_000)
	assert.NotEqual(t, evt.ID, other.ID)
}
