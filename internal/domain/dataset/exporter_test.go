package dataset

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studytrace/backend/internal/shared/types"
)

func samplePoints() []types.MLDataPoint {
	ts := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	return []types.MLDataPoint{
		{
			SessionID:         "sess_a",
			Timestamp:         ts,
			Subject:           "linear algebra",
			DurationMinutes:   45,
			TabSwitches:       3,
			KeystrokeRate:     14,
			MouseMovements:    820,
			InactivityPeriods: 1,
			ScrollActivity:    55,
			FocusLevel:        types.FocusAttentive,
		},
		{
			SessionID:         "sess_b",
			Timestamp:         ts.Add(2 * time.Hour),
			Subject:           "thermodynamics",
			DurationMinutes:   30,
			TabSwitches:       12,
			KeystrokeRate:     4,
			MouseMovements:    300,
			InactivityPeriods: 4,
			ScrollActivity:    20,
			FocusLevel:        types.FocusDistracted,
		},
	}
}

func TestExportEmptyDataset(t *testing.T) {
	_, err := ExportCSV(nil)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestExportHeaderAndComments(t *testing.T) {
	out, err := ExportCSV(samplePoints())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 4)

	var dataLines []string
	headerSeen := false
	for _, line := range lines {
		if strings.HasPrefix(line, "#") {
			assert.False(t, headerSeen, "comments must precede the header")
			continue
		}
		if !headerSeen {
			assert.Equal(t, strings.Join(Header, ","), line)
			headerSeen = true
			continue
		}
		dataLines = append(dataLines, line)
	}
	assert.Len(t, dataLines, 2)
}

func TestExportRoundTrip(t *testing.T) {
	points := samplePoints()
	out, err := ExportCSV(points)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	var rows [][]string
	for _, line := range lines {
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, Header[0]) {
			continue
		}
		rows = append(rows, strings.Split(line, ","))
	}
	require.Len(t, rows, len(points))

	col := make(map[string]int, len(Header))
	for i, name := range Header {
		col[name] = i
	}

	for i, row := range rows {
		require.Len(t, row, len(Header))

		dur, err := strconv.Atoi(row[col["duration_minutes"]])
		require.NoError(t, err)
		assert.Equal(t, points[i].DurationMinutes, dur)

		tabs, _ := strconv.Atoi(row[col["tab_switches"]])
		assert.Equal(t, points[i].TabSwitches, tabs)

		rate, _ := strconv.Atoi(row[col["keystroke_rate_per_minute"]])
		assert.Equal(t, points[i].KeystrokeRate, rate)

		moves, _ := strconv.Atoi(row[col["mouse_movements_total"]])
		assert.Equal(t, points[i].MouseMovements, moves)

		idle, _ := strconv.Atoi(row[col["inactivity_periods_count"]])
		assert.Equal(t, points[i].InactivityPeriods, idle)

		scroll, _ := strconv.Atoi(row[col["scroll_events_total"]])
		assert.Equal(t, points[i].ScrollActivity, scroll)

		assert.Equal(t, `"`+string(points[i].FocusLevel)+`"`, row[col["focus_classification"]])
		assert.Equal(t, `"`+points[i].Subject+`"`, row[col["subject"]])
	}
}

func TestProductivityScore(t *testing.T) {
	tests := []struct {
		name string
		dp   types.MLDataPoint
		want int
	}{
		{
			// 14*0.3 + 820*0.2 + 55*0.1 + (10-3)*0.4 = 4.2+164+5.5+2.8
			name: "typical",
			dp:   samplePoints()[0],
			want: 177,
		},
		{
			// tab switches clamp at 10
			name: "heavy switching",
			dp:   types.MLDataPoint{TabSwitches: 25},
			want: 0,
		},
		{
			name: "idle session",
			dp:   types.MLDataPoint{},
			want: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProductivityScore(tt.dp))
		})
	}
}
