// Package dataset serializes the accumulated set of completed sessions
// into a flat tabular text format for offline analysis.
package dataset

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/studytrace/backend/internal/shared/types"
)

// ErrNoData is returned when no completed sessions exist to export
var ErrNoData = errors.New("no session data to export")

// Header is the fixed CSV column order
var Header = []string{
	"session_id",
	"timestamp",
	"subject",
	"duration_minutes",
	"tab_switches",
	"keystroke_rate_per_minute",
	"mouse_movements_total",
	"inactivity_periods_count",
	"scroll_events_total",
	"focus_classification",
	"productivity_score",
}

// ProductivityScore derives the per-row productivity feature from the
// collected counters
func ProductivityScore(dp types.MLDataPoint) int {
	tabs := dp.TabSwitches
	if tabs > 10 {
		tabs = 10
	}
	score := float64(dp.KeystrokeRate)*0.3 +
		float64(dp.MouseMovements)*0.2 +
		float64(dp.ScrollActivity)*0.1 +
		float64(10-tabs)*0.4
	return int(math.Round(score))
}

// ExportCSV renders all data points as UTF-8 comma-separated text in
// persisted insertion order. Text fields are quoted, numeric fields are
// not. Returns ErrNoData when the dataset is empty.
func ExportCSV(points []types.MLDataPoint) (string, error) {
	if len(points) == 0 {
		return "", ErrNoData
	}

	var b strings.Builder
	b.WriteString("# studytrace session dataset\n")
	b.WriteString("# one row per completed study session, insertion order = completion order\n")
	b.WriteString(strings.Join(Header, ","))
	b.WriteByte('\n')

	for _, dp := range points {
		row := []string{
			quote(dp.SessionID),
			quote(dp.Timestamp.UTC().Format(time.RFC3339)),
			quote(dp.Subject),
			strconv.Itoa(dp.DurationMinutes),
			strconv.Itoa(dp.TabSwitches),
			strconv.Itoa(dp.KeystrokeRate),
			strconv.Itoa(dp.MouseMovements),
			strconv.Itoa(dp.InactivityPeriods),
			strconv.Itoa(dp.ScrollActivity),
			quote(string(dp.FocusLevel)),
			strconv.Itoa(ProductivityScore(dp)),
		}
		b.WriteString(strings.Join(row, ","))
		b.WriteByte('\n')
	}

	return b.String(), nil
}

// quote wraps a text field in double quotes, doubling any embedded quotes
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
