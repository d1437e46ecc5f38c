package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studytrace/backend/internal/shared/types"
)

// rangeCutoff maps a history range name to its inclusive start date
func rangeCutoff(name string, now time.Time) (time.Time, bool) {
	switch name {
	case "week":
		return now.AddDate(0, 0, -7), true
	case "month":
		return now.AddDate(0, -1, 0), true
	case "year":
		return now.AddDate(-1, 0, 0), true
	default:
		return time.Time{}, false
	}
}

func today() string {
	return time.Now().Format("2006-01-02")
}

// GetLogs returns the session history, newest last, optionally
// filtered to the past week, month or year via ?range=
func (h *Handlers) GetLogs(c *gin.Context) {
	log, ok := h.filteredLog(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessions": log,
		"count":    len(log),
	})
}

// LogStats aggregates the session history
type LogStats struct {
	TotalSessions     int            `json:"total_sessions"`
	TotalMinutes      int            `json:"total_minutes"`
	TotalDistractions int            `json:"total_distractions"`
	AverageFocusScore int            `json:"average_focus_score"`
	ByFocusLevel      map[string]int `json:"by_focus_level"`
}

// GetLogStats returns aggregate statistics over the session history,
// honoring the same ?range= filter as GetLogs
func (h *Handlers) GetLogStats(c *gin.Context) {
	log, ok := h.filteredLog(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, computeStats(log))
}

// filteredLog loads the session log and applies the ?range= query.
// On failure it writes the error response and returns ok=false.
func (h *Handlers) filteredLog(c *gin.Context) ([]types.SessionLogRecord, bool) {
	log, err := h.records.SessionLog()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}

	rangeName := c.Query("range")
	if rangeName == "" || rangeName == "all" {
		return log, true
	}

	cutoff, ok := rangeCutoff(rangeName, time.Now())
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown range, expected week, month or year"})
		return nil, false
	}
	return filterSince(log, cutoff), true
}

func filterSince(log []types.SessionLogRecord, cutoff time.Time) []types.SessionLogRecord {
	day := cutoff.Format("2006-01-02")
	out := make([]types.SessionLogRecord, 0, len(log))
	for _, rec := range log {
		if rec.Date >= day {
			out = append(out, rec)
		}
	}
	return out
}

func computeStats(log []types.SessionLogRecord) LogStats {
	stats := LogStats{ByFocusLevel: make(map[string]int)}

	scoreSum := 0
	for _, rec := range log {
		stats.TotalSessions++
		stats.TotalMinutes += rec.DurationMinutes
		stats.TotalDistractions += rec.Distractions
		stats.ByFocusLevel[string(rec.FocusLevel)]++
		scoreSum += rec.FocusScore
	}
	if stats.TotalSessions > 0 {
		stats.AverageFocusScore = scoreSum / stats.TotalSessions
	}
	return stats
}
