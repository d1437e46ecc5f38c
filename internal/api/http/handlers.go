package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studytrace/backend/internal/domain/goals"
	"github.com/studytrace/backend/internal/domain/session"
	"github.com/studytrace/backend/internal/shared/types"
	"github.com/studytrace/backend/internal/storage"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	manager *session.Manager
	records *storage.Records
	goals   *goals.Tracker
}

// NewHandlers creates a new handler set
func NewHandlers(manager *session.Manager, records *storage.Records, goalTracker *goals.Tracker) *Handlers {
	return &Handlers{
		manager: manager,
		records: records,
		goals:   goalTracker,
	}
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "StudyTrace Engine",
		"version": "0.2.0",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"state":  h.manager.State(),
	})
}

// StartSessionRequest carries the subject for a new session
type StartSessionRequest struct {
	Subject string `json:"subject" binding:"required"`
}

// StartSession begins a new study session
func (h *Handlers) StartSession(c *gin.Context) {
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, err := h.manager.Start(req.Subject)
	if err != nil {
		if errors.Is(err, session.ErrAlreadyActive) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"session": sess,
	})
}

// StopSessionRequest optionally overrides the classifier's label
type StopSessionRequest struct {
	FocusLevel *types.FocusLevel `json:"focus_level"`
}

// StopSession ends the active session and persists its records.
// Sessions under the minimum duration are discarded; the response
// says so instead of failing.
func (h *Handlers) StopSession(c *gin.Context) {
	var req StopSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if req.FocusLevel != nil && !req.FocusLevel.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid focus level"})
		return
	}

	result, err := h.manager.Stop(req.FocusLevel)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNotActive):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, session.ErrPersist):
			// The session is closed; surface the write failure
			c.JSON(http.StatusOK, gin.H{
				"success":   false,
				"persisted": false,
				"record":    result.Record,
				"error":     result.WriteErr,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	resp := gin.H{
		"success":   true,
		"persisted": result.Persisted,
	}
	if result.Persisted {
		resp["record"] = result.Record
	}
	c.JSON(http.StatusOK, resp)
}

// DiscardSession drops the active session without persisting
func (h *Handlers) DiscardSession(c *gin.Context) {
	if err := h.manager.Discard(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SkipBreak ends an active break immediately
func (h *Handlers) SkipBreak(c *gin.Context) {
	h.manager.SkipBreak()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"state":   h.manager.State(),
	})
}

// GetSnapshot returns the live session view
func (h *Handlers) GetSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.manager.Snapshot())
}

// IngestSignalsRequest is a batch of passive interaction signals
type IngestSignalsRequest struct {
	Signals []types.Signal `json:"signals" binding:"required"`
}

// IngestSignals accepts a batch of interaction signals. Signals with
// unknown types fail the whole batch before any are applied.
func (h *Handlers) IngestSignals(c *gin.Context) {
	var req IngestSignalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for _, sig := range req.Signals {
		if err := sig.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	for _, sig := range req.Signals {
		if err := h.manager.HandleSignal(sig); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"accepted": len(req.Signals),
	})
}

// GetGoals reports daily goal progress
func (h *Handlers) GetGoals(c *gin.Context) {
	day := c.Query("date")
	if day == "" {
		day = today()
	}

	status, err := h.goals.Status(day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, status)
}

// PutGoalsRequest sets the daily study goal
type PutGoalsRequest struct {
	DailyGoalMinutes int `json:"daily_goal_minutes" binding:"required"`
}

// PutGoals updates the daily study goal
func (h *Handlers) PutGoals(c *gin.Context) {
	var req PutGoalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.goals.SetDailyGoal(req.DailyGoalMinutes); err != nil {
		if errors.Is(err, goals.ErrInvalidGoal) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
