package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"focusflow/internal/domain"
	"focusflow/internal/repository"
)

type StartSessionRequest struct {
	TimerType       string `json:"timer_type" binding:"required,oneof=focus short_break long_break"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,min=1,max=240"`
}

// StartSession records a new Pomodoro timer run.
func (h *Handler) StartSession(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "timer_type and duration_minutes are required"})
		return
	}

	session := &domain.FocusSession{
		UserID:          userID,
		TimerType:       domain.TimerType(req.TimerType),
		DurationMinutes: req.DurationMinutes,
	}
	if err := repository.NewSessionRepository(h.DB).Create(c.Request.Context(), session); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start session"})
		return
	}
	c.JSON(http.StatusCreated, session)
}

// CompleteSession finishes the timer; focus runs feed the progression
// pipeline, breaks only record completion.
func (h *Handler) CompleteSession(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	sessionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}

	result, err := h.Progression.CompleteFocusSession(c.Request.Context(), userID, sessionID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) ListSessions(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	sessions, err := repository.NewSessionRepository(h.DB).ListByUser(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list sessions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}
