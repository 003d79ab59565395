package http

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gbocchetta/habitflow-engine/internal/adapters/handler/http/middleware"
	"github.com/gbocchetta/habitflow-engine/internal/core/dates"
	"github.com/gbocchetta/habitflow-engine/internal/core/domain"
	"github.com/gbocchetta/habitflow-engine/internal/core/services"
)

type CompletionHandler struct {
	svc *services.CompletionService
}

func NewCompletionHandler(svc *services.CompletionService) *CompletionHandler {
	return &CompletionHandler{
		svc: svc,
	}
}

type toggleRequest struct {
	HabitID string `json:"habit_id" binding:"required"`
	Date    string `json:"date" binding:"required"`
}

type setCountRequest struct {
	HabitID string `json:"habit_id" binding:"required"`
	Date    string `json:"date" binding:"required"`
	Count   int    `json:"count"`
}

func (h *CompletionHandler) RegisterRoutes(router *gin.RouterGroup) {
	completions := router.Group("/completions")
	{
		completions.POST("/toggle", h.Toggle)
		completions.POST("/count", h.SetCount)
		completions.GET("", h.ListByHabit)
		completions.GET("/status", h.Status)
		completions.GET("/sync", h.Sync)
		completions.DELETE("/:id", h.Delete)
	}
}

// Toggle godoc
// @Summary  Toggle the checkbox state for a habit on a day
// @Tags     completions
// @Accept   json
// @Produce  json
// @Param    body body toggleRequest true "Habit and day (YYYY-MM-DD)"
// @Success  200 {object} domain.Completion
// @Security BearerAuth
// @Router   /completions/toggle [post]
func (h *CompletionHandler) Toggle(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	day, err := dates.Parse(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, use YYYY-MM-DD"})
		return
	}

	record, err := h.svc.Toggle(c.Request.Context(), req.HabitID, userID, day)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// SetCount godoc
// @Summary  Set the numeric count for a habit on a day
// @Tags     completions
// @Accept   json
// @Produce  json
// @Param    body body setCountRequest true "Habit, day (YYYY-MM-DD) and count"
// @Success  200 {object} domain.Completion
// @Security BearerAuth
// @Router   /completions/count [post]
func (h *CompletionHandler) SetCount(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req setCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	day, err := dates.Parse(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, use YYYY-MM-DD"})
		return
	}

	record, err := h.svc.SetCount(c.Request.Context(), req.HabitID, userID, day, req.Count)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// Status godoc
// @Summary  Completion flag and count for a habit on a single day
// @Tags     completions
// @Produce  json
// @Param    habit_id query string true "Habit ID"
// @Param    date     query string true "Day (YYYY-MM-DD)"
// @Success  200 {object} services.DayStatus
// @Security BearerAuth
// @Router   /completions/status [get]
func (h *CompletionHandler) Status(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	habitID := c.Query("habit_id")
	if habitID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "habit_id is required"})
		return
	}

	day, err := dates.Parse(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, use YYYY-MM-DD"})
		return
	}

	status, err := h.svc.Status(c.Request.Context(), habitID, userID, day)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// ListByHabit godoc
// @Summary  Completion records for a habit in a day range
// @Tags     completions
// @Produce  json
// @Param    habit_id query string true  "Habit ID"
// @Param    from     query string false "Range start (YYYY-MM-DD), default 30 days ago"
// @Param    to       query string false "Range end (YYYY-MM-DD), default today"
// @Success  200 {array} domain.Completion
// @Security BearerAuth
// @Router   /completions [get]
func (h *CompletionHandler) ListByHabit(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	habitID := c.Query("habit_id")
	if habitID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "habit_id is required"})
		return
	}

	to := dates.Truncate(time.Now())
	from := to.AddDate(0, 0, -30)

	if t := c.Query("to"); t != "" {
		parsed, err := dates.Parse(t)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date, use YYYY-MM-DD"})
			return
		}
		to = parsed
	}
	if f := c.Query("from"); f != "" {
		parsed, err := dates.Parse(f)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date, use YYYY-MM-DD"})
			return
		}
		from = parsed
	}

	list, err := h.svc.ListByHabitID(c.Request.Context(), habitID, userID, from, to)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// Sync godoc
// @Summary  Completion deltas since a sync timestamp
// @Tags     completions
// @Produce  json
// @Param    since query string false "RFC3339 timestamp"
// @Security BearerAuth
// @Router   /completions/sync [get]
func (h *CompletionHandler) Sync(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	sinceStr := c.Query("since")
	var since time.Time

	if sinceStr != "" {
		var err error
		since, err = time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format (use RFC3339)"})
			return
		}
	}

	changes, err := h.svc.GetDelta(c.Request.Context(), userID, since)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"changes":   changes,
		"timestamp": time.Now().UTC(),
	})
}

// Delete godoc
// @Summary  Delete a completion record
// @Tags     completions
// @Param    id path string true "Completion ID"
// @Security BearerAuth
// @Router   /completions/{id} [delete]
func (h *CompletionHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized access"})

	case errors.Is(err, domain.ErrCompletionNotFound) || errors.Is(err, domain.ErrHabitNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})

	case errors.Is(err, domain.ErrCompletionConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "version conflict",
			"message": "data has been modified elsewhere, please sync",
		})

	case errors.Is(err, domain.ErrNegativeCount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	default:
		log.Printf("[ERROR] Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)

		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
