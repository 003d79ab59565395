package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gbocchetta/habitflow-engine/internal/adapters/handler/http/middleware"
	"github.com/gbocchetta/habitflow-engine/internal/core/dates"
	"github.com/gbocchetta/habitflow-engine/internal/core/domain"
	"github.com/gbocchetta/habitflow-engine/internal/core/services"
)

type StatsHandler struct {
	habitSvc *services.HabitService
	svc      *services.StatsService
}

func NewStatsHandler(habitSvc *services.HabitService, svc *services.StatsService) *StatsHandler {
	return &StatsHandler{
		habitSvc: habitSvc,
		svc:      svc,
	}
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	habits := r.Group("/habits")
	{
		habits.GET("/:id/stats", h.GetSummary)
		habits.GET("/:id/stats/checkbox", h.GetCheckboxStats)
		habits.GET("/:id/stats/counter", h.GetCounterStats)
	}
}

// evaluationDate resolves the optional ?date= override. Statistics are
// computed as of this day; default is the server's local today.
func evaluationDate(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return dates.Truncate(time.Now()), true
	}

	day, err := dates.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return day, true
}

// resolveHabit enforces existence and ownership before computing
// anything, so clients see 404 rather than zero-valued stats for ids
// that do not exist or belong to someone else.
func (h *StatsHandler) resolveHabit(c *gin.Context) (string, string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return "", "", false
	}

	id := c.Param("id")
	if _, err := h.habitSvc.GetByID(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, domain.ErrHabitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
			return "", "", false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return "", "", false
	}

	return id, userID, true
}

// GetSummary godoc
// @Summary  Aggregate completion summary for a habit
// @Tags     stats
// @Produce  json
// @Param    id   path  string true  "Habit ID"
// @Param    date query string false "Evaluation day (YYYY-MM-DD)"
// @Success  200 {object} domain.HabitSummary
// @Security BearerAuth
// @Router   /habits/{id}/stats [get]
func (h *StatsHandler) GetSummary(c *gin.Context) {
	id, userID, ok := h.resolveHabit(c)
	if !ok {
		return
	}

	today, ok := evaluationDate(c)
	if !ok {
		return
	}

	summary, err := h.svc.GetHabitSummary(c.Request.Context(), id, userID, today)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute statistics"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetCheckboxStats godoc
// @Summary  Checkbox statistics for a habit
// @Tags     stats
// @Produce  json
// @Param    id   path  string true  "Habit ID"
// @Param    date query string false "Evaluation day (YYYY-MM-DD)"
// @Success  200 {object} domain.CheckboxStats
// @Security BearerAuth
// @Router   /habits/{id}/stats/checkbox [get]
func (h *StatsHandler) GetCheckboxStats(c *gin.Context) {
	id, userID, ok := h.resolveHabit(c)
	if !ok {
		return
	}

	today, ok := evaluationDate(c)
	if !ok {
		return
	}

	result, err := h.svc.GetCheckboxStats(c.Request.Context(), id, userID, today)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute statistics"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCounterStats godoc
// @Summary  Counter statistics for a habit
// @Tags     stats
// @Produce  json
// @Param    id   path  string true  "Habit ID"
// @Param    date query string false "Evaluation day (YYYY-MM-DD)"
// @Success  200 {object} domain.CounterStats
// @Security BearerAuth
// @Router   /habits/{id}/stats/counter [get]
func (h *StatsHandler) GetCounterStats(c *gin.Context) {
	id, userID, ok := h.resolveHabit(c)
	if !ok {
		return
	}

	today, ok := evaluationDate(c)
	if !ok {
		return
	}

	result, err := h.svc.GetCounterStats(c.Request.Context(), id, userID, today)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute statistics"})
		return
	}

	c.JSON(http.StatusOK, result)
}
