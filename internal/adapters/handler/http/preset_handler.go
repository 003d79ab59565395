package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gbocchetta/habitflow-engine/internal/core/domain"
)

// PresetHandler serves the built-in habit catalog used by clients to
// seed a first habit list.
type PresetHandler struct{}

func NewPresetHandler() *PresetHandler {
	return &PresetHandler{}
}

func (h *PresetHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/presets", h.List)
}

// List godoc
// @Summary  Built-in habit presets
// @Tags     presets
// @Produce  json
// @Success  200 {array} domain.PresetHabit
// @Security BearerAuth
// @Router   /presets [get]
func (h *PresetHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, domain.PresetHabits())
}
