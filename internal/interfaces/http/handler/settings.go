package handler

import (
	"github.com/gin-gonic/gin"
	settingsapp "github.com/wms/backend/internal/application/settings"
)

// SettingsHandler handles settings API endpoints
type SettingsHandler struct {
	BaseHandler
	service *settingsapp.Service
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(service *settingsapp.Service) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// GetTolerance returns the effective shortfall tolerance
func (h *SettingsHandler) GetTolerance(c *gin.Context) {
	resp, err := h.service.GetTolerance(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateTolerance persists a new shortfall tolerance
func (h *SettingsHandler) UpdateTolerance(c *gin.Context) {
	var req settingsapp.UpdateToleranceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.UpdateTolerance(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RegisterRoutes registers all settings routes
func (h *SettingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	settings := rg.Group("/settings")
	{
		settings.GET("/tolerance", h.GetTolerance)
		settings.PUT("/tolerance", h.UpdateTolerance)
	}
}
