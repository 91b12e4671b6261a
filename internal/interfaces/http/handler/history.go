package handler

import (
	"github.com/gin-gonic/gin"
	historyapp "github.com/wms/backend/internal/application/history"
)

// HistoryHandler handles audit trail API endpoints
type HistoryHandler struct {
	BaseHandler
	service *historyapp.Service
}

// NewHistoryHandler creates a new HistoryHandler
func NewHistoryHandler(service *historyapp.Service) *HistoryHandler {
	return &HistoryHandler{service: service}
}

// List returns a page of the booking audit trail, newest first
func (h *HistoryHandler) List(c *gin.Context) {
	req := historyapp.ListRequest{Page: 1, PageSize: 20}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, resp.Entries, resp.Total, req.Page, req.PageSize)
}

// RegisterRoutes registers all history routes
func (h *HistoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/history", h.List)
}
