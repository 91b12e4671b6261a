package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/booking"
)

// TareStore combines tare lookup with registration
type TareStore interface {
	booking.TareRegistry
	Register(ctx context.Context, binCode string, tareWeight decimal.Decimal) error
}

// TareHandler handles the container tare registry endpoints
type TareHandler struct {
	BaseHandler
	registry TareStore
}

// NewTareHandler creates a new TareHandler
func NewTareHandler(registry TareStore) *TareHandler {
	return &TareHandler{registry: registry}
}

// RegisterTareRequest registers the tare weight of a reusable container
type RegisterTareRequest struct {
	BinCode    string  `json:"bin_code" binding:"required,min=1,max=50"`
	TareWeight float64 `json:"tare_weight" binding:"required,gt=0"`
}

// TareResponse reports a registered container tare
type TareResponse struct {
	BinCode    string `json:"bin_code"`
	TareWeight string `json:"tare_weight"`
	Registered bool   `json:"registered"`
}

// Get returns the registered tare of one bin
func (h *TareHandler) Get(c *gin.Context) {
	binCode := c.Param("bin_code")

	tare, ok, err := h.registry.RegisteredTare(c.Request.Context(), binCode)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !ok {
		h.NotFound(c, "No registered tare for this bin")
		return
	}
	h.Success(c, TareResponse{
		BinCode:    binCode,
		TareWeight: tare.String(),
		Registered: true,
	})
}

// Register stores the tare weight of a container
func (h *TareHandler) Register(c *gin.Context) {
	var req RegisterTareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tare := toDecimal(req.TareWeight)
	if err := h.registry.Register(c.Request.Context(), req.BinCode, tare); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, TareResponse{
		BinCode:    req.BinCode,
		TareWeight: tare.String(),
		Registered: true,
	})
}

// RegisterRoutes registers all tare registry routes
func (h *TareHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tares := rg.Group("/tares")
	{
		tares.GET("/:bin_code", h.Get)
		tares.PUT("", h.Register)
	}
}
