package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	bookingapp "github.com/wms/backend/internal/application/booking"
	"github.com/wms/backend/internal/domain/booking"
)

// SessionHandler handles booking session API endpoints
type SessionHandler struct {
	BaseHandler
	service *bookingapp.SessionService
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(service *bookingapp.SessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

// SelectModeRequest picks how the booked quantity is resolved for the
// current item
type SelectModeRequest struct {
	Mode string `json:"mode" binding:"required,oneof=all scale manual"`
}

// SetQuantityRequest sets a manually entered quantity
type SetQuantityRequest struct {
	Quantity int64 `json:"quantity" binding:"required,min=1"`
}

// SetTargetsRequest names the target compartments of the current item
type SetTargetsRequest struct {
	Slots []string `json:"slots" binding:"required,min=1,max=4"`
}

// ScanBinRequest records the scanned container barcode
type ScanBinRequest struct {
	BinCode string `json:"bin_code"`
}

// SetTareRequest records an operator-entered tare weight in kilograms
type SetTareRequest struct {
	TareWeight float64 `json:"tare_weight" binding:"required,gt=0"`
}

func (h *SessionHandler) sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid session ID")
		return uuid.Nil, false
	}
	return id, true
}

// Open starts a booking session for the items of one box or one order
func (h *SessionHandler) Open(c *gin.Context) {
	var req bookingapp.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Open(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get returns the full session state
func (h *SessionHandler) Get(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	resp, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel ends the session, submitting any items already booked
func (h *SessionHandler) Cancel(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	resp, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SelectMode switches the quantity resolution mode of the current item
func (h *SessionHandler) SelectMode(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req SelectModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.SelectMode(c.Request.Context(), id, booking.QuantityMode(req.Mode))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetQuantity records a manually entered quantity
func (h *SessionHandler) SetQuantity(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.SetManualQuantity(c.Request.Context(), id, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetTargets records the target compartments of the current item
func (h *SessionHandler) SetTargets(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req SetTargetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.SetTargetSlots(c.Request.Context(), id, req.Slots)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Confirm books the current item, or raises a discrepancy prompt
func (h *SessionHandler) Confirm(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	result, err := h.service.Confirm(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ResolveCorrection answers a pending discrepancy prompt
func (h *SessionHandler) ResolveCorrection(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req bookingapp.ResolveCorrectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.ResolveCorrection(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ScanBin records the scanned container barcode
func (h *SessionHandler) ScanBin(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req ScanBinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.ScanBin(c.Request.Context(), id, req.BinCode)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetTare records a hand-entered tare weight
func (h *SessionHandler) SetTare(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req SetTareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.SetTare(c.Request.Context(), id, toDecimal(req.TareWeight))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// MeasureTare measures the tare of the empty container on the scale
func (h *SessionHandler) MeasureTare(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	resp, err := h.service.MeasureTare(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UseBinTare takes the registered tare of the scanned bin
func (h *SessionHandler) UseBinTare(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	resp, err := h.service.UseBinTare(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Weigh measures the gross weight and derives the candidate quantity
func (h *SessionHandler) Weigh(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	resp, err := h.service.Weigh(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AcceptWeighing takes the candidate quantity as the booked quantity
func (h *SessionHandler) AcceptWeighing(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	resp, err := h.service.AcceptWeighing(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// WeighingBack steps the scale workflow back one step
func (h *SessionHandler) WeighingBack(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	resp, err := h.service.WeighingBack(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RegisterRoutes registers all booking session routes
func (h *SessionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sessions := rg.Group("/booking/sessions")
	{
		sessions.POST("", h.Open)
		sessions.GET("/:id", h.Get)
		sessions.POST("/:id/cancel", h.Cancel)
		sessions.PUT("/:id/mode", h.SelectMode)
		sessions.PUT("/:id/quantity", h.SetQuantity)
		sessions.PUT("/:id/targets", h.SetTargets)
		sessions.POST("/:id/confirm", h.Confirm)
		sessions.POST("/:id/correction", h.ResolveCorrection)

		weighing := sessions.Group("/:id/weighing")
		{
			weighing.POST("/scan", h.ScanBin)
			weighing.PUT("/tare", h.SetTare)
			weighing.POST("/tare/measure", h.MeasureTare)
			weighing.POST("/tare/bin", h.UseBinTare)
			weighing.POST("/weigh", h.Weigh)
			weighing.POST("/accept", h.AcceptWeighing)
			weighing.POST("/back", h.WeighingBack)
		}
	}
}
