package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wms/backend/internal/infrastructure/notify"
	"go.uber.org/zap"
)

// SSEMessage represents a message sent to SSE clients
type SSEMessage struct {
	Event string
	Data  string
}

// NoticeStreamHandler streams operator notices over Server-Sent Events
type NoticeStreamHandler struct {
	BaseHandler
	hub       *notify.Hub
	logger    *zap.Logger
	heartbeat time.Duration
}

// NoticeStreamOption is a functional option for configuring the handler
type NoticeStreamOption func(*NoticeStreamHandler)

// WithStreamLogger sets the logger for the handler
func WithStreamLogger(logger *zap.Logger) NoticeStreamOption {
	return func(h *NoticeStreamHandler) {
		h.logger = logger
	}
}

// WithStreamHeartbeat sets the heartbeat interval
func WithStreamHeartbeat(interval time.Duration) NoticeStreamOption {
	return func(h *NoticeStreamHandler) {
		h.heartbeat = interval
	}
}

// NewNoticeStreamHandler creates a new SSE handler for operator notices
func NewNoticeStreamHandler(hub *notify.Hub, opts ...NoticeStreamOption) *NoticeStreamHandler {
	h := &NoticeStreamHandler{
		hub:       hub,
		logger:    zap.NewNop(),
		heartbeat: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Stream holds the connection open and pushes notices as they arrive
func (h *NoticeStreamHandler) Stream(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	notices, unsubscribe := h.hub.Subscribe()
	defer unsubscribe()

	h.logger.Debug("Notice stream client connected",
		zap.String("remote_addr", c.ClientIP()))

	h.sendEvent(c.Writer, SSEMessage{
		Event: "connected",
		Data:  fmt.Sprintf(`{"timestamp":%d}`, time.Now().Unix()),
	})
	c.Writer.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	reqCtx := c.Request.Context()
	for {
		select {
		case <-reqCtx.Done():
			h.logger.Debug("Notice stream client disconnected")
			return
		case <-ticker.C:
			h.sendEvent(c.Writer, SSEMessage{
				Event: "heartbeat",
				Data:  fmt.Sprintf(`{"timestamp":%d}`, time.Now().Unix()),
			})
			c.Writer.Flush()
		case notice, ok := <-notices:
			if !ok {
				return
			}
			data, err := json.Marshal(notice)
			if err != nil {
				h.logger.Error("Failed to marshal notice", zap.Error(err))
				continue
			}
			h.sendEvent(c.Writer, SSEMessage{
				Event: "notice",
				Data:  string(data),
			})
			c.Writer.Flush()
		}
	}
}

// sendEvent writes an SSE event to the response writer
func (h *NoticeStreamHandler) sendEvent(w io.Writer, msg SSEMessage) {
	if msg.Event != "" {
		fmt.Fprintf(w, "event: %s\n", msg.Event)
	}
	fmt.Fprintf(w, "data: %s\n\n", msg.Data)
}

// RegisterRoutes registers the notification stream route
func (h *NoticeStreamHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/notifications/stream", h.Stream)
}
