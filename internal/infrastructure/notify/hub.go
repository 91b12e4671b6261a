package notify

import (
	"context"
	"sync"

	"github.com/wms/backend/internal/domain/booking"
	"go.uber.org/zap"
)

// Hub fans operator notices out to all connected listeners. Delivery is
// non-blocking: a listener that cannot keep up loses notices instead of
// stalling the booking flow.
type Hub struct {
	mu        sync.RWMutex
	listeners map[chan booking.Notice]struct{}
	logger    *zap.Logger
}

// NewHub creates a new notice hub
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		listeners: make(map[chan booking.Notice]struct{}),
		logger:    logger,
	}
}

// Notify implements booking.Notifier
func (h *Hub) Notify(_ context.Context, notice booking.Notice) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.listeners {
		select {
		case ch <- notice:
		default:
			h.logger.Warn("notice dropped for slow listener",
				zap.String("level", string(notice.Level)),
			)
		}
	}
}

// Subscribe registers a listener and returns its channel plus a function
// that removes it again
func (h *Hub) Subscribe() (<-chan booking.Notice, func()) {
	ch := make(chan booking.Notice, 16)

	h.mu.Lock()
	h.listeners[ch] = struct{}{}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		delete(h.listeners, ch)
		h.mu.Unlock()
		close(ch)
	}
}

// ListenerCount reports the number of connected listeners
func (h *Hub) ListenerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}

// Ensure Hub implements booking.Notifier
var _ booking.Notifier = (*Hub)(nil)
