package notify

import (
	"context"

	"github.com/wms/backend/internal/domain/booking"
	"github.com/wms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Announcer publishes an inventory-updated signal to the other instances
type Announcer interface {
	Announce(ctx context.Context, source string) error
}

// AnnounceHandler announces committed bookings and stock corrections on the
// shared inventory channel
type AnnounceHandler struct {
	announcer Announcer
	logger    *zap.Logger
}

// NewAnnounceHandler creates a new AnnounceHandler
func NewAnnounceHandler(announcer Announcer, logger *zap.Logger) *AnnounceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnnounceHandler{announcer: announcer, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *AnnounceHandler) EventTypes() []string {
	return []string{
		booking.EventTypeBatchSubmitted,
		booking.EventTypeStockCorrected,
	}
}

// Handle announces the inventory change behind a booking event
func (h *AnnounceHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if err := h.announcer.Announce(ctx, event.EventType()); err != nil {
		h.logger.Error("inventory announcement failed",
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// Ensure the bridge satisfies Announcer
var _ Announcer = (*InventoryBridge)(nil)
