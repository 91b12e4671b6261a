package booking

import (
	"context"

	"github.com/wms/backend/internal/domain/booking"
	"github.com/wms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InventoryRefreshHandler refreshes the open sessions' item snapshots when
// inventory was changed outside the booking flow
type InventoryRefreshHandler struct {
	service *SessionService
	logger  *zap.Logger
}

// NewInventoryRefreshHandler creates a new InventoryRefreshHandler
func NewInventoryRefreshHandler(service *SessionService, logger *zap.Logger) *InventoryRefreshHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryRefreshHandler{service: service, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *InventoryRefreshHandler) EventTypes() []string {
	return []string{booking.EventTypeInventoryUpdated}
}

// Handle processes an inventory-updated event
func (h *InventoryRefreshHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	updated, ok := event.(*booking.InventoryUpdatedEvent)
	if !ok {
		return nil
	}
	h.logger.Debug("refreshing session snapshots",
		zap.String("source", updated.Source),
	)
	h.service.RefreshSnapshots(ctx)
	return nil
}
