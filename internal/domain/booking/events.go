package booking

import (
	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
)

// Aggregate type constant for booking sessions
const AggregateTypeBookingSession = "BookingSession"

// Booking event type constants
const (
	EventTypeSessionOpened    = "BookingSessionOpened"
	EventTypeItemBooked       = "BookingItemBooked"
	EventTypeBatchSubmitted   = "BookingBatchSubmitted"
	EventTypeStockCorrected   = "StockCorrected"
	EventTypeInventoryUpdated = "InventoryUpdated"
)

// SessionOpenedEvent is raised when a booking session starts for a batch
type SessionOpenedEvent struct {
	shared.BaseDomainEvent
	SessionID   uuid.UUID `json:"session_id"`
	BoxNumber   string    `json:"box_number,omitempty"`
	OrderNumber string    `json:"order_number,omitempty"`
	ItemCount   int       `json:"item_count"`
}

// NewSessionOpenedEvent creates a new SessionOpenedEvent
func NewSessionOpenedEvent(sessionID uuid.UUID, boxNumber, orderNumber string, itemCount int) *SessionOpenedEvent {
	return &SessionOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSessionOpened, AggregateTypeBookingSession, sessionID),
		SessionID:       sessionID,
		BoxNumber:       boxNumber,
		OrderNumber:     orderNumber,
		ItemCount:       itemCount,
	}
}

// EventType returns the event type name
func (e *SessionOpenedEvent) EventType() string {
	return EventTypeSessionOpened
}

// ItemBookedEvent is raised when one item's movement is committed in a session
type ItemBookedEvent struct {
	shared.BaseDomainEvent
	SessionID  uuid.UUID `json:"session_id"`
	BookingID  uuid.UUID `json:"booking_id"`
	ArticleOld string    `json:"article_old"`
	Quantity   int64     `json:"quantity"`
	TargetPath string    `json:"target_path"`
	Corrected  bool      `json:"corrected"`
}

// NewItemBookedEvent creates a new ItemBookedEvent
func NewItemBookedEvent(sessionID uuid.UUID, item *BookingItem) *ItemBookedEvent {
	return &ItemBookedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemBooked, AggregateTypeBookingSession, sessionID),
		SessionID:       sessionID,
		BookingID:       item.ID,
		ArticleOld:      item.ArticleOld,
		Quantity:        item.Quantity,
		TargetPath:      item.CompartmentPath(),
		Corrected:       item.HasCorrection(),
	}
}

// EventType returns the event type name
func (e *ItemBookedEvent) EventType() string {
	return EventTypeItemBooked
}

// BatchSubmittedEvent is raised when the accumulated batch reaches the
// external booking boundary
type BatchSubmittedEvent struct {
	shared.BaseDomainEvent
	SessionID     uuid.UUID `json:"session_id"`
	ItemCount     int       `json:"item_count"`
	TotalQuantity int64     `json:"total_quantity"`
	Partial       bool      `json:"partial"`
}

// NewBatchSubmittedEvent creates a new BatchSubmittedEvent
func NewBatchSubmittedEvent(sessionID uuid.UUID, items []BookingItem, partial bool) *BatchSubmittedEvent {
	var total int64
	for _, item := range items {
		total += item.Quantity
	}
	return &BatchSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchSubmitted, AggregateTypeBookingSession, sessionID),
		SessionID:       sessionID,
		ItemCount:       len(items),
		TotalQuantity:   total,
		Partial:         partial,
	}
}

// EventType returns the event type name
func (e *BatchSubmittedEvent) EventType() string {
	return EventTypeBatchSubmitted
}

// StockCorrectedEvent is raised when a discrepancy resolution adjusts the
// system-of-record quantity of a source item
type StockCorrectedEvent struct {
	shared.BaseDomainEvent
	SessionID   uuid.UUID        `json:"session_id"`
	ItemID      uuid.UUID        `json:"item_id"`
	ArticleOld  string           `json:"article_old"`
	Type        CorrectionType   `json:"correction_type"`
	Reason      CorrectionReason `json:"reason"`
	OldQuantity int64            `json:"old_quantity"`
	NewQuantity int64            `json:"new_quantity"`
}

// NewStockCorrectedEvent creates a new StockCorrectedEvent
func NewStockCorrectedEvent(sessionID uuid.UUID, item *Item, corr *Correction, oldQty, newQty int64) *StockCorrectedEvent {
	return &StockCorrectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockCorrected, AggregateTypeBookingSession, sessionID),
		SessionID:       sessionID,
		ItemID:          item.ID,
		ArticleOld:      item.ArticleOld,
		Type:            corr.Type,
		Reason:          corr.Reason,
		OldQuantity:     oldQty,
		NewQuantity:     newQty,
	}
}

// EventType returns the event type name
func (e *StockCorrectedEvent) EventType() string {
	return EventTypeStockCorrected
}

// InventoryUpdatedEvent signals that another session mutated the inventory;
// open sessions must re-fetch their source snapshot rather than merge
type InventoryUpdatedEvent struct {
	shared.BaseDomainEvent
	Source string `json:"source,omitempty"`
}

// NewInventoryUpdatedEvent creates a new InventoryUpdatedEvent
func NewInventoryUpdatedEvent(source string) *InventoryUpdatedEvent {
	return &InventoryUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInventoryUpdated, AggregateTypeBookingSession, uuid.Nil),
		Source:          source,
	}
}

// EventType returns the event type name
func (e *InventoryUpdatedEvent) EventType() string {
	return EventTypeInventoryUpdated
}
