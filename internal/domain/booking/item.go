package booking

import (
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
)

// Item is a source inventory line available to move out of a box or order.
// Its quantity is the system-of-record value and is mutated only through
// committed bookings or corrections.
type Item struct {
	ID          uuid.UUID
	ArticleOld  string
	ArticleNew  string
	Description string
	Quantity    int64
	SlotCodes   []string
	BoxNumber   string
	OrderNumber string
	UpdatedAt   time.Time
}

// NewItem creates a source item, rejecting negative system quantities
func NewItem(articleOld, articleNew, description string, quantity int64, slotCodes []string) (*Item, error) {
	if articleOld == "" && articleNew == "" {
		return nil, shared.NewDomainError("INVALID_ARTICLE", "Item requires at least one article code")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "System quantity cannot be negative")
	}
	return &Item{
		ID:          uuid.New(),
		ArticleOld:  articleOld,
		ArticleNew:  articleNew,
		Description: description,
		Quantity:    quantity,
		SlotCodes:   slotCodes,
		UpdatedAt:   time.Now(),
	}, nil
}

// SourceSlot returns the primary slot the item is picked from
func (i *Item) SourceSlot() string {
	if len(i.SlotCodes) == 0 {
		return ""
	}
	return i.SlotCodes[0]
}

// Reduce lowers the system quantity by a committed booking. The quantity
// never goes negative; an excess booking must first raise the system
// quantity via AdjustTo.
func (i *Item) Reduce(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Booked quantity must be positive")
	}
	if quantity > i.Quantity {
		return shared.ErrInsufficientStock
	}
	i.Quantity -= quantity
	i.UpdatedAt = time.Now()
	return nil
}

// AdjustTo sets the system quantity to a corrected value
func (i *Item) AdjustTo(quantity int64) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "System quantity cannot be negative")
	}
	i.Quantity = quantity
	i.UpdatedAt = time.Now()
	return nil
}
