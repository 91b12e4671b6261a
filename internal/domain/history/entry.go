package history

import (
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/booking"
	"github.com/wms/backend/internal/domain/shared"
)

// Entry is the persisted unit of the audit trail: one committed booking or
// inventory adjustment. Entries are immutable; corrections are recorded as
// new entries, never as mutations of prior ones.
type Entry struct {
	ID          uuid.UUID
	RecordedAt  time.Time
	UserName    string
	ArticleOld  string
	ArticleNew  string
	Description string
	Quantity    int64
	SourceSlot  string
	TargetSlot  string
	BoxNumber   string
	OrderNumber string
	Correction  *booking.Correction
}

// NewEntryFromBooking derives a ledger entry from a committed booking
func NewEntryFromBooking(item *booking.BookingItem, userName, sourceSlot string) (*Entry, error) {
	if item == nil {
		return nil, shared.NewDomainError("INVALID_BOOKING", "Booking item is required")
	}
	return &Entry{
		ID:          uuid.New(),
		RecordedAt:  item.BookedAt,
		UserName:    userName,
		ArticleOld:  item.ArticleOld,
		ArticleNew:  item.ArticleNew,
		Description: item.Description,
		Quantity:    item.Quantity,
		SourceSlot:  sourceSlot,
		TargetSlot:  item.CompartmentPath(),
		BoxNumber:   item.BoxNumber,
		OrderNumber: item.OrderNumber,
		Correction:  item.Correction,
	}, nil
}

// NewAdjustmentEntry records a direct inventory correction without a movement
func NewAdjustmentEntry(item *booking.Item, corr *booking.Correction, userName string) (*Entry, error) {
	if item == nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Source item is required")
	}
	if corr == nil {
		return nil, shared.NewDomainError("INVALID_CORRECTION", "Adjustment entries require a correction")
	}
	return &Entry{
		ID:          uuid.New(),
		RecordedAt:  time.Now(),
		UserName:    userName,
		ArticleOld:  item.ArticleOld,
		ArticleNew:  item.ArticleNew,
		Description: item.Description,
		Quantity:    corr.Amount,
		SourceSlot:  item.SourceSlot(),
		BoxNumber:   item.BoxNumber,
		OrderNumber: item.OrderNumber,
		Correction:  corr,
	}, nil
}
