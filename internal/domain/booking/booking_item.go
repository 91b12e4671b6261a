package booking

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
)

// Maximum depth of a target compartment path
const MaxTargetSlots = 4

// BookingItem is the record of one committed goods movement. It is immutable
// once created and is the append-only unit of the history ledger.
type BookingItem struct {
	ID           uuid.UUID
	SourceItemID uuid.UUID
	ArticleOld   string
	ArticleNew   string
	Description  string
	Quantity     int64
	TargetSlots  []string
	BoxNumber    string
	OrderNumber  string
	BookedAt     time.Time
	Correction   *Correction
}

// NewBookingItem mints a booking for a source item. Targets must name one to
// four compartment codes with a non-empty first compartment.
func NewBookingItem(item *Item, quantity int64, targetSlots []string, correction *Correction) (*BookingItem, error) {
	if item == nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Source item is required")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Booked quantity must be positive")
	}
	targets := trimTargets(targetSlots)
	if len(targets) == 0 {
		return nil, shared.NewDomainError("MISSING_TARGET", "First target compartment cannot be empty")
	}
	if len(targets) > MaxTargetSlots {
		return nil, shared.NewDomainError("INVALID_TARGET", "Target compartment path is too deep")
	}

	return &BookingItem{
		ID:           uuid.New(),
		SourceItemID: item.ID,
		ArticleOld:   item.ArticleOld,
		ArticleNew:   item.ArticleNew,
		Description:  item.Description,
		Quantity:     quantity,
		TargetSlots:  targets,
		BoxNumber:    item.BoxNumber,
		OrderNumber:  item.OrderNumber,
		BookedAt:     time.Now(),
		Correction:   correction,
	}, nil
}

// CompartmentPath joins the target compartment codes in order
func (b *BookingItem) CompartmentPath() string {
	return strings.Join(b.TargetSlots, "/")
}

// HasCorrection reports whether this booking resolved a discrepancy
func (b *BookingItem) HasCorrection() bool {
	return b.Correction != nil
}

// trimTargets drops empty trailing compartments and whitespace
func trimTargets(slots []string) []string {
	result := make([]string, 0, len(slots))
	for _, slot := range slots {
		slot = strings.TrimSpace(slot)
		if slot == "" {
			break
		}
		result = append(result, slot)
	}
	return result
}

// BookedGroup is the target-side summary row: bookings folded by article and
// box. This is a display-time aggregation, never a ledger mutation.
type BookedGroup struct {
	ArticleOld   string
	BoxNumber    string
	Description  string
	Quantity     int64
	TargetSlots  []string
	LastBookedAt time.Time
}

// GroupBookings folds committed bookings by (ArticleOld, BoxNumber):
// quantities sum, compartment lists union deduplicated, latest timestamp
// wins. Group order follows first appearance.
func GroupBookings(items []BookingItem) []BookedGroup {
	type key struct {
		article string
		box     string
	}

	index := make(map[key]int)
	groups := make([]BookedGroup, 0, len(items))

	for _, item := range items {
		k := key{article: item.ArticleOld, box: item.BoxNumber}
		pos, ok := index[k]
		if !ok {
			index[k] = len(groups)
			groups = append(groups, BookedGroup{
				ArticleOld:   item.ArticleOld,
				BoxNumber:    item.BoxNumber,
				Description:  item.Description,
				Quantity:     item.Quantity,
				TargetSlots:  append([]string(nil), item.TargetSlots...),
				LastBookedAt: item.BookedAt,
			})
			continue
		}

		group := &groups[pos]
		group.Quantity += item.Quantity
		for _, slot := range item.TargetSlots {
			if !containsSlot(group.TargetSlots, slot) {
				group.TargetSlots = append(group.TargetSlots, slot)
			}
		}
		if item.BookedAt.After(group.LastBookedAt) {
			group.LastBookedAt = item.BookedAt
		}
	}

	return groups
}

func containsSlot(slots []string, slot string) bool {
	for _, s := range slots {
		if s == slot {
			return true
		}
	}
	return false
}
