package booking

import (
	"sync"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/booking"
)

// pendingCorrection is a suspended item waiting for the operator to resolve
// a discrepancy prompt
type pendingCorrection struct {
	reconciliation booking.Reconciliation
	targets        []string
}

// session owns all mutable state of one booking batch. Every mutation goes
// through the service, which holds the session lock; the blocking boundaries
// (scale measurement, batch submission) release it and are guarded by
// in-flight flags instead.
type session struct {
	mu sync.Mutex

	id          uuid.UUID
	boxNumber   string
	orderNumber string
	userName    string

	items  []booking.Item
	cursor int

	mode           booking.QuantityMode
	manualQuantity int64
	targetSlots    []string
	weighing       *booking.WeighingState

	booked  []booking.BookingItem
	pending *pendingCorrection

	submitting    bool
	tareMeasuring bool
	closed        bool
}

func newSession(req OpenSessionRequest, items []booking.Item) *session {
	return &session{
		id:          uuid.New(),
		boxNumber:   req.BoxNumber,
		orderNumber: req.OrderNumber,
		userName:    req.UserName,
		items:       items,
		mode:        booking.QuantityModeAll,
		targetSlots: make([]string, 0, booking.MaxTargetSlots),
		weighing:    booking.NewWeighingState(),
		booked:      make([]booking.BookingItem, 0, len(items)),
	}
}

// currentItem returns the item under the cursor, nil when the batch is done
func (s *session) currentItem() *booking.Item {
	if s.cursor < 0 || s.cursor >= len(s.items) {
		return nil
	}
	return &s.items[s.cursor]
}

// itemsExhausted reports whether every item has been processed
func (s *session) itemsExhausted() bool {
	return s.cursor >= len(s.items)
}

// resetItemState clears the per-item transient fields when the cursor
// advances or the dialog state is re-seeded
func (s *session) resetItemState() {
	s.mode = booking.QuantityModeAll
	s.manualQuantity = 0
	s.targetSlots = s.targetSlots[:0]
	s.weighing.Reset()
	s.pending = nil
}

// resolveQuantity computes the quantity-to-book for the current item
func (s *session) resolveQuantity() int64 {
	return booking.ResolveQuantity(s.mode, s.currentItem(), s.weighing, s.manualQuantity)
}

// findItem locates a session item by ID
func (s *session) findItem(id uuid.UUID) *booking.Item {
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i]
		}
	}
	return nil
}

func (s *session) toResponse() *SessionResponse {
	resp := &SessionResponse{
		ID:             s.id,
		BoxNumber:      s.boxNumber,
		OrderNumber:    s.orderNumber,
		Cursor:         s.cursor,
		TotalItems:     len(s.items),
		CurrentItem:    toItemResponse(s.currentItem()),
		Mode:           s.mode.String(),
		ManualQuantity: s.manualQuantity,
		TargetSlots:    append([]string(nil), s.targetSlots...),
		Weighing:       toWeighingResponse(s.weighing),
		Booked:         toBookedItemResponses(s.booked),
		Groups:         toBookedGroupResponses(s.booked),
		Submitting:     s.submitting,
		Closed:         s.closed,
	}
	if s.pending != nil {
		resp.Prompt = toPromptResponse(s.pending.reconciliation)
	}
	return resp
}
