package booking

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/booking"
	"github.com/wms/backend/internal/domain/history"
	"github.com/wms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SessionServiceConfig wires the collaborators of the orchestrator
type SessionServiceConfig struct {
	Source     booking.ItemSource
	Gateway    booking.Gateway
	Scale      booking.Scale
	Tares      booking.TareRegistry
	Settings   booking.SettingsStore
	Ledger     *history.Ledger
	History    history.Repository
	Events     shared.EventPublisher
	Notifier   booking.Notifier
	UnitWeight decimal.Decimal
	Logger     *zap.Logger
}

// SessionService drives the multi-item booking sequence: it resolves a
// quantity per item, reconciles it against the system quantity, persists the
// booking and advances to the next item or finalizes the batch.
type SessionService struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*session

	source      booking.ItemSource
	gateway     booking.Gateway
	scale       booking.Scale
	tares       booking.TareRegistry
	settings    booking.SettingsStore
	ledger      *history.Ledger
	historyRepo history.Repository
	events      shared.EventPublisher
	notifier    booking.Notifier
	unitWeight  decimal.Decimal
	logger      *zap.Logger
}

// NewSessionService creates a new SessionService
func NewSessionService(cfg SessionServiceConfig) *SessionService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	unitWeight := cfg.UnitWeight
	if !unitWeight.IsPositive() {
		unitWeight = decimal.NewFromFloat(0.2)
	}
	return &SessionService{
		sessions:    make(map[uuid.UUID]*session),
		source:      cfg.Source,
		gateway:     cfg.Gateway,
		scale:       cfg.Scale,
		tares:       cfg.Tares,
		settings:    cfg.Settings,
		ledger:      cfg.Ledger,
		historyRepo: cfg.History,
		events:      cfg.Events,
		notifier:    cfg.Notifier,
		unitWeight:  unitWeight,
		logger:      logger,
	}
}

// ===================== Session Lifecycle =====================

// Open fetches the source snapshot for exactly one box or order and starts a
// session with the cursor seeded at the first item.
func (s *SessionService) Open(ctx context.Context, req OpenSessionRequest) (*SessionResponse, error) {
	if (req.BoxNumber == "") == (req.OrderNumber == "") {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Exactly one of box number or order number must be given")
	}

	var (
		items []booking.Item
		err   error
	)
	if req.BoxNumber != "" {
		items, err = s.source.FetchByBox(ctx, req.BoxNumber)
	} else {
		items, err = s.source.FetchByOrder(ctx, req.OrderNumber)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching source items: %w", err)
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "No source items found for the selected box or order")
	}

	sess := newSession(req, items)

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.publish(ctx, booking.NewSessionOpenedEvent(sess.id, req.BoxNumber, req.OrderNumber, len(items)))
	s.logger.Info("booking session opened",
		zap.String("session_id", sess.id.String()),
		zap.Int("items", len(items)),
	)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.toResponse(), nil
}

// Get returns the current session state
func (s *SessionService) Get(_ context.Context, id uuid.UUID) (*SessionResponse, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.toResponse(), nil
}

// Cancel ends the session. Work already committed in this session is not
// discarded: a non-empty accumulator is submitted as the final batch.
func (s *SessionService) Cancel(ctx context.Context, id uuid.UUID) (*SessionResponse, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if sess.closed {
		defer sess.mu.Unlock()
		return sess.toResponse(), nil
	}
	if sess.submitting {
		sess.mu.Unlock()
		return nil, shared.NewDomainError("SUBMISSION_IN_FLIGHT", "A booking submission is already running")
	}
	if len(sess.booked) == 0 {
		sess.closed = true
		defer sess.mu.Unlock()
		return sess.toResponse(), nil
	}
	sess.mu.Unlock()

	if _, err := s.submit(ctx, sess, true); err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.toResponse(), nil
}

// ===================== Per-Item Input =====================

// SelectMode switches the quantity mode. Entering or leaving scale mode
// resets the weighing sub-machine.
func (s *SessionService) SelectMode(_ context.Context, id uuid.UUID, mode booking.QuantityMode) (*SessionResponse, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if !mode.IsValid() {
		return nil, shared.NewDomainError("INVALID_MODE", "Unknown quantity mode")
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := s.ensureOpen(sess); err != nil {
		return nil, err
	}
	if mode == booking.QuantityModeScale || sess.mode == booking.QuantityModeScale {
		sess.weighing.Reset()
	}
	sess.mode = mode
	return sess.toResponse(), nil
}

// SetManualQuantity records the operator-entered quantity for manual mode
func (s *SessionService) SetManualQuantity(_ context.Context, id uuid.UUID, quantity int64) (*SessionResponse, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := s.ensureOpen(sess); err != nil {
		return nil, err
	}
	sess.manualQuantity = quantity
	return sess.toResponse(), nil
}

// SetTargetSlots records the target compartment path for the current item
func (s *SessionService) SetTargetSlots(_ context.Context, id uuid.UUID, slots []string) (*SessionResponse, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if len(slots) > booking.MaxTargetSlots {
		return nil, shared.NewDomainError("INVALID_TARGET", "Target compartment path is too deep")
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := s.ensureOpen(sess); err != nil {
		return nil, err
	}
	sess.targetSlots = append(sess.targetSlots[:0], slots...)
	return sess.toResponse(), nil
}

// ===================== Confirm / Correction =====================

// Confirm resolves the quantity for the current item, reconciles it against
// the system quantity and either books it or raises a correction prompt.
// When the batch is complete it is submitted to the booking boundary.
//
// Calling Confirm again after a failed final submission retries that
// submission with the retained accumulator.
func (s *SessionService) Confirm(ctx context.Context, id uuid.UUID) (*ConfirmResult, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	settings, err := s.loadSettings(ctx)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if err := s.ensureOpen(sess); err != nil {
		sess.mu.Unlock()
		return nil, err
	}
	if sess.pending != nil {
		sess.mu.Unlock()
		return nil, shared.NewDomainError("CORRECTION_PENDING", "A correction prompt must be resolved first")
	}

	if sess.itemsExhausted() {
		hasBooked := len(sess.booked) > 0
		sess.mu.Unlock()
		if !hasBooked {
			return nil, shared.NewDomainError("INVALID_STATE", "No item left to confirm")
		}
		// Earlier final submission failed; retry it.
		return s.submit(ctx, sess, false)
	}

	item := sess.currentItem()
	if len(sess.targetSlots) == 0 || sess.targetSlots[0] == "" {
		sess.mu.Unlock()
		return nil, shared.NewDomainError("MISSING_TARGET", "First target compartment cannot be empty")
	}
	quantity := sess.resolveQuantity()
	if quantity <= 0 {
		sess.mu.Unlock()
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Resolved quantity must be positive")
	}

	rec := booking.Reconcile(quantity, item.Quantity, settings.Percentage)
	if rec.RequiresPrompt() {
		sess.pending = &pendingCorrection{
			reconciliation: rec,
			targets:        append([]string(nil), sess.targetSlots...),
		}
		prompt := toPromptResponse(rec)
		sess.mu.Unlock()
		return &ConfirmResult{Prompt: prompt}, nil
	}

	if rec.Decision == booking.DecisionBookPartialSilent {
		s.notify(ctx, booking.NoticeInfo, fmt.Sprintf(
			"Partial withdrawal: booked %d of %d for article %s", quantity, item.Quantity, item.ArticleOld))
	}

	return s.bookCurrent(ctx, sess, item, quantity, nil)
}

// ResolveCorrection applies the operator's decision to the pending prompt
// and books the suspended item.
func (s *SessionService) ResolveCorrection(ctx context.Context, id uuid.UUID, req ResolveCorrectionRequest) (*ConfirmResult, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if err := s.ensureOpen(sess); err != nil {
		sess.mu.Unlock()
		return nil, err
	}
	if sess.pending == nil {
		sess.mu.Unlock()
		return nil, shared.NewDomainError("NO_PROMPT", "No correction prompt is pending")
	}

	pend := sess.pending
	item := sess.currentItem()
	if item == nil {
		sess.mu.Unlock()
		return nil, shared.NewDomainError("INVALID_STATE", "No item left to correct")
	}
	rec := pend.reconciliation
	oldQuantity := item.Quantity

	var corr *booking.Correction
	switch rec.Decision {
	case booking.DecisionPromptExcess:
		if req.Action != CorrectionActionAdjust {
			sess.mu.Unlock()
			return nil, shared.NewDomainError("INVALID_ACTION", "An excess can only be resolved by adjusting")
		}
		corr, err = booking.NewCorrection(
			booking.CorrectionTypeExcess, booking.CorrectionReason(req.Reason),
			rec.Quantity-rec.SystemQuantity, req.Note)
	case booking.DecisionPromptShortage:
		switch req.Action {
		case CorrectionActionAdjust:
			corr, err = booking.NewCorrection(
				booking.CorrectionTypeShortage, booking.CorrectionReason(req.Reason),
				rec.SystemQuantity-rec.Quantity, req.Note)
		case CorrectionActionPartial:
			// Book untagged; the remainder stays on record as a later pick.
		default:
			sess.mu.Unlock()
			return nil, shared.NewDomainError("INVALID_ACTION", "Unknown correction action")
		}
	default:
		sess.mu.Unlock()
		return nil, shared.NewDomainError("INVALID_STATE", "Pending prompt has no resolvable decision")
	}
	if err != nil {
		sess.mu.Unlock()
		return nil, err
	}

	var corrected *booking.StockCorrectedEvent
	if corr != nil {
		// Adjust the system quantity first so the subsequent booking never
		// exceeds it.
		if err := item.AdjustTo(rec.Quantity); err != nil {
			sess.mu.Unlock()
			return nil, err
		}
		corrected = booking.NewStockCorrectedEvent(sess.id, item, corr, oldQuantity, rec.Quantity)
	}

	sess.targetSlots = append(sess.targetSlots[:0], pend.targets...)
	sess.pending = nil

	result, err := s.bookCurrent(ctx, sess, item, rec.Quantity, corr)
	if err != nil {
		return nil, err
	}
	if corrected != nil {
		s.publish(ctx, corrected)
	}
	return result, nil
}

// ===================== Weighing =====================

// ScanBin feeds the scanned bin into the weighing sub-machine, resolving its
// registered tare from the bin registry.
func (s *SessionService) ScanBin(ctx context.Context, id uuid.UUID, binCode string) (*SessionResponse, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	var registered *decimal.Decimal
	if binCode != "" {
		tare, ok, err := s.tares.RegisteredTare(ctx, binCode)
		if err != nil {
			return nil, fmt.Errorf("looking up bin tare: %w", err)
		}
		if ok {
			registered = &tare
		}
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := s.ensureScaleMode(sess); err != nil {
		return nil, err
	}
	if err := sess.weighing.ScanBin(binCode, registered); err != nil {
		return nil, err
	}
	return sess.toResponse(), nil
}

// SetTare records an operator-entered tare weight
func (s *SessionService) SetTare(_ context.Context, id uuid.UUID, weight decimal.Decimal) (*SessionResponse, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := s.ensureScaleMode(sess); err != nil {
		return nil, err
	}
	if err := sess.weighing.SetManualTare(weight); err != nil {
		return nil, err
	}
	return sess.toResponse(), nil
}

// MeasureTare measures the tare of an empty container on the scale. The
// measure control stays disabled while a measurement is suspended.
func (s *SessionService) MeasureTare(ctx context.Context, id uuid.UUID) (*SessionResponse, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if err := s.ensureScaleMode(sess); err != nil {
		sess.mu.Unlock()
		return nil, err
	}
	if sess.weighing.Step != booking.WeighingStepTara {
		sess.mu.Unlock()
		return nil, shared.NewDomainError("INVALID_STEP", "Tare can only be measured in the tara step")
	}
	if sess.tareMeasuring {
		sess.mu.Unlock()
		return nil, shared.NewDomainError("MEASUREMENT_IN_FLIGHT", "A measurement is already running")
	}
	sess.tareMeasuring = true
	sess.mu.Unlock()

	weight, err := s.scale.MeasureTare(ctx)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.tareMeasuring = false
	if err != nil {
		return nil, fmt.Errorf("measuring tare: %w", err)
	}
	if err := sess.weighing.SetManualTare(weight); err != nil {
		return nil, err
	}
	return sess.toResponse(), nil
}

// UseBinTare adopts the scanned bin's registered tare
func (s *SessionService) UseBinTare(_ context.Context, id uuid.UUID) (*SessionResponse, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := s.ensureScaleMode(sess); err != nil {
		return nil, err
	}
	if err := sess.weighing.UseRegisteredTare(); err != nil {
		return nil, err
	}
	return sess.toResponse(), nil
}

// Weigh performs the gross measurement and derives the candidate quantity.
// The weigh control stays disabled while the measurement is suspended.
func (s *SessionService) Weigh(ctx context.Context, id uuid.UUID) (*SessionResponse, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if err := s.ensureScaleMode(sess); err != nil {
		sess.mu.Unlock()
		return nil, err
	}
	if err := sess.weighing.BeginWeighing(); err != nil {
		sess.mu.Unlock()
		return nil, err
	}
	sess.mu.Unlock()

	gross, err := s.scale.MeasureGross(ctx)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err != nil {
		sess.weighing.AbortWeighing()
		return nil, fmt.Errorf("measuring gross weight: %w", err)
	}
	if err := sess.weighing.CompleteWeighing(gross, s.unitWeight); err != nil {
		return nil, err
	}
	return sess.toResponse(), nil
}

// AcceptWeighing commits the weighing candidate as the scale-mode quantity
func (s *SessionService) AcceptWeighing(_ context.Context, id uuid.UUID) (*SessionResponse, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := s.ensureScaleMode(sess); err != nil {
		return nil, err
	}
	if _, err := sess.weighing.Accept(); err != nil {
		return nil, err
	}
	return sess.toResponse(), nil
}

// WeighingBack steps the weighing sub-machine backwards
func (s *SessionService) WeighingBack(_ context.Context, id uuid.UUID) (*SessionResponse, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := s.ensureScaleMode(sess); err != nil {
		return nil, err
	}
	if err := sess.weighing.Back(); err != nil {
		return nil, err
	}
	return sess.toResponse(), nil
}

// ===================== Snapshot Refresh =====================

// RefreshSnapshots re-fetches the source snapshot of every open session
// after an inventory-updated signal. Items already booked in a session are
// not invalidated retroactively; only unprocessed items are refreshed.
func (s *SessionService) RefreshSnapshots(ctx context.Context) {
	s.mu.RLock()
	open := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		open = append(open, sess)
	}
	s.mu.RUnlock()

	refreshed := 0
	for _, sess := range open {
		sess.mu.Lock()
		closed := sess.closed
		sess.mu.Unlock()
		if closed {
			continue
		}

		var (
			items []booking.Item
			err   error
		)
		if sess.boxNumber != "" {
			items, err = s.source.FetchByBox(ctx, sess.boxNumber)
		} else {
			items, err = s.source.FetchByOrder(ctx, sess.orderNumber)
		}
		if err != nil {
			s.logger.Error("snapshot refresh failed",
				zap.String("session_id", sess.id.String()),
				zap.Error(err),
			)
			continue
		}

		sess.mu.Lock()
		if !sess.closed {
			for i := sess.cursor; i < len(sess.items); i++ {
				if fresh := matchItem(items, &sess.items[i]); fresh != nil {
					sess.items[i].Quantity = fresh.Quantity
					sess.items[i].SlotCodes = fresh.SlotCodes
				}
			}
			refreshed++
		}
		sess.mu.Unlock()
	}

	if refreshed > 0 {
		s.notify(ctx, booking.NoticeInfo, "Inventory was updated elsewhere; the item snapshot has been refreshed")
	}
}

// ===================== Internals =====================

func (s *SessionService) lookup(id uuid.UUID) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, shared.NewDomainError("SESSION_NOT_FOUND", "Booking session not found")
	}
	return sess, nil
}

// ensureOpen must be called with the session lock held
func (s *SessionService) ensureOpen(sess *session) error {
	if sess.closed {
		return shared.NewDomainError("SESSION_CLOSED", "Booking session is already closed")
	}
	if sess.submitting {
		return shared.NewDomainError("SUBMISSION_IN_FLIGHT", "A booking submission is already running")
	}
	return nil
}

// ensureScaleMode must be called with the session lock held
func (s *SessionService) ensureScaleMode(sess *session) error {
	if err := s.ensureOpen(sess); err != nil {
		return err
	}
	if sess.mode != booking.QuantityModeScale {
		return shared.NewDomainError("MODE_MISMATCH", "Weighing requires the scale quantity mode")
	}
	return nil
}

func (s *SessionService) loadSettings(ctx context.Context) (booking.ToleranceSettings, error) {
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return booking.ToleranceSettings{}, fmt.Errorf("loading tolerance settings: %w", err)
	}
	return settings, nil
}

// bookCurrent commits the current item and advances the session. It must be
// called with the session lock held and releases it.
func (s *SessionService) bookCurrent(ctx context.Context, sess *session, item *booking.Item, quantity int64, corr *booking.Correction) (*ConfirmResult, error) {
	booked, err := booking.NewBookingItem(item, quantity, sess.targetSlots, corr)
	if err != nil {
		sess.mu.Unlock()
		return nil, err
	}

	entry, err := history.NewEntryFromBooking(booked, sess.userName, item.SourceSlot())
	if err != nil {
		sess.mu.Unlock()
		return nil, err
	}
	stored := s.ledger.Add(*entry)
	if s.historyRepo != nil {
		if err := s.historyRepo.Append(ctx, &stored); err != nil {
			s.logger.Error("persisting history entry failed",
				zap.String("entry_id", stored.ID.String()),
				zap.Error(err),
			)
		}
	}

	sess.booked = append(sess.booked, *booked)
	sess.cursor++
	sess.resetItemState()
	final := sess.itemsExhausted()
	sess.mu.Unlock()

	s.publish(ctx, booking.NewItemBookedEvent(sess.id, booked))
	s.logger.Info("item booked",
		zap.String("session_id", sess.id.String()),
		zap.String("article", booked.ArticleOld),
		zap.Int64("quantity", booked.Quantity),
		zap.String("target", booked.CompartmentPath()),
	)

	if final {
		return s.submit(ctx, sess, false)
	}
	return &ConfirmResult{Booked: true}, nil
}

// submit sends the accumulated batch to the booking boundary. At most one
// submission is in flight per session; a failure retains the accumulator so
// the operator can retry.
func (s *SessionService) submit(ctx context.Context, sess *session, partial bool) (*ConfirmResult, error) {
	sess.mu.Lock()
	if sess.closed {
		sess.mu.Unlock()
		return &ConfirmResult{Booked: true, Completed: true}, nil
	}
	if sess.submitting {
		sess.mu.Unlock()
		return nil, shared.NewDomainError("SUBMISSION_IN_FLIGHT", "A booking submission is already running")
	}
	sess.submitting = true
	batch := append([]booking.BookingItem(nil), sess.booked...)
	sess.mu.Unlock()

	committed, err := s.gateway.BookItems(ctx, batch)

	sess.mu.Lock()
	sess.submitting = false
	if err != nil {
		sess.mu.Unlock()
		s.logger.Error("batch submission failed",
			zap.String("session_id", sess.id.String()),
			zap.Int("items", len(batch)),
			zap.Error(err),
		)
		s.notify(ctx, booking.NoticeError, "Booking the batch failed; the items are kept and can be submitted again")
		return nil, shared.NewDomainError("SUBMISSION_FAILED", "Submitting the booking batch failed")
	}

	for i := range committed {
		if item := sess.findItem(committed[i].SourceItemID); item != nil {
			if reduceErr := item.Reduce(committed[i].Quantity); reduceErr != nil {
				s.logger.Warn("snapshot reduction skipped",
					zap.String("article", committed[i].ArticleOld),
					zap.Error(reduceErr),
				)
			}
		}
	}
	sess.closed = true
	sess.mu.Unlock()

	s.publish(ctx, booking.NewBatchSubmittedEvent(sess.id, batch, partial))
	s.notify(ctx, booking.NoticeInfo, fmt.Sprintf("Batch booked: %d item(s)", len(batch)))
	return &ConfirmResult{Booked: true, Completed: true}, nil
}

func (s *SessionService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Error("publishing events failed", zap.Error(err))
	}
}

func (s *SessionService) notify(ctx context.Context, level booking.NoticeLevel, message string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, booking.Notice{Level: level, Message: message})
}

// matchItem finds the refreshed counterpart of a session item, first by ID,
// then by legacy article code
func matchItem(fresh []booking.Item, item *booking.Item) *booking.Item {
	for i := range fresh {
		if fresh[i].ID == item.ID {
			return &fresh[i]
		}
	}
	for i := range fresh {
		if fresh[i].ArticleOld != "" && fresh[i].ArticleOld == item.ArticleOld {
			return &fresh[i]
		}
	}
	return nil
}
