package booking

import (
	"github.com/wms/backend/internal/domain/shared"
)

// CorrectionType classifies why a booked quantity differs from the system quantity
type CorrectionType string

const (
	CorrectionTypeExcess    CorrectionType = "excess"
	CorrectionTypeShortage  CorrectionType = "shortage"
	CorrectionTypeInventory CorrectionType = "inventory_correction"
)

// IsValid checks if the type is a valid CorrectionType
func (t CorrectionType) IsValid() bool {
	switch t {
	case CorrectionTypeExcess, CorrectionTypeShortage, CorrectionTypeInventory:
		return true
	}
	return false
}

// String returns the string representation of CorrectionType
func (t CorrectionType) String() string {
	return string(t)
}

// CorrectionReason is the closed set of operator-selectable discrepancy reasons
type CorrectionReason string

const (
	// Positive reasons (stock turned out higher than recorded)
	ReasonAdditionalFound      CorrectionReason = "additional_found"
	ReasonWrongPreviousBooking CorrectionReason = "wrong_previous_booking"
	ReasonReturnFromRepair     CorrectionReason = "return_from_repair"
	ReasonOtherPositive        CorrectionReason = "other_positive"

	// Negative reasons (stock turned out lower than recorded)
	ReasonLoss                    CorrectionReason = "loss"
	ReasonDamagePaintRepairable   CorrectionReason = "damage_paint_repairable"
	ReasonDamagePaintIrreparable  CorrectionReason = "damage_paint_irrepairable"
	ReasonDamageBrokenRepairable  CorrectionReason = "damage_broken_repairable"
	ReasonDamageBrokenIrreparable CorrectionReason = "damage_broken_irrepairable"
	ReasonOtherNegative           CorrectionReason = "other_negative"
)

// PositiveReasons returns the reasons selectable for upward corrections.
// ReasonWrongPreviousBooking appears on both sides: a mis-booked movement can
// have inflated or deflated the recorded stock.
func PositiveReasons() []CorrectionReason {
	return []CorrectionReason{
		ReasonAdditionalFound,
		ReasonWrongPreviousBooking,
		ReasonReturnFromRepair,
		ReasonOtherPositive,
	}
}

// NegativeReasons returns the reasons selectable for downward corrections
func NegativeReasons() []CorrectionReason {
	return []CorrectionReason{
		ReasonLoss,
		ReasonWrongPreviousBooking,
		ReasonDamagePaintRepairable,
		ReasonDamagePaintIrreparable,
		ReasonDamageBrokenRepairable,
		ReasonDamageBrokenIrreparable,
		ReasonOtherNegative,
	}
}

// AllowsPositive reports whether the reason may justify raising stock
func (r CorrectionReason) AllowsPositive() bool {
	for _, reason := range PositiveReasons() {
		if r == reason {
			return true
		}
	}
	return false
}

// AllowsNegative reports whether the reason may justify lowering stock
func (r CorrectionReason) AllowsNegative() bool {
	for _, reason := range NegativeReasons() {
		if r == reason {
			return true
		}
	}
	return false
}

// IsValid checks if the reason belongs to the closed enumeration
func (r CorrectionReason) IsValid() bool {
	return r.AllowsPositive() || r.AllowsNegative()
}

// String returns the string representation of CorrectionReason
func (r CorrectionReason) String() string {
	return string(r)
}

// Correction tags a booking or history entry as the outcome of a discrepancy
// resolution. OldQuantity/NewQuantity are only set for direct inventory
// corrections.
type Correction struct {
	Type        CorrectionType   `json:"type"`
	Reason      CorrectionReason `json:"reason"`
	Amount      int64            `json:"amount"`
	Note        string           `json:"note,omitempty"`
	OldQuantity *int64           `json:"old_quantity,omitempty"`
	NewQuantity *int64           `json:"new_quantity,omitempty"`
}

// NewCorrection creates a correction for a booking discrepancy. The reason's
// polarity must match the correction type: an excess raises stock and needs a
// positive reason, a shortage lowers stock and needs a negative one.
func NewCorrection(ctype CorrectionType, reason CorrectionReason, amount int64, note string) (*Correction, error) {
	if !ctype.IsValid() {
		return nil, shared.NewDomainError("INVALID_CORRECTION_TYPE", "Unknown correction type")
	}
	if !reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_CORRECTION_REASON", "Unknown correction reason")
	}
	if amount < 0 {
		return nil, shared.NewDomainError("INVALID_CORRECTION_AMOUNT", "Correction amount cannot be negative")
	}

	switch ctype {
	case CorrectionTypeExcess:
		if !reason.AllowsPositive() {
			return nil, shared.NewDomainError("REASON_POLARITY_MISMATCH", "Excess corrections require a positive reason")
		}
	case CorrectionTypeShortage:
		if !reason.AllowsNegative() {
			return nil, shared.NewDomainError("REASON_POLARITY_MISMATCH", "Shortage corrections require a negative reason")
		}
	case CorrectionTypeInventory:
		// Direct inventory corrections must go through NewInventoryCorrection
		// so old and new quantities are recorded.
		return nil, shared.NewDomainError("MISSING_QUANTITIES", "Inventory corrections require old and new quantities")
	}

	return &Correction{
		Type:   ctype,
		Reason: reason,
		Amount: amount,
		Note:   note,
	}, nil
}

// NewInventoryCorrection creates a direct stock adjustment correction,
// deriving amount and required reason polarity from the quantity delta.
func NewInventoryCorrection(reason CorrectionReason, oldQuantity, newQuantity int64, note string) (*Correction, error) {
	if !reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_CORRECTION_REASON", "Unknown correction reason")
	}
	if oldQuantity < 0 || newQuantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantities cannot be negative")
	}
	if newQuantity == oldQuantity {
		return nil, shared.NewDomainError("NO_DIFFERENCE", "Old and new quantity are equal")
	}

	amount := newQuantity - oldQuantity
	if amount > 0 {
		if !reason.AllowsPositive() {
			return nil, shared.NewDomainError("REASON_POLARITY_MISMATCH", "Raising stock requires a positive reason")
		}
	} else {
		amount = -amount
		if !reason.AllowsNegative() {
			return nil, shared.NewDomainError("REASON_POLARITY_MISMATCH", "Lowering stock requires a negative reason")
		}
	}

	return &Correction{
		Type:        CorrectionTypeInventory,
		Reason:      reason,
		Amount:      amount,
		Note:        note,
		OldQuantity: &oldQuantity,
		NewQuantity: &newQuantity,
	}, nil
}
