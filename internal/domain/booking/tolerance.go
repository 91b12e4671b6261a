package booking

import (
	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/shared"
)

// Tolerance percentage bounds
const (
	MinTolerancePercentage = 0
	MaxTolerancePercentage = 50
)

// ToleranceSettings holds the maximum shortfall (as a percentage of system
// quantity) that is still booked silently as a partial withdrawal.
type ToleranceSettings struct {
	Percentage int `json:"percentage"`
}

// NewToleranceSettings validates the 0-50 integer range
func NewToleranceSettings(percentage int) (ToleranceSettings, error) {
	if percentage < MinTolerancePercentage || percentage > MaxTolerancePercentage {
		return ToleranceSettings{}, shared.NewDomainError("INVALID_TOLERANCE", "Tolerance percentage must be between 0 and 50")
	}
	return ToleranceSettings{Percentage: percentage}, nil
}

// ReconcileDecision classifies how a resolved quantity is booked
type ReconcileDecision string

const (
	// DecisionBookDirect books the quantity with no reconciliation needed
	DecisionBookDirect ReconcileDecision = "book_direct"
	// DecisionBookPartialSilent books a partial quantity without a prompt
	DecisionBookPartialSilent ReconcileDecision = "book_partial_silent"
	// DecisionPromptShortage gates the booking behind a shortage prompt
	DecisionPromptShortage ReconcileDecision = "prompt_shortage"
	// DecisionPromptExcess gates the booking behind an excess prompt
	DecisionPromptExcess ReconcileDecision = "prompt_excess"
)

// Reconciliation is the outcome of comparing a resolved quantity against the
// system-of-record quantity under the tolerance policy.
type Reconciliation struct {
	Decision       ReconcileDecision
	Quantity       int64
	SystemQuantity int64
	DiffPct        decimal.Decimal
}

// RequiresPrompt reports whether the operator must resolve a correction
func (r Reconciliation) RequiresPrompt() bool {
	return r.Decision == DecisionPromptShortage || r.Decision == DecisionPromptExcess
}

// Reconcile applies the tolerance policy to a resolved quantity q against
// system quantity s with tolerance percentage p.
//
// An excess (q > s) always requires explicit confirmation. A shortage whose
// percentage exceeds the tolerance is booked silently as a partial pick;
// a shortage within tolerance is gated behind a shortage prompt. This
// inversion is deliberate: large shortfalls are assumed to be intentional
// partial picks, small ones likely loss or data-entry events worth a
// conscious decision.
//
// A non-positive system quantity makes the percentage undefined; the
// comparison is skipped and explicit confirmation is required.
func Reconcile(q, s int64, tolerancePct int) Reconciliation {
	result := Reconciliation{
		Quantity:       q,
		SystemQuantity: s,
		DiffPct:        decimal.Zero,
	}

	if s <= 0 {
		// Division guard: no meaningful tolerance comparison possible.
		result.Decision = DecisionPromptExcess
		return result
	}

	switch {
	case q > s:
		result.Decision = DecisionPromptExcess
	case q == s:
		result.Decision = DecisionBookDirect
	default:
		diffPct := decimal.NewFromInt(s - q).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(s))
		result.DiffPct = diffPct

		if diffPct.GreaterThan(decimal.NewFromInt(int64(tolerancePct))) {
			result.Decision = DecisionBookPartialSilent
		} else {
			result.Decision = DecisionPromptShortage
		}
	}

	return result
}
