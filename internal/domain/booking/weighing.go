package booking

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/shared"
)

// WeighingStep is the current step of the scale sub-machine
type WeighingStep string

const (
	WeighingStepScan   WeighingStep = "scan"
	WeighingStepTara   WeighingStep = "tara"
	WeighingStepWeigh  WeighingStep = "weigh"
	WeighingStepResult WeighingStep = "result"
)

// String returns the string representation of WeighingStep
func (s WeighingStep) String() string {
	return string(s)
}

// TareMethod selects where the tare weight comes from
type TareMethod string

const (
	TareMethodManual TareMethod = "manual"
	TareMethodAuto   TareMethod = "auto"
)

// WeighingState is the transient per-item state of the scale interaction:
// scan a bin, establish its tare, weigh, derive a candidate quantity.
// Transitions follow scan -> tara -> weigh -> result with back edges
// tara -> scan and result -> tara; no step may be skipped.
type WeighingState struct {
	Step           WeighingStep
	BinCode        string
	RegisteredTare *decimal.Decimal
	TareMethod     TareMethod
	TareWeight     decimal.Decimal
	GrossWeight    decimal.Decimal
	Candidate      int64
	Accepted       bool
	measuring      bool
}

// NewWeighingState creates a weighing state parked at the scan step
func NewWeighingState() *WeighingState {
	return &WeighingState{Step: WeighingStepScan}
}

// Reset clears all fields and returns to the scan step. Used when the scale
// mode is re-entered for a new item or the quantity mode switches away.
func (w *WeighingState) Reset() {
	*w = WeighingState{Step: WeighingStepScan}
}

// ScanBin records the scanned bin and advances to the tare step. The
// registered tare may be nil when the bin is unknown to the registry.
func (w *WeighingState) ScanBin(binCode string, registeredTare *decimal.Decimal) error {
	if w.Step != WeighingStepScan {
		return w.transitionError(WeighingStepTara)
	}
	if binCode == "" {
		return shared.NewDomainError("MISSING_BIN", "Bin code cannot be empty")
	}
	w.BinCode = binCode
	w.RegisteredTare = registeredTare
	w.Step = WeighingStepTara
	return nil
}

// SetManualTare records an operator-entered or measured tare weight
func (w *WeighingState) SetManualTare(weight decimal.Decimal) error {
	if w.Step != WeighingStepTara {
		return shared.NewDomainError("INVALID_STEP", "Tare can only be set in the tara step")
	}
	if !weight.IsPositive() {
		return shared.NewDomainError("INVALID_TARE", "Tare weight must be greater than zero")
	}
	w.TareMethod = TareMethodManual
	w.TareWeight = weight
	return nil
}

// UseRegisteredTare adopts the bin's registered tare. It refuses to proceed
// when the registry had no value for the scanned bin.
func (w *WeighingState) UseRegisteredTare() error {
	if w.Step != WeighingStepTara {
		return shared.NewDomainError("INVALID_STEP", "Tare can only be set in the tara step")
	}
	if w.RegisteredTare == nil || !w.RegisteredTare.IsPositive() {
		return shared.NewDomainError("REGISTERED_TARE_MISSING", "No registered tare weight for this bin")
	}
	w.TareMethod = TareMethodAuto
	w.TareWeight = *w.RegisteredTare
	return nil
}

// CanStartWeighing reports whether the tare data allows weighing
func (w *WeighingState) CanStartWeighing() bool {
	return w.Step == WeighingStepTara && w.TareWeight.IsPositive()
}

// BeginWeighing transitions into the weigh step. The step is non-interactive;
// the caller performs the measurement and completes it with the gross weight.
func (w *WeighingState) BeginWeighing() error {
	if !w.CanStartWeighing() {
		return shared.NewDomainError("INVALID_TARE", "Tare weight is missing or invalid")
	}
	if w.measuring {
		return shared.NewDomainError("MEASUREMENT_IN_FLIGHT", "A measurement is already running")
	}
	w.measuring = true
	w.Step = WeighingStepWeigh
	return nil
}

// CompleteWeighing records the measured gross weight, derives the candidate
// quantity with the given unit weight and advances to the result step.
// The candidate is round((gross - tare) / unitWeight), clamped to zero.
func (w *WeighingState) CompleteWeighing(gross, unitWeight decimal.Decimal) error {
	if w.Step != WeighingStepWeigh {
		return w.transitionError(WeighingStepResult)
	}
	if !unitWeight.IsPositive() {
		return shared.NewDomainError("INVALID_UNIT_WEIGHT", "Unit weight must be greater than zero")
	}

	w.GrossWeight = gross
	candidate := gross.Sub(w.TareWeight).Div(unitWeight).Round(0).IntPart()
	if candidate < 0 {
		candidate = 0
	}
	w.Candidate = candidate
	w.measuring = false
	w.Step = WeighingStepResult
	return nil
}

// AbortWeighing returns to the tare step after a failed measurement
func (w *WeighingState) AbortWeighing() {
	if w.Step == WeighingStepWeigh {
		w.measuring = false
		w.Step = WeighingStepTara
	}
}

// Accept commits the candidate quantity to the enclosing resolver. The
// sub-machine stays parked in the result step.
func (w *WeighingState) Accept() (int64, error) {
	if w.Step != WeighingStepResult {
		return 0, shared.NewDomainError("INVALID_STEP", "Nothing to accept before a weighing result")
	}
	w.Accepted = true
	return w.Candidate, nil
}

// Back steps backwards: result -> tara (discarding the measurement) or
// tara -> scan (discarding bin and tare).
func (w *WeighingState) Back() error {
	switch w.Step {
	case WeighingStepResult:
		w.GrossWeight = decimal.Zero
		w.Candidate = 0
		w.Accepted = false
		w.Step = WeighingStepTara
		return nil
	case WeighingStepTara:
		w.BinCode = ""
		w.RegisteredTare = nil
		w.TareMethod = ""
		w.TareWeight = decimal.Zero
		w.Step = WeighingStepScan
		return nil
	default:
		return shared.NewDomainError("INVALID_STEP", fmt.Sprintf("Cannot go back from %s", w.Step))
	}
}

func (w *WeighingState) transitionError(target WeighingStep) error {
	return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot transition from %s to %s", w.Step, target))
}
