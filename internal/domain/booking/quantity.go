package booking

// QuantityMode selects how the quantity-to-book is determined
type QuantityMode string

const (
	// QuantityModeAll books the full system quantity
	QuantityModeAll QuantityMode = "all"
	// QuantityModeScale books the accepted weighing candidate
	QuantityModeScale QuantityMode = "scale"
	// QuantityModeManual books an operator-entered quantity
	QuantityModeManual QuantityMode = "manual"
)

// IsValid checks if the mode is a valid QuantityMode
func (m QuantityMode) IsValid() bool {
	switch m {
	case QuantityModeAll, QuantityModeScale, QuantityModeManual:
		return true
	}
	return false
}

// String returns the string representation of QuantityMode
func (m QuantityMode) String() string {
	return string(m)
}

// ResolveQuantity computes the quantity-to-book for the current item.
// Scale mode yields zero until the operator has accepted a positive weighing
// result; the accepted candidate is capped at the system quantity. Manual
// mode treats blank or invalid input as zero. A zero result blocks the
// confirm action upstream.
func ResolveQuantity(mode QuantityMode, item *Item, weighing *WeighingState, manual int64) int64 {
	if item == nil {
		return 0
	}
	switch mode {
	case QuantityModeAll:
		return item.Quantity
	case QuantityModeScale:
		if weighing == nil || !weighing.Accepted || weighing.Candidate <= 0 {
			return 0
		}
		if weighing.Candidate > item.Quantity {
			return item.Quantity
		}
		return weighing.Candidate
	case QuantityModeManual:
		if manual < 0 {
			return 0
		}
		return manual
	default:
		return 0
	}
}
