package booking

import (
	"context"

	"github.com/shopspring/decimal"
)

// ItemSource supplies the read-only source item snapshot. Exactly one of box
// or order identifies the active query; selecting one clears the other.
type ItemSource interface {
	// FetchByBox fetches the items stored in a box
	FetchByBox(ctx context.Context, boxNumber string) ([]Item, error)
	// FetchByOrder fetches the items associated with a picking order
	FetchByOrder(ctx context.Context, orderNumber string) ([]Item, error)
}

// Gateway is the external inventory-mutation boundary. BookItems persists a
// batch; on success it returns the committed items, on failure the caller
// must retain the batch and surface the error.
type Gateway interface {
	BookItems(ctx context.Context, items []BookingItem) ([]BookingItem, error)
}

// Scale abstracts the weighing hardware so tests can supply deterministic
// values instead of the simulated randomized measurements.
type Scale interface {
	// MeasureGross performs a gross weighing, including the settling delay
	MeasureGross(ctx context.Context) (decimal.Decimal, error)
	// MeasureTare measures the tare of an empty container placed on the scale
	MeasureTare(ctx context.Context) (decimal.Decimal, error)
}

// TareRegistry resolves registered tare weights for known bins
type TareRegistry interface {
	// RegisteredTare returns the tare for a bin; ok is false when the bin
	// has no registered value
	RegisteredTare(ctx context.Context, binCode string) (tare decimal.Decimal, ok bool, err error)
}

// NoticeLevel grades operator notices
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a non-blocking, user-visible notification
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// Notifier delivers non-blocking notices to the operator
type Notifier interface {
	Notify(ctx context.Context, notice Notice)
}

// SettingsStore loads and persists the tolerance settings
type SettingsStore interface {
	Load(ctx context.Context) (ToleranceSettings, error)
	Save(ctx context.Context, settings ToleranceSettings) error
}
