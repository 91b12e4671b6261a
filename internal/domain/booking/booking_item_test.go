package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBookingItem(t *testing.T) {
	item := testItem(t, 20)
	item.BoxNumber = "BOX-7"

	t.Run("creates booking with valid inputs", func(t *testing.T) {
		b, err := NewBookingItem(item, 5, []string{"A1", "B2"}, nil)

		require.NoError(t, err)
		assert.Equal(t, item.ID, b.SourceItemID)
		assert.Equal(t, "100234", b.ArticleOld)
		assert.Equal(t, int64(5), b.Quantity)
		assert.Equal(t, []string{"A1", "B2"}, b.TargetSlots)
		assert.Equal(t, "BOX-7", b.BoxNumber)
		assert.Equal(t, "A1/B2", b.CompartmentPath())
		assert.False(t, b.HasCorrection())
		assert.False(t, b.BookedAt.IsZero())
	})

	t.Run("carries an attached correction", func(t *testing.T) {
		corr, err := NewCorrection(CorrectionTypeShortage, ReasonLoss, 2, "")
		require.NoError(t, err)

		b, err := NewBookingItem(item, 5, []string{"A1"}, corr)

		require.NoError(t, err)
		assert.True(t, b.HasCorrection())
		assert.Equal(t, ReasonLoss, b.Correction.Reason)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewBookingItem(item, 0, []string{"A1"}, nil)
		require.Error(t, err)

		_, err = NewBookingItem(item, -1, []string{"A1"}, nil)
		require.Error(t, err)
	})

	t.Run("rejects empty first target compartment", func(t *testing.T) {
		_, err := NewBookingItem(item, 5, nil, nil)
		require.Error(t, err)

		_, err = NewBookingItem(item, 5, []string{"", "B2"}, nil)
		require.Error(t, err)

		_, err = NewBookingItem(item, 5, []string{"   "}, nil)
		require.Error(t, err)
	})

	t.Run("rejects more than four compartments", func(t *testing.T) {
		_, err := NewBookingItem(item, 5, []string{"A", "B", "C", "D", "E"}, nil)

		require.Error(t, err)
	})

	t.Run("drops empty trailing compartments", func(t *testing.T) {
		b, err := NewBookingItem(item, 5, []string{"A1", "", "C3"}, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"A1"}, b.TargetSlots)
	})

	t.Run("rejects nil item", func(t *testing.T) {
		_, err := NewBookingItem(nil, 5, []string{"A1"}, nil)

		require.Error(t, err)
	})
}

func TestGroupBookings(t *testing.T) {
	item1 := testItem(t, 50)
	item1.BoxNumber = "BOX-1"
	item2, err := NewItem("200555", "A-200555", "Bracket", 30, []string{"R02-01-01"})
	require.NoError(t, err)
	item2.BoxNumber = "BOX-1"

	mustBook := func(t *testing.T, item *Item, qty int64, targets []string) BookingItem {
		t.Helper()
		b, err := NewBookingItem(item, qty, targets, nil)
		require.NoError(t, err)
		return *b
	}

	t.Run("folds by article and box", func(t *testing.T) {
		a := mustBook(t, item1, 3, []string{"A1"})
		b := mustBook(t, item1, 4, []string{"A1", "B2"})
		c := mustBook(t, item2, 5, []string{"C3"})
		b.BookedAt = a.BookedAt.Add(time.Minute)

		groups := GroupBookings([]BookingItem{a, b, c})

		require.Len(t, groups, 2)
		assert.Equal(t, "100234", groups[0].ArticleOld)
		assert.Equal(t, int64(7), groups[0].Quantity)
		assert.Equal(t, []string{"A1", "B2"}, groups[0].TargetSlots)
		assert.Equal(t, b.BookedAt, groups[0].LastBookedAt)
		assert.Equal(t, "200555", groups[1].ArticleOld)
		assert.Equal(t, int64(5), groups[1].Quantity)
	})

	t.Run("same article in different boxes stays separate", func(t *testing.T) {
		a := mustBook(t, item1, 3, []string{"A1"})
		other := *item1
		other.BoxNumber = "BOX-2"
		b := mustBook(t, &other, 4, []string{"A1"})

		groups := GroupBookings([]BookingItem{a, b})

		require.Len(t, groups, 2)
	})

	t.Run("grouped sums equal ungrouped sums per key", func(t *testing.T) {
		items := []BookingItem{
			mustBook(t, item1, 3, []string{"A1"}),
			mustBook(t, item1, 4, []string{"B2"}),
			mustBook(t, item1, 9, []string{"A1"}),
			mustBook(t, item2, 2, []string{"C3"}),
		}

		var rawTotal int64
		for _, it := range items {
			rawTotal += it.Quantity
		}

		var groupedTotal int64
		for _, g := range GroupBookings(items) {
			groupedTotal += g.Quantity
		}

		assert.Equal(t, rawTotal, groupedTotal)
	})

	t.Run("empty input yields no groups", func(t *testing.T) {
		assert.Empty(t, GroupBookings(nil))
	})
}
