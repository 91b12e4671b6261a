package booking

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewToleranceSettings(t *testing.T) {
	t.Run("accepts the 0-50 range", func(t *testing.T) {
		for _, p := range []int{0, 10, 50} {
			settings, err := NewToleranceSettings(p)
			require.NoError(t, err)
			assert.Equal(t, p, settings.Percentage)
		}
	})

	t.Run("rejects out-of-range values", func(t *testing.T) {
		_, err := NewToleranceSettings(-1)
		require.Error(t, err)

		_, err = NewToleranceSettings(51)
		require.Error(t, err)
	})
}

func TestReconcile(t *testing.T) {
	t.Run("equal quantities book directly", func(t *testing.T) {
		result := Reconcile(100, 100, 10)

		assert.Equal(t, DecisionBookDirect, result.Decision)
		assert.False(t, result.RequiresPrompt())
	})

	t.Run("excess always raises a prompt", func(t *testing.T) {
		result := Reconcile(12, 10, 50)

		assert.Equal(t, DecisionPromptExcess, result.Decision)
		assert.True(t, result.RequiresPrompt())
	})

	t.Run("shortage within tolerance raises a shortage prompt", func(t *testing.T) {
		// diffPct = 5 <= 10
		result := Reconcile(95, 100, 10)

		assert.Equal(t, DecisionPromptShortage, result.Decision)
		assert.True(t, result.DiffPct.Equal(decimal.NewFromInt(5)))
	})

	t.Run("shortage beyond tolerance books silently", func(t *testing.T) {
		// diffPct = 15 > 10
		result := Reconcile(85, 100, 10)

		assert.Equal(t, DecisionBookPartialSilent, result.Decision)
		assert.False(t, result.RequiresPrompt())
		assert.True(t, result.DiffPct.Equal(decimal.NewFromInt(15)))
	})

	t.Run("shortage exactly at tolerance is gated", func(t *testing.T) {
		// diffPct = 10 <= 10
		result := Reconcile(90, 100, 10)

		assert.Equal(t, DecisionPromptShortage, result.Decision)
	})

	t.Run("fractional percentages compare precisely", func(t *testing.T) {
		// diffPct = 100 * 1/3 = 33.33... > 33
		result := Reconcile(2, 3, 33)
		assert.Equal(t, DecisionBookPartialSilent, result.Decision)

		// 33.33... <= 34
		result = Reconcile(2, 3, 34)
		assert.Equal(t, DecisionPromptShortage, result.Decision)
	})

	t.Run("zero system quantity skips the comparison", func(t *testing.T) {
		result := Reconcile(5, 0, 10)

		assert.Equal(t, DecisionPromptExcess, result.Decision)
		assert.True(t, result.DiffPct.IsZero())
	})

	t.Run("zero tolerance gates only exact shortfall of zero percent", func(t *testing.T) {
		// Any shortfall exceeds a zero tolerance and books silently
		result := Reconcile(99, 100, 0)
		assert.Equal(t, DecisionBookPartialSilent, result.Decision)

		result = Reconcile(100, 100, 0)
		assert.Equal(t, DecisionBookDirect, result.Decision)
	})
}
