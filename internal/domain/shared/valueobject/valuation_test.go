package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValuation_MulQuantity(t *testing.T) {
	t.Run("applies identical arithmetic to both columns", func(t *testing.T) {
		unit := NewValuation(decimal.NewFromInt(100), decimal.NewFromInt(80))
		total := unit.MulQuantity(decimal.NewFromInt(3))

		assert.True(t, total.Real().Equal(decimal.NewFromInt(300)))
		assert.True(t, total.Shadow().Equal(decimal.NewFromInt(240)))
	})

	t.Run("zero quantity yields zero totals", func(t *testing.T) {
		unit := NewValuation(decimal.NewFromInt(100), decimal.NewFromInt(80))
		total := unit.MulQuantity(decimal.Zero)

		assert.True(t, total.IsZero())
	})

	t.Run("fractional quantities", func(t *testing.T) {
		unit := NewValuation(decimal.NewFromFloat(12.5), decimal.NewFromFloat(10))
		total := unit.MulQuantity(decimal.NewFromFloat(2.4))

		assert.True(t, total.Real().Equal(decimal.NewFromFloat(30)))
		assert.True(t, total.Shadow().Equal(decimal.NewFromFloat(24)))
	})
}

func TestValuation_AddSub(t *testing.T) {
	a := NewValuation(decimal.NewFromInt(250), decimal.NewFromInt(200))
	b := NewValuation(decimal.NewFromInt(200), decimal.NewFromInt(150))

	sum := a.Add(b)
	assert.True(t, sum.Real().Equal(decimal.NewFromInt(450)))
	assert.True(t, sum.Shadow().Equal(decimal.NewFromInt(350)))

	diff := a.Sub(b)
	assert.True(t, diff.Real().Equal(decimal.NewFromInt(50)))
	assert.True(t, diff.Shadow().Equal(decimal.NewFromInt(50)))
}

func TestValuation_SubFloorZero(t *testing.T) {
	t.Run("floors each column independently", func(t *testing.T) {
		due := NewValuation(decimal.NewFromInt(100), decimal.NewFromInt(500))
		refund := NewValuation(decimal.NewFromInt(300), decimal.NewFromInt(300))

		after := due.SubFloorZero(refund)
		assert.True(t, after.Real().IsZero())
		assert.True(t, after.Shadow().Equal(decimal.NewFromInt(200)))
	})

	t.Run("no flooring when subtrahend is smaller", func(t *testing.T) {
		due := NewValuation(decimal.NewFromInt(400), decimal.NewFromInt(400))
		refund := NewValuation(decimal.NewFromInt(300), decimal.NewFromInt(300))

		after := due.SubFloorZero(refund)
		assert.True(t, after.Real().Equal(decimal.NewFromInt(100)))
		assert.True(t, after.Shadow().Equal(decimal.NewFromInt(100)))
	})
}

func TestValuation_Sign(t *testing.T) {
	positive := NewValuation(decimal.NewFromInt(50), decimal.NewFromInt(40))
	negative := positive.Neg()
	zero := ZeroValuation()

	assert.Equal(t, 1, positive.Sign())
	assert.Equal(t, -1, negative.Sign())
	assert.Equal(t, 0, zero.Sign())
}

func TestNewValuationFromStrings(t *testing.T) {
	t.Run("valid amounts", func(t *testing.T) {
		v, err := NewValuationFromStrings("123.45", "100.00")
		require.NoError(t, err)
		assert.True(t, v.Real().Equal(decimal.NewFromFloat(123.45)))
		assert.True(t, v.Shadow().Equal(decimal.NewFromInt(100)))
	})

	t.Run("invalid real amount", func(t *testing.T) {
		_, err := NewValuationFromStrings("abc", "100")
		assert.Error(t, err)
	})

	t.Run("invalid shadow amount", func(t *testing.T) {
		_, err := NewValuationFromStrings("100", "abc")
		assert.Error(t, err)
	})
}

func TestWeightedAverageUnitCost(t *testing.T) {
	t.Run("merges both columns independently", func(t *testing.T) {
		// 10 units @ 100/80 merged with 5 units @ 130/110
		merged := WeightedAverageUnitCost(
			decimal.NewFromInt(10),
			NewValuation(decimal.NewFromInt(100), decimal.NewFromInt(80)),
			decimal.NewFromInt(5),
			NewValuation(decimal.NewFromInt(130), decimal.NewFromInt(110)),
		)

		// (10*100 + 5*130) / 15 = 110
		assert.True(t, merged.Real().Equal(decimal.NewFromInt(110)), "real: %s", merged.Real())
		// (10*80 + 5*110) / 15 = 90
		assert.True(t, merged.Shadow().Equal(decimal.NewFromInt(90)), "shadow: %s", merged.Shadow())
	})

	t.Run("zero existing quantity takes incoming cost", func(t *testing.T) {
		incoming := NewValuation(decimal.NewFromInt(55), decimal.NewFromInt(44))
		merged := WeightedAverageUnitCost(decimal.Zero, ZeroValuation(), decimal.NewFromInt(5), incoming)

		assert.True(t, merged.Real().Equal(decimal.NewFromInt(55)))
		assert.True(t, merged.Shadow().Equal(decimal.NewFromInt(44)))
	})

	t.Run("zero combined quantity returns incoming cost", func(t *testing.T) {
		incoming := NewValuation(decimal.NewFromInt(10), decimal.NewFromInt(10))
		merged := WeightedAverageUnitCost(decimal.Zero, ZeroValuation(), decimal.Zero, incoming)

		assert.True(t, merged.Equal(incoming))
	})

	t.Run("rounds to four decimal places", func(t *testing.T) {
		merged := WeightedAverageUnitCost(
			decimal.NewFromInt(3),
			NewValuation(decimal.NewFromInt(10), decimal.NewFromInt(10)),
			decimal.NewFromInt(3),
			NewValuation(decimal.NewFromInt(11), decimal.NewFromInt(11)),
		)

		assert.True(t, merged.Real().Equal(decimal.NewFromFloat(10.5)))
		assert.Equal(t, int32(-4), merged.Real().Exponent())
	})
}
