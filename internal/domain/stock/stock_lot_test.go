package stock

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/shared/valueobject"
)

func newTestLot(t *testing.T, qty int64, cost, shadowCost int64) *StockLot {
	lot, err := NewStockLot(
		uuid.New(), uuid.New(), uuid.New(),
		decimal.NewFromInt(qty),
		valueobject.NewValuation(decimal.NewFromInt(cost), decimal.NewFromInt(shadowCost)),
	)
	require.NoError(t, err)
	return lot
}

func TestNewStockLot(t *testing.T) {
	t.Run("creates lot with dual unit cost", func(t *testing.T) {
		lot := newTestLot(t, 10, 100, 80)

		assert.True(t, lot.Quantity.Equal(decimal.NewFromInt(10)))
		assert.True(t, lot.UnitCost.Equal(decimal.NewFromInt(100)))
		assert.True(t, lot.ShadowUnitCost.Equal(decimal.NewFromInt(80)))
		assert.True(t, lot.HasStock())
	})

	t.Run("rejects empty warehouse", func(t *testing.T) {
		_, err := NewStockLot(uuid.Nil, uuid.New(), uuid.New(), decimal.NewFromInt(1), valueobject.ZeroValuation())
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		_, err := NewStockLot(uuid.New(), uuid.New(), uuid.New(), decimal.NewFromInt(-1), valueobject.ZeroValuation())
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("rejects negative cost", func(t *testing.T) {
		_, err := NewStockLot(uuid.New(), uuid.New(), uuid.New(), decimal.NewFromInt(1),
			valueobject.NewValuation(decimal.NewFromInt(-5), decimal.Zero))
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestStockLot_Deduct(t *testing.T) {
	t.Run("deducts available quantity", func(t *testing.T) {
		lot := newTestLot(t, 10, 100, 80)

		require.NoError(t, lot.Deduct(decimal.NewFromInt(4)))
		assert.True(t, lot.Quantity.Equal(decimal.NewFromInt(6)))
	})

	t.Run("draining the lot leaves it at zero", func(t *testing.T) {
		lot := newTestLot(t, 10, 100, 80)

		require.NoError(t, lot.Deduct(decimal.NewFromInt(10)))
		assert.True(t, lot.IsDrained())
		assert.False(t, lot.HasStock())
	})

	t.Run("over-deduction fails and leaves quantity untouched", func(t *testing.T) {
		lot := newTestLot(t, 5, 100, 80)

		err := lot.Deduct(decimal.NewFromInt(6))
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.True(t, lot.Quantity.Equal(decimal.NewFromInt(5)))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		lot := newTestLot(t, 5, 100, 80)
		assert.ErrorIs(t, lot.Deduct(decimal.Zero), shared.ErrValidation)
	})
}

func TestStockLot_Merge(t *testing.T) {
	t.Run("recomputes weighted average on both cost columns", func(t *testing.T) {
		lot := newTestLot(t, 10, 100, 80)

		err := lot.Merge(decimal.NewFromInt(5), valueobject.NewValuation(decimal.NewFromInt(130), decimal.NewFromInt(110)))
		require.NoError(t, err)

		assert.True(t, lot.Quantity.Equal(decimal.NewFromInt(15)))
		// (10*100 + 5*130) / 15 = 110
		assert.True(t, lot.UnitCost.Equal(decimal.NewFromInt(110)), "real cost: %s", lot.UnitCost)
		// (10*80 + 5*110) / 15 = 90
		assert.True(t, lot.ShadowUnitCost.Equal(decimal.NewFromInt(90)), "shadow cost: %s", lot.ShadowUnitCost)
	})

	t.Run("merge into drained lot takes incoming cost", func(t *testing.T) {
		lot := newTestLot(t, 10, 100, 80)
		require.NoError(t, lot.Deduct(decimal.NewFromInt(10)))

		err := lot.Merge(decimal.NewFromInt(3), valueobject.NewValuation(decimal.NewFromInt(120), decimal.NewFromInt(95)))
		require.NoError(t, err)

		assert.True(t, lot.Quantity.Equal(decimal.NewFromInt(3)))
		assert.True(t, lot.UnitCost.Equal(decimal.NewFromInt(120)))
		assert.True(t, lot.ShadowUnitCost.Equal(decimal.NewFromInt(95)))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		lot := newTestLot(t, 10, 100, 80)
		assert.ErrorIs(t, lot.Merge(decimal.Zero, valueobject.ZeroValuation()), shared.ErrValidation)
	})
}

func TestStockLot_TotalValue(t *testing.T) {
	lot := newTestLot(t, 4, 25, 20)
	value := lot.TotalValue()

	assert.True(t, value.Real().Equal(decimal.NewFromInt(100)))
	assert.True(t, value.Shadow().Equal(decimal.NewFromInt(80)))
}
