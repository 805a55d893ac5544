package stock

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcore/backend/internal/domain/shared"
)

// lotAt builds a lot with a fixed creation time so FIFO order is deterministic
func lotAt(t *testing.T, createdAt time.Time, qty, cost int64) StockLot {
	lot := newTestLot(t, qty, cost, cost)
	lot.CreatedAt = createdAt
	return *lot
}

func TestPlanAllocation_FIFO(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("drains oldest lot first", func(t *testing.T) {
		oldest := lotAt(t, base, 5, 100)
		newer := lotAt(t, base.Add(24*time.Hour), 5, 120)
		// Deliberately pass lots out of order
		plan, err := PlanAllocation(decimal.NewFromInt(3), []StockLot{newer, oldest})
		require.NoError(t, err)

		require.Len(t, plan.Takes, 1)
		assert.Equal(t, oldest.ID, plan.Takes[0].LotID)
		assert.True(t, plan.Takes[0].Quantity.Equal(decimal.NewFromInt(3)))
		assert.True(t, plan.FullyAllocated())
	})

	t.Run("spans lots in age order when the oldest is short", func(t *testing.T) {
		oldest := lotAt(t, base, 2, 100)
		middle := lotAt(t, base.Add(time.Hour), 4, 110)
		newest := lotAt(t, base.Add(2*time.Hour), 10, 120)

		plan, err := PlanAllocation(decimal.NewFromInt(5), []StockLot{newest, oldest, middle})
		require.NoError(t, err)

		require.Len(t, plan.Takes, 2)
		assert.Equal(t, oldest.ID, plan.Takes[0].LotID)
		assert.True(t, plan.Takes[0].Quantity.Equal(decimal.NewFromInt(2)))
		assert.Equal(t, middle.ID, plan.Takes[1].LotID)
		assert.True(t, plan.Takes[1].Quantity.Equal(decimal.NewFromInt(3)))
		assert.True(t, plan.TotalAllocated.Equal(decimal.NewFromInt(5)))
		// 2*100 + 3*110 = 530
		assert.True(t, plan.TotalCost.Real().Equal(decimal.NewFromInt(530)))
	})

	t.Run("skips drained lots", func(t *testing.T) {
		drained := lotAt(t, base, 5, 100)
		require.NoError(t, drained.Deduct(decimal.NewFromInt(5)))
		live := lotAt(t, base.Add(time.Hour), 5, 120)

		plan, err := PlanAllocation(decimal.NewFromInt(2), []StockLot{drained, live})
		require.NoError(t, err)

		require.Len(t, plan.Takes, 1)
		assert.Equal(t, live.ID, plan.Takes[0].LotID)
	})

	t.Run("reports shortfall without failing", func(t *testing.T) {
		lot := lotAt(t, base, 2, 100)

		plan, err := PlanAllocation(decimal.NewFromInt(5), []StockLot{lot})
		require.NoError(t, err)

		assert.False(t, plan.FullyAllocated())
		assert.True(t, plan.Shortfall.Equal(decimal.NewFromInt(3)))
		assert.True(t, plan.TotalAllocated.Equal(decimal.NewFromInt(2)))
	})

	t.Run("rejects non-positive request", func(t *testing.T) {
		_, err := PlanAllocation(decimal.Zero, nil)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestApplyAllocation(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("deducts planned takes from the lots", func(t *testing.T) {
		a := lotAt(t, base, 2, 100)
		b := lotAt(t, base.Add(time.Hour), 4, 110)

		plan, err := PlanAllocation(decimal.NewFromInt(5), []StockLot{a, b})
		require.NoError(t, err)

		require.NoError(t, ApplyAllocation([]*StockLot{&a, &b}, plan))
		assert.True(t, a.IsDrained())
		assert.True(t, b.Quantity.Equal(decimal.NewFromInt(1)))
	})

	t.Run("refuses to apply a short plan", func(t *testing.T) {
		lot := lotAt(t, base, 2, 100)

		plan, err := PlanAllocation(decimal.NewFromInt(5), []StockLot{lot})
		require.NoError(t, err)

		err = ApplyAllocation([]*StockLot{&lot}, plan)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		// Nothing deducted
		assert.True(t, lot.Quantity.Equal(decimal.NewFromInt(2)))
	})

	t.Run("fails when a planned lot is missing", func(t *testing.T) {
		lot := lotAt(t, base, 5, 100)

		plan, err := PlanAllocation(decimal.NewFromInt(2), []StockLot{lot})
		require.NoError(t, err)

		err = ApplyAllocation([]*StockLot{}, plan)
		assert.ErrorIs(t, err, shared.ErrLotNotFound)
	})
}

func TestAvailableQuantity(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	lots := []StockLot{lotAt(t, base, 2, 100), lotAt(t, base, 3, 110)}

	assert.True(t, AvailableQuantity(lots).Equal(decimal.NewFromInt(5)))
	assert.True(t, AvailableQuantity(nil).IsZero())
}

func TestNewStockMovement(t *testing.T) {
	lot := newTestLot(t, 10, 100, 80)

	t.Run("records lot identity and direction", func(t *testing.T) {
		refID := uuid.New()
		mv, err := NewStockMovement(lot, MovementDirectionOut, decimal.NewFromInt(3), ReferenceTypeSale, refID)
		require.NoError(t, err)

		assert.Equal(t, lot.ID, mv.LotID)
		assert.Equal(t, lot.WarehouseID, mv.WarehouseID)
		assert.Equal(t, MovementDirectionOut, mv.Direction)
		assert.Equal(t, refID, mv.ReferenceID)
		assert.True(t, mv.SignedQuantity().Equal(decimal.NewFromInt(-3)))
	})

	t.Run("inbound movement has positive signed quantity", func(t *testing.T) {
		mv, err := NewStockMovement(lot, MovementDirectionIn, decimal.NewFromInt(3), ReferenceTypePurchase, uuid.New())
		require.NoError(t, err)
		assert.True(t, mv.SignedQuantity().Equal(decimal.NewFromInt(3)))
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		_, err := NewStockMovement(nil, MovementDirectionIn, decimal.NewFromInt(1), ReferenceTypeSale, uuid.New())
		assert.ErrorIs(t, err, shared.ErrValidation)

		_, err = NewStockMovement(lot, "SIDEWAYS", decimal.NewFromInt(1), ReferenceTypeSale, uuid.New())
		assert.ErrorIs(t, err, shared.ErrValidation)

		_, err = NewStockMovement(lot, MovementDirectionIn, decimal.Zero, ReferenceTypeSale, uuid.New())
		assert.ErrorIs(t, err, shared.ErrValidation)

		_, err = NewStockMovement(lot, MovementDirectionIn, decimal.NewFromInt(1), ReferenceTypeSale, uuid.Nil)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}
