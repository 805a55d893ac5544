package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/shared/valueobject"
)

func testActor() shared.Actor {
	return shared.NewActor(uuid.New(), "tester")
}

func dual(real, shadow int64) valueobject.Valuation {
	return valueobject.NewValuation(decimal.NewFromInt(real), decimal.NewFromInt(shadow))
}

func newTestPurchase(t *testing.T) *Purchase {
	p, err := NewPurchase(uuid.New(), uuid.New(), testActor())
	require.NoError(t, err)
	return p
}

func TestNewPurchase(t *testing.T) {
	t.Run("creates unpaid purchase with actor", func(t *testing.T) {
		actor := testActor()
		p, err := NewPurchase(uuid.New(), uuid.New(), actor)
		require.NoError(t, err)

		assert.Equal(t, PaymentStatusUnpaid, p.PaymentStatus)
		require.NotNil(t, p.CreatedBy)
		assert.Equal(t, actor.UserID, *p.CreatedBy)
	})

	t.Run("rejects empty supplier", func(t *testing.T) {
		_, err := NewPurchase(uuid.Nil, uuid.New(), testActor())
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("rejects empty warehouse", func(t *testing.T) {
		_, err := NewPurchase(uuid.New(), uuid.Nil, testActor())
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestPurchase_AddItem(t *testing.T) {
	t.Run("adds item and refreshes both total columns", func(t *testing.T) {
		p := newTestPurchase(t)

		_, err := p.AddItem(uuid.New(), uuid.New(), decimal.NewFromInt(10), dual(100, 80))
		require.NoError(t, err)

		assert.True(t, p.GrandTotal.Equal(decimal.NewFromInt(1000)))
		assert.True(t, p.ShadowGrandTotal.Equal(decimal.NewFromInt(800)))
		assert.True(t, p.DueAmount.Equal(decimal.NewFromInt(1000)))
		assert.Equal(t, PaymentStatusUnpaid, p.PaymentStatus)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		p := newTestPurchase(t)
		_, err := p.AddItem(uuid.New(), uuid.New(), decimal.Zero, dual(100, 80))
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestPurchase_UpsertItem(t *testing.T) {
	t.Run("increases existing line keeping original unit price", func(t *testing.T) {
		p := newTestPurchase(t)
		productID, variantID := uuid.New(), uuid.New()

		_, err := p.AddItem(productID, variantID, decimal.NewFromInt(10), dual(100, 80))
		require.NoError(t, err)

		item, err := p.UpsertItem(productID, variantID, decimal.NewFromInt(5), dual(120, 90))
		require.NoError(t, err)

		assert.True(t, item.Quantity.Equal(decimal.NewFromInt(15)))
		assert.True(t, item.UnitPrice.Equal(decimal.NewFromInt(100)))
		// 1000 + 5*120
		assert.True(t, item.Total.Equal(decimal.NewFromInt(1600)))
		assert.True(t, p.GrandTotal.Equal(decimal.NewFromInt(1600)))
		require.Len(t, p.Items, 1)
	})

	t.Run("creates a new line for an unknown variant", func(t *testing.T) {
		p := newTestPurchase(t)
		_, err := p.AddItem(uuid.New(), uuid.New(), decimal.NewFromInt(10), dual(100, 80))
		require.NoError(t, err)

		_, err = p.UpsertItem(uuid.New(), uuid.New(), decimal.NewFromInt(5), dual(120, 90))
		require.NoError(t, err)
		assert.Len(t, p.Items, 2)
	})
}

func TestPurchaseItem_Reduce(t *testing.T) {
	t.Run("shrinks quantity and totals proportionally", func(t *testing.T) {
		p := newTestPurchase(t)
		item, err := p.AddItem(uuid.New(), uuid.New(), decimal.NewFromInt(10), dual(100, 80))
		require.NoError(t, err)

		require.NoError(t, item.Reduce(decimal.NewFromInt(4)))

		assert.True(t, item.Quantity.Equal(decimal.NewFromInt(6)))
		assert.True(t, item.Total.Equal(decimal.NewFromInt(600)))
		assert.True(t, item.ShadowTotal.Equal(decimal.NewFromInt(480)))
		assert.False(t, item.Returned)
	})

	t.Run("flags item returned at zero quantity", func(t *testing.T) {
		p := newTestPurchase(t)
		item, err := p.AddItem(uuid.New(), uuid.New(), decimal.NewFromInt(10), dual(100, 80))
		require.NoError(t, err)

		require.NoError(t, item.Reduce(decimal.NewFromInt(10)))
		assert.True(t, item.Returned)
	})

	t.Run("rejects reducing below zero", func(t *testing.T) {
		p := newTestPurchase(t)
		item, err := p.AddItem(uuid.New(), uuid.New(), decimal.NewFromInt(5), dual(100, 80))
		require.NoError(t, err)

		assert.ErrorIs(t, item.Reduce(decimal.NewFromInt(6)), shared.ErrValidation)
	})
}

func TestPurchase_ApplyRefund(t *testing.T) {
	t.Run("grows paid and shrinks due on both columns", func(t *testing.T) {
		p := newTestPurchase(t)
		_, err := p.AddItem(uuid.New(), uuid.New(), decimal.NewFromInt(10), dual(100, 80))
		require.NoError(t, err)

		p.ApplyRefund(dual(300, 240))

		assert.True(t, p.PaidAmount.Equal(decimal.NewFromInt(300)))
		assert.True(t, p.ShadowPaidAmount.Equal(decimal.NewFromInt(240)))
		assert.True(t, p.DueAmount.Equal(decimal.NewFromInt(700)))
		assert.True(t, p.ShadowDueAmount.Equal(decimal.NewFromInt(560)))
		assert.Equal(t, PaymentStatusPartial, p.PaymentStatus)
	})

	t.Run("floors due at zero on excess refund", func(t *testing.T) {
		p := newTestPurchase(t)
		_, err := p.AddItem(uuid.New(), uuid.New(), decimal.NewFromInt(1), dual(100, 80))
		require.NoError(t, err)

		p.ApplyRefund(dual(150, 120))

		assert.True(t, p.DueAmount.IsZero())
		assert.True(t, p.ShadowDueAmount.IsZero())
		assert.Equal(t, PaymentStatusPaid, p.PaymentStatus)
	})
}

func TestPurchase_IncreaseDue(t *testing.T) {
	p := newTestPurchase(t)
	_, err := p.AddItem(uuid.New(), uuid.New(), decimal.NewFromInt(1), dual(100, 80))
	require.NoError(t, err)

	p.IncreaseDue(dual(50, 40))

	assert.True(t, p.DueAmount.Equal(decimal.NewFromInt(150)))
	assert.True(t, p.ShadowDueAmount.Equal(decimal.NewFromInt(120)))
}
