package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcore/backend/internal/domain/shared"
)

func newReturnFixture(t *testing.T, returnType PurchaseReturnType) (*Purchase, *PurchaseItem, *PurchaseReturn) {
	p := newTestPurchase(t)
	item, err := p.AddItem(uuid.New(), uuid.New(), decimal.NewFromInt(10), dual(100, 80))
	require.NoError(t, err)

	pr, err := NewPurchaseReturn(p, returnType, RefundPaymentTypeCash, testActor())
	require.NoError(t, err)
	return p, item, pr
}

func TestNewPurchaseReturn(t *testing.T) {
	t.Run("starts pending and inherits supplier and warehouse", func(t *testing.T) {
		p, _, pr := newReturnFixture(t, PurchaseReturnTypeMoneyBack)

		assert.Equal(t, PurchaseReturnStatusPending, pr.Status)
		assert.Equal(t, p.SupplierID, pr.SupplierID)
		assert.Equal(t, p.WarehouseID, pr.WarehouseID)
		assert.True(t, pr.IsPending())
	})

	t.Run("defaults payment type to cash", func(t *testing.T) {
		p := newTestPurchase(t)
		pr, err := NewPurchaseReturn(p, PurchaseReturnTypeMoneyBack, "", testActor())
		require.NoError(t, err)
		assert.Equal(t, RefundPaymentTypeCash, pr.PaymentType)
	})

	t.Run("rejects invalid return type", func(t *testing.T) {
		p := newTestPurchase(t)
		_, err := NewPurchaseReturn(p, "WHATEVER", RefundPaymentTypeCash, testActor())
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestPurchaseReturn_AddItem(t *testing.T) {
	t.Run("prices the line at the purchase item unit price", func(t *testing.T) {
		_, item, pr := newReturnFixture(t, PurchaseReturnTypeMoneyBack)

		line, err := pr.AddItem(item, decimal.NewFromInt(3), decimal.NewFromInt(10), decimal.Zero)
		require.NoError(t, err)

		assert.True(t, line.RefundAmount.Equal(decimal.NewFromInt(300)))
		assert.True(t, line.ShadowRefundAmount.Equal(decimal.NewFromInt(240)))
		assert.True(t, pr.TotalReturnAmount.Equal(decimal.NewFromInt(300)))
		assert.True(t, pr.ShadowTotalReturn.Equal(decimal.NewFromInt(240)))
	})

	t.Run("caps at remaining purchase quantity after prior returns", func(t *testing.T) {
		_, item, pr := newReturnFixture(t, PurchaseReturnTypeMoneyBack)

		// 10 purchased, 8 already returned, only 2 left
		_, err := pr.AddItem(item, decimal.NewFromInt(3), decimal.NewFromInt(10), decimal.NewFromInt(8))
		assert.ErrorIs(t, err, shared.ErrValidation)

		_, err = pr.AddItem(item, decimal.NewFromInt(2), decimal.NewFromInt(10), decimal.NewFromInt(8))
		assert.NoError(t, err)
	})

	t.Run("caps at stock on hand", func(t *testing.T) {
		_, item, pr := newReturnFixture(t, PurchaseReturnTypeMoneyBack)

		_, err := pr.AddItem(item, decimal.NewFromInt(5), decimal.NewFromInt(4), decimal.Zero)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("rejects duplicate purchase item", func(t *testing.T) {
		_, item, pr := newReturnFixture(t, PurchaseReturnTypeMoneyBack)

		_, err := pr.AddItem(item, decimal.NewFromInt(2), decimal.NewFromInt(10), decimal.Zero)
		require.NoError(t, err)
		_, err = pr.AddItem(item, decimal.NewFromInt(1), decimal.NewFromInt(10), decimal.Zero)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("rejects items once approved", func(t *testing.T) {
		_, item, pr := newReturnFixture(t, PurchaseReturnTypeMoneyBack)
		_, err := pr.AddItem(item, decimal.NewFromInt(2), decimal.NewFromInt(10), decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, pr.Approve(testActor()))

		_, err = pr.AddItem(item, decimal.NewFromInt(1), decimal.NewFromInt(10), decimal.Zero)
		assert.ErrorIs(t, err, shared.ErrInvalidStateTransition)
	})
}

func TestPurchaseReturn_AddReplacement(t *testing.T) {
	t.Run("only allowed on product replacement returns", func(t *testing.T) {
		_, _, pr := newReturnFixture(t, PurchaseReturnTypeMoneyBack)
		_, err := pr.AddReplacement(uuid.New(), uuid.New(), decimal.NewFromInt(1), dual(100, 80))
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("accumulates replacement total", func(t *testing.T) {
		_, _, pr := newReturnFixture(t, PurchaseReturnTypeProductReplacement)

		_, err := pr.AddReplacement(uuid.New(), uuid.New(), decimal.NewFromInt(2), dual(100, 80))
		require.NoError(t, err)
		_, err = pr.AddReplacement(uuid.New(), uuid.New(), decimal.NewFromInt(1), dual(150, 120))
		require.NoError(t, err)

		assert.True(t, pr.ReplacementTotal.Equal(decimal.NewFromInt(350)))
		assert.True(t, pr.ShadowReplacementTotal.Equal(decimal.NewFromInt(280)))
	})
}

func TestPurchaseReturn_StateMachine(t *testing.T) {
	t.Run("pending to approved to completed", func(t *testing.T) {
		_, item, pr := newReturnFixture(t, PurchaseReturnTypeMoneyBack)
		_, err := pr.AddItem(item, decimal.NewFromInt(2), decimal.NewFromInt(10), decimal.Zero)
		require.NoError(t, err)

		actor := testActor()
		require.NoError(t, pr.Approve(actor))
		assert.True(t, pr.IsApproved())
		require.NotNil(t, pr.ApprovedAt)
		require.NotNil(t, pr.ApprovedBy)
		assert.Equal(t, actor.UserID, *pr.ApprovedBy)

		require.NoError(t, pr.Complete(actor))
		assert.True(t, pr.IsCompleted())
		require.NotNil(t, pr.CompletedAt)
	})

	t.Run("cannot approve an empty return", func(t *testing.T) {
		_, _, pr := newReturnFixture(t, PurchaseReturnTypeMoneyBack)
		assert.ErrorIs(t, pr.Approve(testActor()), shared.ErrValidation)
	})

	t.Run("cannot complete a pending return", func(t *testing.T) {
		_, _, pr := newReturnFixture(t, PurchaseReturnTypeMoneyBack)
		assert.ErrorIs(t, pr.Complete(testActor()), shared.ErrInvalidStateTransition)
	})

	t.Run("cannot approve twice", func(t *testing.T) {
		_, item, pr := newReturnFixture(t, PurchaseReturnTypeMoneyBack)
		_, err := pr.AddItem(item, decimal.NewFromInt(2), decimal.NewFromInt(10), decimal.Zero)
		require.NoError(t, err)

		require.NoError(t, pr.Approve(testActor()))
		assert.ErrorIs(t, pr.Approve(testActor()), shared.ErrInvalidStateTransition)
	})

	t.Run("deletable only while pending", func(t *testing.T) {
		_, item, pr := newReturnFixture(t, PurchaseReturnTypeMoneyBack)
		_, err := pr.AddItem(item, decimal.NewFromInt(2), decimal.NewFromInt(10), decimal.Zero)
		require.NoError(t, err)

		assert.NoError(t, pr.EnsureDeletable())
		require.NoError(t, pr.Approve(testActor()))
		assert.ErrorIs(t, pr.EnsureDeletable(), shared.ErrInvalidStateTransition)
	})
}

func TestPurchaseReturn_NetDifference(t *testing.T) {
	t.Run("replacement worth more than returned goods", func(t *testing.T) {
		_, item, pr := newReturnFixture(t, PurchaseReturnTypeProductReplacement)
		_, err := pr.AddItem(item, decimal.NewFromInt(3), decimal.NewFromInt(10), decimal.Zero)
		require.NoError(t, err)
		_, err = pr.AddReplacement(uuid.New(), uuid.New(), decimal.NewFromInt(1), dual(350, 280))
		require.NoError(t, err)

		net := pr.NetDifference()
		assert.True(t, net.Real().Equal(decimal.NewFromInt(50)))
		assert.True(t, net.Shadow().Equal(decimal.NewFromInt(40)))
		assert.Equal(t, 1, net.Sign())
	})

	t.Run("replacement worth less than returned goods", func(t *testing.T) {
		_, item, pr := newReturnFixture(t, PurchaseReturnTypeProductReplacement)
		_, err := pr.AddItem(item, decimal.NewFromInt(3), decimal.NewFromInt(10), decimal.Zero)
		require.NoError(t, err)
		_, err = pr.AddReplacement(uuid.New(), uuid.New(), decimal.NewFromInt(1), dual(250, 200))
		require.NoError(t, err)

		net := pr.NetDifference()
		assert.True(t, net.Real().Equal(decimal.NewFromInt(-50)))
		assert.Equal(t, -1, net.Sign())
	})
}
