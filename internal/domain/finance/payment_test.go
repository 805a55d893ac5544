package finance

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/shared/valueobject"
)

func dual(real, shadow int64) valueobject.Valuation {
	return valueobject.NewValuation(decimal.NewFromInt(real), decimal.NewFromInt(shadow))
}

func testActor() shared.Actor {
	return shared.NewActor(uuid.New(), "tester")
}

func TestNewRefundReceivedPayment(t *testing.T) {
	t.Run("books positive completed entry", func(t *testing.T) {
		p, err := NewRefundReceivedPayment(uuid.New(), dual(300, 240), PaymentReferencePurchaseReturn, uuid.New(), testActor())
		require.NoError(t, err)

		assert.True(t, p.Amount.Equal(decimal.NewFromInt(300)))
		assert.True(t, p.ShadowAmount.Equal(decimal.NewFromInt(240)))
		assert.Equal(t, PaymentLedgerStatusCompleted, p.Status)
		assert.NotNil(t, p.CompletedAt)
		assert.True(t, p.IsInflow())
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewRefundReceivedPayment(uuid.New(), dual(0, 0), PaymentReferencePurchaseReturn, uuid.New(), testActor())
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestNewAdditionalDuePayment(t *testing.T) {
	t.Run("stores the debt negative and pending", func(t *testing.T) {
		p, err := NewAdditionalDuePayment(uuid.New(), dual(50, 40), PaymentReferencePurchaseReturn, uuid.New(), testActor())
		require.NoError(t, err)

		assert.True(t, p.Amount.Equal(decimal.NewFromInt(-50)))
		assert.True(t, p.ShadowAmount.Equal(decimal.NewFromInt(-40)))
		assert.Equal(t, PaymentLedgerStatusPending, p.Status)
		assert.False(t, p.IsInflow())
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewAdditionalDuePayment(uuid.New(), dual(-50, -40), PaymentReferencePurchaseReturn, uuid.New(), testActor())
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestNewCustomerDuePayment(t *testing.T) {
	t.Run("keeps the caller's sign", func(t *testing.T) {
		owed, err := NewCustomerDuePayment(uuid.New(), dual(50, 40), uuid.New(), testActor())
		require.NoError(t, err)
		assert.True(t, owed.Amount.Equal(decimal.NewFromInt(50)))
		assert.Equal(t, PaymentLedgerStatusPending, owed.Status)

		refund, err := NewCustomerDuePayment(uuid.New(), dual(-50, -40), uuid.New(), testActor())
		require.NoError(t, err)
		assert.True(t, refund.Amount.Equal(decimal.NewFromInt(-50)))
	})

	t.Run("rejects zero amount", func(t *testing.T) {
		_, err := NewCustomerDuePayment(uuid.New(), dual(0, 0), uuid.New(), testActor())
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestPayment_MarkCompleted(t *testing.T) {
	p, err := NewAdditionalDuePayment(uuid.New(), dual(50, 40), PaymentReferencePurchaseReturn, uuid.New(), testActor())
	require.NoError(t, err)

	require.NoError(t, p.MarkCompleted())
	assert.Equal(t, PaymentLedgerStatusCompleted, p.Status)
	assert.NotNil(t, p.CompletedAt)

	assert.ErrorIs(t, p.MarkCompleted(), shared.ErrInvalidStateTransition)
}

func TestNewExpense(t *testing.T) {
	t.Run("books damaged goods write-off", func(t *testing.T) {
		e, err := NewExpense(ExpenseCategoryDamagedGoods, dual(200, 160), uuid.New(), "damaged on return", testActor())
		require.NoError(t, err)

		assert.True(t, e.Amount.Equal(decimal.NewFromInt(200)))
		assert.True(t, e.ShadowAmount.Equal(decimal.NewFromInt(160)))
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewExpense(ExpenseCategoryDamagedGoods, dual(0, 0), uuid.New(), "", testActor())
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		_, err := NewExpense("TRAVEL", dual(10, 10), uuid.New(), "", testActor())
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}
