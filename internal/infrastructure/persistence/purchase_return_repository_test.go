package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcore/backend/internal/domain/trade"
)

func TestGormPurchaseReturnRepository_SumCompletedReturnQuantity(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPurchaseReturnRepository(db)
	ctx := context.Background()
	actor := testActor()

	purchase, err := trade.NewPurchase(uuid.New(), uuid.New(), actor)
	require.NoError(t, err)
	item, err := purchase.AddItem(uuid.New(), uuid.New(), dec(20), dual(100, 80))
	require.NoError(t, err)
	require.NoError(t, NewGormPurchaseRepository(db).Save(ctx, purchase))

	newReturn := func(t *testing.T, qty int64) *trade.PurchaseReturn {
		pr, err := trade.NewPurchaseReturn(purchase, trade.PurchaseReturnTypeMoneyBack, "", actor)
		require.NoError(t, err)
		_, err = pr.AddItem(item, dec(qty), dec(20), dec(0))
		require.NoError(t, err)
		return pr
	}

	// One completed, one approved, one pending, each returning 5
	completed := newReturn(t, 5)
	require.NoError(t, completed.Approve(actor))
	require.NoError(t, completed.Complete(actor))
	approved := newReturn(t, 5)
	require.NoError(t, approved.Approve(actor))
	pending := newReturn(t, 5)

	for _, pr := range []*trade.PurchaseReturn{completed, approved, pending} {
		require.NoError(t, repo.Save(ctx, pr))
	}

	total, err := repo.SumCompletedReturnQuantity(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(dec(5)), "only completed returns count, got %s", total)

	t.Run("zero for an item never returned", func(t *testing.T) {
		total, err := repo.SumCompletedReturnQuantity(ctx, uuid.New())
		require.NoError(t, err)
		assert.True(t, total.IsZero())
	})
}

func TestGormPurchaseReturnRepository_FindByPurchaseID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPurchaseReturnRepository(db)
	ctx := context.Background()
	actor := testActor()

	purchase, err := trade.NewPurchase(uuid.New(), uuid.New(), actor)
	require.NoError(t, err)
	item, err := purchase.AddItem(uuid.New(), uuid.New(), dec(10), dual(100, 80))
	require.NoError(t, err)
	require.NoError(t, NewGormPurchaseRepository(db).Save(ctx, purchase))

	pr, err := trade.NewPurchaseReturn(purchase, trade.PurchaseReturnTypeMoneyBack, "", actor)
	require.NoError(t, err)
	_, err = pr.AddItem(item, dec(2), dec(10), dec(0))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, pr))

	returns, err := repo.FindByPurchaseID(ctx, purchase.ID)
	require.NoError(t, err)
	require.Len(t, returns, 1)
	assert.Equal(t, pr.ID, returns[0].ID)
	require.Len(t, returns[0].Items, 1)
	assert.True(t, returns[0].Items[0].RefundAmount.Equal(dec(200)))

	returns, err = repo.FindByPurchaseID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, returns)
}
