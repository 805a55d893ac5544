package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcore/backend/internal/domain/shared"
)

func newSaleFixture(t *testing.T) (*Sale, *SaleItem) {
	sale, err := NewSale(uuid.New(), testActor())
	require.NoError(t, err)
	item, err := sale.AddItem(uuid.New(), uuid.New(), decimal.NewFromInt(5), dual(200, 160))
	require.NoError(t, err)
	return sale, item
}

func TestNewSalesReturn(t *testing.T) {
	t.Run("inherits customer from the sale", func(t *testing.T) {
		sale, _ := newSaleFixture(t)
		sr, err := NewSalesReturn(sale, uuid.New(), SalesReturnKindSaleReturn, SalesReturnSettlementMoneyBack, testActor())
		require.NoError(t, err)

		assert.Equal(t, sale.ID, sr.SaleID)
		assert.Equal(t, sale.CustomerID, sr.CustomerID)
		assert.True(t, sr.RestocksGoods())
	})

	t.Run("damaged returns do not restock", func(t *testing.T) {
		sale, _ := newSaleFixture(t)
		sr, err := NewSalesReturn(sale, uuid.New(), SalesReturnKindDamaged, SalesReturnSettlementMoneyBack, testActor())
		require.NoError(t, err)
		assert.False(t, sr.RestocksGoods())
	})

	t.Run("rejects invalid kind", func(t *testing.T) {
		sale, _ := newSaleFixture(t)
		_, err := NewSalesReturn(sale, uuid.New(), "BROKEN", SalesReturnSettlementMoneyBack, testActor())
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestSalesReturn_AddItem(t *testing.T) {
	t.Run("refund priced at the sale unit price", func(t *testing.T) {
		sale, item := newSaleFixture(t)
		sr, err := NewSalesReturn(sale, uuid.New(), SalesReturnKindSaleReturn, SalesReturnSettlementMoneyBack, testActor())
		require.NoError(t, err)

		line, err := sr.AddItem(item, decimal.NewFromInt(2))
		require.NoError(t, err)

		assert.True(t, line.RefundAmount.Equal(decimal.NewFromInt(400)))
		assert.True(t, line.ShadowRefundAmount.Equal(decimal.NewFromInt(320)))
		assert.True(t, sr.TotalReturnAmount.Equal(decimal.NewFromInt(400)))
	})

	t.Run("caps at the quantity sold", func(t *testing.T) {
		sale, item := newSaleFixture(t)
		sr, err := NewSalesReturn(sale, uuid.New(), SalesReturnKindSaleReturn, SalesReturnSettlementMoneyBack, testActor())
		require.NoError(t, err)

		_, err = sr.AddItem(item, decimal.NewFromInt(6))
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("rejects duplicate sale item", func(t *testing.T) {
		sale, item := newSaleFixture(t)
		sr, err := NewSalesReturn(sale, uuid.New(), SalesReturnKindSaleReturn, SalesReturnSettlementMoneyBack, testActor())
		require.NoError(t, err)

		_, err = sr.AddItem(item, decimal.NewFromInt(2))
		require.NoError(t, err)
		_, err = sr.AddItem(item, decimal.NewFromInt(1))
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestSalesReturn_NetDifference(t *testing.T) {
	sale, item := newSaleFixture(t)
	sr, err := NewSalesReturn(sale, uuid.New(), SalesReturnKindSaleReturn, SalesReturnSettlementProductReplacement, testActor())
	require.NoError(t, err)

	_, err = sr.AddItem(item, decimal.NewFromInt(2))
	require.NoError(t, err)
	_, err = sr.AddReplacement(uuid.New(), uuid.New(), decimal.NewFromInt(1), dual(450, 360))
	require.NoError(t, err)

	net := sr.NetDifference()
	assert.True(t, net.Real().Equal(decimal.NewFromInt(50)))
	assert.True(t, net.Shadow().Equal(decimal.NewFromInt(40)))
}

func TestSale_RecomputeReturnStatus(t *testing.T) {
	sale, _ := newSaleFixture(t)

	sale.RecomputeReturnStatus(decimal.Zero)
	assert.Equal(t, SaleReturnStatusNone, sale.ReturnStatus)

	sale.RecomputeReturnStatus(decimal.NewFromInt(2))
	assert.Equal(t, SaleReturnStatusPartiallyReturned, sale.ReturnStatus)

	sale.RecomputeReturnStatus(decimal.NewFromInt(5))
	assert.Equal(t, SaleReturnStatusFullyReturned, sale.ReturnStatus)
}
