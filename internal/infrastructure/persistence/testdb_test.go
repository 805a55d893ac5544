package persistence

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/retailcore/backend/internal/domain/finance"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/shared/valueobject"
	"github.com/retailcore/backend/internal/domain/stock"
	"github.com/retailcore/backend/internal/domain/trade"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&stock.StockLot{},
		&stock.StockMovement{},
		&trade.Sale{},
		&trade.SaleItem{},
		&trade.Purchase{},
		&trade.PurchaseItem{},
		&trade.PurchaseReturn{},
		&trade.PurchaseReturnItem{},
		&trade.ReplacementProduct{},
		&trade.SalesReturn{},
		&trade.SalesReturnItem{},
		&trade.SalesReturnReplacement{},
		&finance.Payment{},
		&finance.Expense{},
		&partner.Supplier{},
	)
	require.NoError(t, err)

	return db
}

func testActor() shared.Actor {
	return shared.NewActor(uuid.New(), "tester")
}

func dec(value int64) decimal.Decimal {
	return decimal.NewFromInt(value)
}

func dual(real, shadow int64) valueobject.Valuation {
	return valueobject.NewValuation(decimal.NewFromInt(real), decimal.NewFromInt(shadow))
}
