package persistence

import (
	"context"

	"gorm.io/gorm"

	apptrade "github.com/retailcore/backend/internal/application/trade"
	"github.com/retailcore/backend/internal/domain/finance"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/stock"
	"github.com/retailcore/backend/internal/domain/trade"
)

// GormTransactionScope implements apptrade.TransactionScope using GORM
// transactions. Every repository handed to the callback is bound to the same
// database transaction.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos apptrade.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepositories{tx: tx})
	})
}

// gormRepositories provides access to all repositories within a transaction
type gormRepositories struct {
	tx *gorm.DB
}

func (r *gormRepositories) Purchases() trade.PurchaseRepository {
	return NewGormPurchaseRepository(r.tx)
}

func (r *gormRepositories) Sales() trade.SaleRepository {
	return NewGormSaleRepository(r.tx)
}

func (r *gormRepositories) PurchaseReturns() trade.PurchaseReturnRepository {
	return NewGormPurchaseReturnRepository(r.tx)
}

func (r *gormRepositories) SalesReturns() trade.SalesReturnRepository {
	return NewGormSalesReturnRepository(r.tx)
}

func (r *gormRepositories) StockLots() stock.StockLotRepository {
	return NewGormStockLotRepository(r.tx)
}

func (r *gormRepositories) StockMovements() stock.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

func (r *gormRepositories) Payments() finance.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

func (r *gormRepositories) Expenses() finance.ExpenseRepository {
	return NewGormExpenseRepository(r.tx)
}

func (r *gormRepositories) Suppliers() partner.SupplierRepository {
	return NewGormSupplierRepository(r.tx)
}

var _ apptrade.TransactionScope = (*GormTransactionScope)(nil)
var _ apptrade.Repositories = (*gormRepositories)(nil)
