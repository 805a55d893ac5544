package trade

import (
	"context"

	"github.com/retailcore/backend/internal/domain/finance"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/stock"
	"github.com/retailcore/backend/internal/domain/trade"
)

// Repositories bundles the repositories one transaction works against.
// Implementations hand out repositories bound to the same database
// transaction.
type Repositories interface {
	Purchases() trade.PurchaseRepository
	Sales() trade.SaleRepository
	PurchaseReturns() trade.PurchaseReturnRepository
	SalesReturns() trade.SalesReturnRepository
	StockLots() stock.StockLotRepository
	StockMovements() stock.StockMovementRepository
	Payments() finance.PaymentRepository
	Expenses() finance.ExpenseRepository
	Suppliers() partner.SupplierRepository
}

// TransactionScope runs a function inside a single database transaction.
// The function either commits as a whole or rolls back as a whole.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}
