package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseRepository manages purchase persistence
type PurchaseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Purchase, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Purchase, error)
	Save(ctx context.Context, purchase *Purchase) error
	List(ctx context.Context, offset, limit int) ([]*Purchase, int64, error)
}

// SaleRepository manages sale persistence
type SaleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Sale, error)
	Save(ctx context.Context, sale *Sale) error
	List(ctx context.Context, offset, limit int) ([]*Sale, int64, error)
}

// PurchaseReturnRepository manages purchase return persistence
type PurchaseReturnRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseReturn, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*PurchaseReturn, error)
	FindByPurchaseID(ctx context.Context, purchaseID uuid.UUID) ([]*PurchaseReturn, error)
	// SumCompletedReturnQuantity totals the quantity already returned against
	// one purchase item across completed returns.
	SumCompletedReturnQuantity(ctx context.Context, purchaseItemID uuid.UUID) (decimal.Decimal, error)
	Save(ctx context.Context, purchaseReturn *PurchaseReturn) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, offset, limit int) ([]*PurchaseReturn, int64, error)
}

// SalesReturnRepository manages sales return persistence
type SalesReturnRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SalesReturn, error)
	FindBySaleID(ctx context.Context, saleID uuid.UUID) (*SalesReturn, error)
	ExistsForSale(ctx context.Context, saleID uuid.UUID) (bool, error)
	Save(ctx context.Context, salesReturn *SalesReturn) error
	List(ctx context.Context, offset, limit int) ([]*SalesReturn, int64, error)
}
