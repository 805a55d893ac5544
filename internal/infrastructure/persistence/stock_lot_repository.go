package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/stock"
)

// GormStockLotRepository implements stock.StockLotRepository using GORM
type GormStockLotRepository struct {
	db *gorm.DB
}

// NewGormStockLotRepository creates a new GormStockLotRepository
func NewGormStockLotRepository(db *gorm.DB) *GormStockLotRepository {
	return &GormStockLotRepository{db: db}
}

// FindForAllocation returns the lots for a (product, variant) in FIFO order,
// locked for update so concurrent allocations serialize.
func (r *GormStockLotRepository) FindForAllocation(ctx context.Context, productID, variantID uuid.UUID, warehouseID *uuid.UUID) ([]stock.StockLot, error) {
	query := withRowLock(r.db.WithContext(ctx)).
		Where("product_id = ? AND variant_id = ?", productID, variantID)
	if warehouseID != nil {
		query = query.Where("warehouse_id = ?", *warehouseID)
	}

	var lots []stock.StockLot
	if err := query.Order("created_at ASC").Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// FindByKeyForUpdate returns the lot for the exact key, locked for update
func (r *GormStockLotRepository) FindByKeyForUpdate(ctx context.Context, warehouseID, productID, variantID uuid.UUID) (*stock.StockLot, error) {
	var lot stock.StockLot
	err := withRowLock(r.db.WithContext(ctx)).
		Where("warehouse_id = ? AND product_id = ? AND variant_id = ?", warehouseID, productID, variantID).
		First(&lot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrLotNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// FindByID finds a lot by its ID
func (r *GormStockLotRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.StockLot, error) {
	var lot stock.StockLot
	if err := r.db.WithContext(ctx).First(&lot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrLotNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// Save inserts or updates a lot
func (r *GormStockLotRepository) Save(ctx context.Context, lot *stock.StockLot) error {
	return r.db.WithContext(ctx).Save(lot).Error
}

// Delete removes a drained lot
func (r *GormStockLotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	lot, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if lot.HasStock() {
		return shared.NewValidationError("Cannot delete a lot that still holds stock")
	}
	return r.db.WithContext(ctx).Delete(&stock.StockLot{}, "id = ?", id).Error
}

var _ stock.StockLotRepository = (*GormStockLotRepository)(nil)
