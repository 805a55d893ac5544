package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailcore/backend/internal/domain/stock"
)

// GormStockMovementRepository implements stock.StockMovementRepository using
// GORM. The table is append-only; there are no update or delete methods.
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Append inserts a movement row
func (r *GormStockMovementRepository) Append(ctx context.Context, movement *stock.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// FindByReference returns the movements recorded for one document
func (r *GormStockMovementRepository) FindByReference(ctx context.Context, referenceType stock.ReferenceType, referenceID uuid.UUID) ([]stock.StockMovement, error) {
	var movements []stock.StockMovement
	err := r.db.WithContext(ctx).
		Where("reference_type = ? AND reference_id = ?", referenceType, referenceID).
		Order("created_at ASC").
		Find(&movements).Error
	if err != nil {
		return nil, err
	}
	return movements, nil
}

var _ stock.StockMovementRepository = (*GormStockMovementRepository)(nil)
