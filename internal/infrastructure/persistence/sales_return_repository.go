package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/trade"
)

// GormSalesReturnRepository implements trade.SalesReturnRepository using GORM
type GormSalesReturnRepository struct {
	db *gorm.DB
}

// NewGormSalesReturnRepository creates a new GormSalesReturnRepository
func NewGormSalesReturnRepository(db *gorm.DB) *GormSalesReturnRepository {
	return &GormSalesReturnRepository{db: db}
}

// FindByID finds a sales return by its ID
func (r *GormSalesReturnRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SalesReturn, error) {
	var sr trade.SalesReturn
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Replacements").
		First(&sr, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sr, nil
}

// FindBySaleID finds the return raised against one sale
func (r *GormSalesReturnRepository) FindBySaleID(ctx context.Context, saleID uuid.UUID) (*trade.SalesReturn, error) {
	var sr trade.SalesReturn
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Replacements").
		First(&sr, "sale_id = ?", saleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sr, nil
}

// ExistsForSale reports whether a return was already raised against the sale
func (r *GormSalesReturnRepository) ExistsForSale(ctx context.Context, saleID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&trade.SalesReturn{}).
		Where("sale_id = ?", saleID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save persists the return with its items and replacement lines
func (r *GormSalesReturnRepository) Save(ctx context.Context, sr *trade.SalesReturn) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(sr).Error
}

// List returns sales returns with pagination
func (r *GormSalesReturnRepository) List(ctx context.Context, offset, limit int) ([]*trade.SalesReturn, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&trade.SalesReturn{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var returns []*trade.SalesReturn
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Replacements").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&returns).Error
	if err != nil {
		return nil, 0, err
	}
	return returns, total, nil
}

var _ trade.SalesReturnRepository = (*GormSalesReturnRepository)(nil)
