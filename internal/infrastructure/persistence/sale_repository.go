package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/trade"
)

// GormSaleRepository implements trade.SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale by its ID
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Sale, error) {
	var sale trade.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindByIDForUpdate finds a sale by ID with a row lock on the header
func (r *GormSaleRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.Sale, error) {
	var sale trade.Sale
	if err := withRowLock(r.db.WithContext(ctx)).
		First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Where("sale_id = ?", id).
		Order("created_at ASC").
		Find(&sale.Items).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

// Save persists the sale and its items
func (r *GormSaleRepository) Save(ctx context.Context, sale *trade.Sale) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(sale).Error
}

// List returns sales with pagination
func (r *GormSaleRepository) List(ctx context.Context, offset, limit int) ([]*trade.Sale, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&trade.Sale{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sales []*trade.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&sales).Error
	if err != nil {
		return nil, 0, err
	}
	return sales, total, nil
}

var _ trade.SaleRepository = (*GormSaleRepository)(nil)
