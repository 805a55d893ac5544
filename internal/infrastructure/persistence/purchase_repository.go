package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/trade"
)

// GormPurchaseRepository implements trade.PurchaseRepository using GORM
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRepository creates a new GormPurchaseRepository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

// FindByID finds a purchase by its ID
func (r *GormPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Purchase, error) {
	var purchase trade.Purchase
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&purchase, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

// FindByIDForUpdate finds a purchase by ID with a row lock on the header
func (r *GormPurchaseRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.Purchase, error) {
	var purchase trade.Purchase
	if err := withRowLock(r.db.WithContext(ctx)).
		First(&purchase, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Where("purchase_id = ?", id).
		Order("created_at ASC").
		Find(&purchase.Items).Error; err != nil {
		return nil, err
	}
	return &purchase, nil
}

// Save persists the purchase and its items
func (r *GormPurchaseRepository) Save(ctx context.Context, purchase *trade.Purchase) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(purchase).Error
}

// List returns purchases with pagination
func (r *GormPurchaseRepository) List(ctx context.Context, offset, limit int) ([]*trade.Purchase, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&trade.Purchase{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var purchases []*trade.Purchase
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&purchases).Error
	if err != nil {
		return nil, 0, err
	}
	return purchases, total, nil
}

var _ trade.PurchaseRepository = (*GormPurchaseRepository)(nil)
