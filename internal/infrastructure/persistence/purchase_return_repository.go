package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/trade"
)

// GormPurchaseReturnRepository implements trade.PurchaseReturnRepository using GORM
type GormPurchaseReturnRepository struct {
	db *gorm.DB
}

// NewGormPurchaseReturnRepository creates a new GormPurchaseReturnRepository
func NewGormPurchaseReturnRepository(db *gorm.DB) *GormPurchaseReturnRepository {
	return &GormPurchaseReturnRepository{db: db}
}

// FindByID finds a purchase return by its ID
func (r *GormPurchaseReturnRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseReturn, error) {
	var pr trade.PurchaseReturn
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Replacements").
		First(&pr, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &pr, nil
}

// FindByIDForUpdate finds a purchase return by ID with a row lock on the header
func (r *GormPurchaseReturnRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.PurchaseReturn, error) {
	var pr trade.PurchaseReturn
	if err := withRowLock(r.db.WithContext(ctx)).
		First(&pr, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Where("return_id = ?", id).
		Order("created_at ASC").
		Find(&pr.Items).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Where("return_id = ?", id).
		Order("created_at ASC").
		Find(&pr.Replacements).Error; err != nil {
		return nil, err
	}
	return &pr, nil
}

// FindByPurchaseID returns all returns raised against one purchase
func (r *GormPurchaseReturnRepository) FindByPurchaseID(ctx context.Context, purchaseID uuid.UUID) ([]*trade.PurchaseReturn, error) {
	var returns []*trade.PurchaseReturn
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Replacements").
		Where("purchase_id = ?", purchaseID).
		Order("created_at ASC").
		Find(&returns).Error
	if err != nil {
		return nil, err
	}
	return returns, nil
}

// SumCompletedReturnQuantity totals the quantity already returned against one
// purchase item across completed returns.
func (r *GormPurchaseReturnRepository) SumCompletedReturnQuantity(ctx context.Context, purchaseItemID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&trade.PurchaseReturnItem{}).
		Select("COALESCE(SUM(purchase_return_items.return_quantity), 0) AS total").
		Joins("JOIN purchase_returns ON purchase_returns.id = purchase_return_items.return_id").
		Where("purchase_return_items.purchase_item_id = ? AND purchase_returns.status = ?",
			purchaseItemID, trade.PurchaseReturnStatusCompleted).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// Save persists the return with its items and replacement lines
func (r *GormPurchaseReturnRepository) Save(ctx context.Context, pr *trade.PurchaseReturn) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(pr).Error
}

// Delete removes a return and its lines
func (r *GormPurchaseReturnRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Delete(&trade.PurchaseReturnItem{}, "return_id = ?", id).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).
		Delete(&trade.ReplacementProduct{}, "return_id = ?", id).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&trade.PurchaseReturn{}, "id = ?", id).Error
}

// List returns purchase returns with pagination
func (r *GormPurchaseReturnRepository) List(ctx context.Context, offset, limit int) ([]*trade.PurchaseReturn, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&trade.PurchaseReturn{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var returns []*trade.PurchaseReturn
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

var _ trade.PurchaseReturnRepository = (*GormPurchaseReturnRepository)(nil)
