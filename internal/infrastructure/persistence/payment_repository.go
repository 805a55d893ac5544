package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailcore/backend/internal/domain/finance"
	"github.com/retailcore/backend/internal/domain/shared"
)

// GormPaymentRepository implements finance.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Append inserts a ledger entry
func (r *GormPaymentRepository) Append(ctx context.Context, payment *finance.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// Update persists a status change on an existing entry
func (r *GormPaymentRepository) Update(ctx context.Context, payment *finance.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// FindByID finds a payment by its ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Payment, error) {
	var payment finance.Payment
	if err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindByReference returns the ledger entries booked against one document
func (r *GormPaymentRepository) FindByReference(ctx context.Context, refType finance.PaymentReferenceType, refID uuid.UUID) ([]*finance.Payment, error) {
	var payments []*finance.Payment
	err := r.db.WithContext(ctx).
		Where("reference_type = ? AND reference_id = ?", refType, refID).
		Order("created_at ASC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// FindByParty returns the ledger entries for one supplier or customer
func (r *GormPaymentRepository) FindByParty(ctx context.Context, partyID uuid.UUID) ([]*finance.Payment, error) {
	var payments []*finance.Payment
	err := r.db.WithContext(ctx).
		Where("party_id = ?", partyID).
		Order("created_at ASC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

var _ finance.PaymentRepository = (*GormPaymentRepository)(nil)

// GormExpenseRepository implements finance.ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// Append inserts an expense record
func (r *GormExpenseRepository) Append(ctx context.Context, expense *finance.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

// FindByReference returns the expenses booked against one document
func (r *GormExpenseRepository) FindByReference(ctx context.Context, referenceID uuid.UUID) ([]*finance.Expense, error) {
	var expenses []*finance.Expense
	err := r.db.WithContext(ctx).
		Where("reference_id = ?", referenceID).
		Order("created_at ASC").
		Find(&expenses).Error
	if err != nil {
		return nil, err
	}
	return expenses, nil
}

var _ finance.ExpenseRepository = (*GormExpenseRepository)(nil)
