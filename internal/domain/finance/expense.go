package finance

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/shared/valueobject"
)

// ExpenseCategory classifies an expense record
type ExpenseCategory string

const (
	// ExpenseCategoryDamagedGoods is the write-off booked when a damaged
	// sales return keeps the goods out of sellable stock
	ExpenseCategoryDamagedGoods ExpenseCategory = "DAMAGED_GOODS"
	// ExpenseCategorySalesRefund is the refund paid out on a sales return
	ExpenseCategorySalesRefund ExpenseCategory = "SALES_REFUND"
)

// IsValid checks if the category is valid
func (c ExpenseCategory) IsValid() bool {
	switch c {
	case ExpenseCategoryDamagedGoods, ExpenseCategorySalesRefund:
		return true
	}
	return false
}

// String returns the string representation
func (c ExpenseCategory) String() string {
	return string(c)
}

// Expense is a write-off record in both monetary views
type Expense struct {
	shared.BaseEntity
	Category     ExpenseCategory `gorm:"type:varchar(30);not null"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ShadowAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReferenceID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_expense_reference"`
	Note         string          `gorm:"type:varchar(500)"`
	CreatedBy    *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Expense) TableName() string {
	return "expenses"
}

// NewExpense creates an expense record
func NewExpense(category ExpenseCategory, amount valueobject.Valuation, referenceID uuid.UUID, note string, actor shared.Actor) (*Expense, error) {
	if !category.IsValid() {
		return nil, shared.NewValidationError("Invalid expense category")
	}
	if amount.Sign() <= 0 {
		return nil, shared.NewValidationError("Expense amount must be positive")
	}
	if referenceID == uuid.Nil {
		return nil, shared.NewValidationError("Reference ID cannot be empty")
	}

	e := &Expense{
		BaseEntity:   shared.NewBaseEntity(),
		Category:     category,
		Amount:       amount.Real(),
		ShadowAmount: amount.Shadow(),
		ReferenceID:  referenceID,
		Note:         note,
	}
	if actor.IsValid() {
		id := actor.UserID
		e.CreatedBy = &id
	}
	return e, nil
}

// AmountValuation returns the dual amount
func (e *Expense) AmountValuation() valueobject.Valuation {
	return valueobject.NewValuation(e.Amount, e.ShadowAmount)
}
