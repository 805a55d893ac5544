package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/shared/valueobject"
)

// Supplier is the aggregate root for a goods supplier. The advance balance
// is credit held with the supplier, grown when a refund is adjusted to
// advance instead of being taken in cash.
type Supplier struct {
	shared.BaseAggregateRoot
	Name                 string          `gorm:"type:varchar(255);not null"`
	AdvanceBalance       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ShadowAdvanceBalance decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier with zero advance balance
func NewSupplier(name string) (*Supplier, error) {
	if name == "" {
		return nil, shared.NewValidationError("Supplier name cannot be empty")
	}

	return &Supplier{
		BaseAggregateRoot:    shared.NewBaseAggregateRoot(),
		Name:                 name,
		AdvanceBalance:       decimal.Zero,
		ShadowAdvanceBalance: decimal.Zero,
	}, nil
}

// NewSupplierWithID creates a supplier for a known external identity. Used
// when the supplier referenced by a purchase has no local row yet.
func NewSupplierWithID(id uuid.UUID, name string) (*Supplier, error) {
	if id == uuid.Nil {
		return nil, shared.NewValidationError("Supplier ID cannot be empty")
	}
	s, err := NewSupplier(name)
	if err != nil {
		return nil, err
	}
	s.ID = id
	return s, nil
}

// AdvanceValuation returns the dual advance balance
func (s *Supplier) AdvanceValuation() valueobject.Valuation {
	return valueobject.NewValuation(s.AdvanceBalance, s.ShadowAdvanceBalance)
}

// IncreaseAdvance grows the advance balance on both columns
func (s *Supplier) IncreaseAdvance(amount valueobject.Valuation) error {
	if amount.Sign() <= 0 {
		return shared.NewValidationError("Advance amount must be positive")
	}

	next := s.AdvanceValuation().Add(amount)
	s.AdvanceBalance = next.Real()
	s.ShadowAdvanceBalance = next.Shadow()
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}
