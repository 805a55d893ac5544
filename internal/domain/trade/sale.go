package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/shared/valueobject"
)

// SaleReturnStatus is the rollup of how much of a sale has come back
type SaleReturnStatus string

const (
	SaleReturnStatusNone              SaleReturnStatus = "NONE"
	SaleReturnStatusPartiallyReturned SaleReturnStatus = "PARTIALLY_RETURNED"
	SaleReturnStatusFullyReturned     SaleReturnStatus = "FULLY_RETURNED"
)

// String returns the string representation
func (s SaleReturnStatus) String() string {
	return string(s)
}

// SaleItem is a line item on a sale
type SaleItem struct {
	shared.BaseEntity
	SaleID          uuid.UUID       `gorm:"type:uuid;not null;index:idx_sale_item_sale"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null"`
	VariantID       uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ShadowUnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Total           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ShadowTotal     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (SaleItem) TableName() string {
	return "sale_items"
}

// NewSaleItem creates a new sale line item
func NewSaleItem(saleID, productID, variantID uuid.UUID, quantity decimal.Decimal, unitPrice valueobject.Valuation) (*SaleItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Item quantity must be positive")
	}
	if unitPrice.Real().IsNegative() || unitPrice.Shadow().IsNegative() {
		return nil, shared.NewValidationError("Unit price cannot be negative")
	}

	total := unitPrice.MulQuantity(quantity)
	return &SaleItem{
		BaseEntity:      shared.NewBaseEntity(),
		SaleID:          saleID,
		ProductID:       productID,
		VariantID:       variantID,
		Quantity:        quantity,
		UnitPrice:       unitPrice.Real(),
		ShadowUnitPrice: unitPrice.Shadow(),
		Total:           total.Real(),
		ShadowTotal:     total.Shadow(),
	}, nil
}

// UnitPriceValuation returns the dual unit price
func (i *SaleItem) UnitPriceValuation() valueobject.Valuation {
	return valueobject.NewValuation(i.UnitPrice, i.ShadowUnitPrice)
}

// TotalValuation returns the dual line total
func (i *SaleItem) TotalValuation() valueobject.Valuation {
	return valueobject.NewValuation(i.Total, i.ShadowTotal)
}

// Sale is the aggregate root for a customer sale
type Sale struct {
	shared.BaseAggregateRoot
	CustomerID       uuid.UUID        `gorm:"type:uuid;not null;index:idx_sale_customer"`
	Items            []SaleItem       `gorm:"foreignKey:SaleID"`
	GrandTotal       decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	ShadowGrandTotal decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	PaidAmount       decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	ShadowPaidAmount decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	DueAmount        decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	ShadowDueAmount  decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	PaymentStatus    PaymentStatus    `gorm:"type:varchar(20);not null"`
	ReturnStatus     SaleReturnStatus `gorm:"type:varchar(30);not null"`
	CreatedBy        *uuid.UUID       `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// NewSale creates a new sale
func NewSale(customerID uuid.UUID, actor shared.Actor) (*Sale, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("Customer ID cannot be empty")
	}

	s := &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		Items:             make([]SaleItem, 0),
		GrandTotal:        decimal.Zero,
		ShadowGrandTotal:  decimal.Zero,
		PaidAmount:        decimal.Zero,
		ShadowPaidAmount:  decimal.Zero,
		DueAmount:         decimal.Zero,
		ShadowDueAmount:   decimal.Zero,
		PaymentStatus:     PaymentStatusUnpaid,
		ReturnStatus:      SaleReturnStatusNone,
	}
	if actor.IsValid() {
		id := actor.UserID
		s.CreatedBy = &id
	}
	return s, nil
}

// AddItem adds a new line item and refreshes header totals
func (s *Sale) AddItem(productID, variantID uuid.UUID, quantity decimal.Decimal, unitPrice valueobject.Valuation) (*SaleItem, error) {
	item, err := NewSaleItem(s.ID, productID, variantID, quantity, unitPrice)
	if err != nil {
		return nil, err
	}
	s.Items = append(s.Items, *item)
	s.recalculateTotals()
	return item, nil
}

// GetItem returns an item by its ID
func (s *Sale) GetItem(itemID uuid.UUID) *SaleItem {
	for idx := range s.Items {
		if s.Items[idx].ID == itemID {
			return &s.Items[idx]
		}
	}
	return nil
}

// TotalSoldQuantity sums the quantity across all line items
func (s *Sale) TotalSoldQuantity() decimal.Decimal {
	total := decimal.Zero
	for idx := range s.Items {
		total = total.Add(s.Items[idx].Quantity)
	}
	return total
}

// RecomputeReturnStatus compares the cumulative returned quantity against the
// originally sold quantity and updates the rollup status.
func (s *Sale) RecomputeReturnStatus(returnedQuantity decimal.Decimal) {
	switch {
	case returnedQuantity.LessThanOrEqual(decimal.Zero):
		s.ReturnStatus = SaleReturnStatusNone
	case returnedQuantity.GreaterThanOrEqual(s.TotalSoldQuantity()):
		s.ReturnStatus = SaleReturnStatusFullyReturned
	default:
		s.ReturnStatus = SaleReturnStatusPartiallyReturned
	}
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// recalculateTotals refreshes the grand total and due amount from line items
func (s *Sale) recalculateTotals() {
	grand := valueobject.ZeroValuation()
	for idx := range s.Items {
		grand = grand.Add(s.Items[idx].TotalValuation())
	}
	due := grand.SubFloorZero(valueobject.NewValuation(s.PaidAmount, s.ShadowPaidAmount))
	s.GrandTotal = grand.Real()
	s.ShadowGrandTotal = grand.Shadow()
	s.DueAmount = due.Real()
	s.ShadowDueAmount = due.Shadow()
	s.recomputePaymentStatus()
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// recomputePaymentStatus derives the payment status from the real columns
func (s *Sale) recomputePaymentStatus() {
	switch {
	case s.DueAmount.IsZero() && s.PaidAmount.GreaterThan(decimal.Zero):
		s.PaymentStatus = PaymentStatusPaid
	case s.PaidAmount.GreaterThan(decimal.Zero):
		s.PaymentStatus = PaymentStatusPartial
	default:
		s.PaymentStatus = PaymentStatusUnpaid
	}
}
