package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/shared/valueobject"
)

// PaymentStatus represents how much of a document's grand total is settled
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "UNPAID"
	PaymentStatusPartial PaymentStatus = "PARTIAL"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPartial, PaymentStatusPaid:
		return true
	}
	return false
}

// String returns the string representation
func (s PaymentStatus) String() string {
	return string(s)
}

// PurchaseItem is a line item on a purchase. Quantity and totals can grow
// through replacement upserts and shrink when goods go back to the supplier;
// an item whose quantity reaches zero through returns is flagged Returned.
type PurchaseItem struct {
	shared.BaseEntity
	PurchaseID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_purchase_item_purchase"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null"`
	VariantID       uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ShadowUnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Total           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ShadowTotal     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Returned        bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (PurchaseItem) TableName() string {
	return "purchase_items"
}

// NewPurchaseItem creates a new purchase line item
func NewPurchaseItem(purchaseID, productID, variantID uuid.UUID, quantity decimal.Decimal, unitPrice valueobject.Valuation) (*PurchaseItem, error) {
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
	return &PurchaseItem{
		BaseEntity:      shared.NewBaseEntity(),
		PurchaseID:      purchaseID,
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
func (i *PurchaseItem) UnitPriceValuation() valueobject.Valuation {
	return valueobject.NewValuation(i.UnitPrice, i.ShadowUnitPrice)
}

// TotalValuation returns the dual line total
func (i *PurchaseItem) TotalValuation() valueobject.Valuation {
	return valueobject.NewValuation(i.Total, i.ShadowTotal)
}

// Increase grows the item by the given quantity priced at the given unit
// price. Merge rule for replacement upserts: quantity and totals are additive,
// the original unit price is kept.
func (i *PurchaseItem) Increase(quantity decimal.Decimal, unitPrice valueobject.Valuation) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Quantity must be positive")
	}

	added := unitPrice.MulQuantity(quantity)
	i.Quantity = i.Quantity.Add(quantity)
	i.Total = i.Total.Add(added.Real())
	i.ShadowTotal = i.ShadowTotal.Add(added.Shadow())
	i.Returned = false
	i.UpdatedAt = time.Now()
	return nil
}

// Reduce shrinks the item quantity and totals proportionally to its own unit
// price. The item is flagged Returned once quantity reaches zero.
func (i *PurchaseItem) Reduce(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Quantity must be positive")
	}
	if quantity.GreaterThan(i.Quantity) {
		return shared.NewValidationError("Cannot reduce below zero quantity")
	}

	removed := i.UnitPriceValuation().MulQuantity(quantity)
	i.Quantity = i.Quantity.Sub(quantity)
	i.Total = i.Total.Sub(removed.Real())
	i.ShadowTotal = i.ShadowTotal.Sub(removed.Shadow())
	if i.Quantity.IsZero() {
		i.Returned = true
	}
	i.UpdatedAt = time.Now()
	return nil
}

// Purchase is the aggregate root for a supplier purchase: header totals in
// both monetary views plus the line items replenished into stock.
type Purchase struct {
	shared.BaseAggregateRoot
	SupplierID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_purchase_supplier"`
	WarehouseID      uuid.UUID       `gorm:"type:uuid;not null"`
	Items            []PurchaseItem  `gorm:"foreignKey:PurchaseID"`
	GrandTotal       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ShadowGrandTotal decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaidAmount       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ShadowPaidAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DueAmount        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ShadowDueAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaymentStatus    PaymentStatus   `gorm:"type:varchar(20);not null"`
	CreatedBy        *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Purchase) TableName() string {
	return "purchases"
}

// NewPurchase creates a new purchase
func NewPurchase(supplierID, warehouseID uuid.UUID, actor shared.Actor) (*Purchase, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewValidationError("Supplier ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewValidationError("Warehouse ID cannot be empty")
	}

	p := &Purchase{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SupplierID:        supplierID,
		WarehouseID:       warehouseID,
		Items:             make([]PurchaseItem, 0),
		GrandTotal:        decimal.Zero,
		ShadowGrandTotal:  decimal.Zero,
		PaidAmount:        decimal.Zero,
		ShadowPaidAmount:  decimal.Zero,
		DueAmount:         decimal.Zero,
		ShadowDueAmount:   decimal.Zero,
		PaymentStatus:     PaymentStatusUnpaid,
	}
	if actor.IsValid() {
		id := actor.UserID
		p.CreatedBy = &id
	}
	return p, nil
}

// AddItem adds a new line item and refreshes header totals
func (p *Purchase) AddItem(productID, variantID uuid.UUID, quantity decimal.Decimal, unitPrice valueobject.Valuation) (*PurchaseItem, error) {
	item, err := NewPurchaseItem(p.ID, productID, variantID, quantity, unitPrice)
	if err != nil {
		return nil, err
	}
	p.Items = append(p.Items, *item)
	p.recalculateTotals()
	return item, nil
}

// UpsertItem finds the line item for (product, variant) and increases it, or
// creates a new item when none exists. Used when replacement goods from a
// purchase return land on the original purchase.
func (p *Purchase) UpsertItem(productID, variantID uuid.UUID, quantity decimal.Decimal, unitPrice valueobject.Valuation) (*PurchaseItem, error) {
	for idx := range p.Items {
		if p.Items[idx].ProductID == productID && p.Items[idx].VariantID == variantID {
			if err := p.Items[idx].Increase(quantity, unitPrice); err != nil {
				return nil, err
			}
			p.recalculateTotals()
			return &p.Items[idx], nil
		}
	}
	return p.AddItem(productID, variantID, quantity, unitPrice)
}

// GetItem returns an item by its ID
func (p *Purchase) GetItem(itemID uuid.UUID) *PurchaseItem {
	for idx := range p.Items {
		if p.Items[idx].ID == itemID {
			return &p.Items[idx]
		}
	}
	return nil
}

// GrandTotalValuation returns the dual grand total
func (p *Purchase) GrandTotalValuation() valueobject.Valuation {
	return valueobject.NewValuation(p.GrandTotal, p.ShadowGrandTotal)
}

// DueValuation returns the dual due amount
func (p *Purchase) DueValuation() valueobject.Valuation {
	return valueobject.NewValuation(p.DueAmount, p.ShadowDueAmount)
}

// PaidValuation returns the dual paid amount
func (p *Purchase) PaidValuation() valueobject.Valuation {
	return valueobject.NewValuation(p.PaidAmount, p.ShadowPaidAmount)
}

// ApplyRefund books a supplier refund against the header: the paid amount
// grows by the refund and the due amount shrinks, floored at zero so an
// excess refund spills into paid rather than driving due negative. Both
// monetary views follow the same arithmetic.
func (p *Purchase) ApplyRefund(refund valueobject.Valuation) {
	paid := p.PaidValuation().Add(refund)
	due := p.DueValuation().SubFloorZero(refund)
	p.PaidAmount = paid.Real()
	p.ShadowPaidAmount = paid.Shadow()
	p.DueAmount = due.Real()
	p.ShadowDueAmount = due.Shadow()
	p.recomputePaymentStatus()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// IncreaseDue raises the outstanding amount (replacement worth more than the
// returned goods).
func (p *Purchase) IncreaseDue(amount valueobject.Valuation) {
	due := p.DueValuation().Add(amount)
	p.DueAmount = due.Real()
	p.ShadowDueAmount = due.Shadow()
	p.recomputePaymentStatus()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// ApplyReplacementItems books the item side of a product replacement return:
// returned line quantities shrink, replacement lines merge in additively
// keeping the original unit price on existing lines. The grand total is
// refreshed from the items; due and paid are moved separately by the net
// difference so a previously floored due amount is not re-derived.
func (p *Purchase) ApplyReplacementItems(returnItems []PurchaseReturnItem, replacements []ReplacementProduct) error {
	for idx := range returnItems {
		item := p.GetItem(returnItems[idx].PurchaseItemID)
		if item == nil {
			return shared.NewDomainError(shared.CodeNotFound, "Purchase item not found: "+returnItems[idx].PurchaseItemID.String())
		}
		if err := item.Reduce(returnItems[idx].ReturnQuantity); err != nil {
			return err
		}
	}

	for idx := range replacements {
		line := &replacements[idx]
		merged := false
		for j := range p.Items {
			if p.Items[j].ProductID == line.ProductID && p.Items[j].VariantID == line.VariantID {
				if err := p.Items[j].Increase(line.Quantity, line.UnitPriceValuation()); err != nil {
					return err
				}
				merged = true
				break
			}
		}
		if merged {
			continue
		}
		item, err := NewPurchaseItem(p.ID, line.ProductID, line.VariantID, line.Quantity, line.UnitPriceValuation())
		if err != nil {
			return err
		}
		p.Items = append(p.Items, *item)
	}

	grand := valueobject.ZeroValuation()
	for idx := range p.Items {
		grand = grand.Add(p.Items[idx].TotalValuation())
	}
	p.GrandTotal = grand.Real()
	p.ShadowGrandTotal = grand.Shadow()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// recalculateTotals refreshes the grand total and due amount from line items.
// Paid amount is preserved; due = grand - paid, floored at zero.
func (p *Purchase) recalculateTotals() {
	grand := valueobject.ZeroValuation()
	for idx := range p.Items {
		grand = grand.Add(p.Items[idx].TotalValuation())
	}
	due := grand.SubFloorZero(p.PaidValuation())
	p.GrandTotal = grand.Real()
	p.ShadowGrandTotal = grand.Shadow()
	p.DueAmount = due.Real()
	p.ShadowDueAmount = due.Shadow()
	p.recomputePaymentStatus()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// recomputePaymentStatus derives the payment status from the real columns
func (p *Purchase) recomputePaymentStatus() {
	switch {
	case p.DueAmount.IsZero() && p.PaidAmount.GreaterThan(decimal.Zero):
		p.PaymentStatus = PaymentStatusPaid
	case p.PaidAmount.GreaterThan(decimal.Zero):
		p.PaymentStatus = PaymentStatusPartial
	default:
		p.PaymentStatus = PaymentStatusUnpaid
	}
}
