package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/shared/valueobject"
)

// SalesReturnKind tells whether the returned goods go back to stock or are
// written off as damaged.
type SalesReturnKind string

const (
	SalesReturnKindSaleReturn SalesReturnKind = "SALE_RETURN"
	SalesReturnKindDamaged    SalesReturnKind = "DAMAGED"
)

// IsValid checks if the kind is valid
func (k SalesReturnKind) IsValid() bool {
	switch k {
	case SalesReturnKindSaleReturn, SalesReturnKindDamaged:
		return true
	}
	return false
}

// String returns the string representation
func (k SalesReturnKind) String() string {
	return string(k)
}

// SalesReturnSettlement tells how the customer is compensated
type SalesReturnSettlement string

const (
	SalesReturnSettlementMoneyBack          SalesReturnSettlement = "MONEY_BACK"
	SalesReturnSettlementProductReplacement SalesReturnSettlement = "PRODUCT_REPLACEMENT"
)

// IsValid checks if the settlement is valid
func (s SalesReturnSettlement) IsValid() bool {
	switch s {
	case SalesReturnSettlementMoneyBack, SalesReturnSettlementProductReplacement:
		return true
	}
	return false
}

// String returns the string representation
func (s SalesReturnSettlement) String() string {
	return string(s)
}

// SalesReturnItem is a line item on a sales return, priced at the original
// sale item's unit price.
type SalesReturnItem struct {
	shared.BaseEntity
	ReturnID           uuid.UUID       `gorm:"type:uuid;not null;index:idx_sr_item_return"`
	SaleItemID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_sr_item_sale_item"`
	ProductID          uuid.UUID       `gorm:"type:uuid;not null"`
	VariantID          uuid.UUID       `gorm:"type:uuid;not null"`
	ReturnQuantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ShadowUnitPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RefundAmount       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ShadowRefundAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (SalesReturnItem) TableName() string {
	return "sales_return_items"
}

// RefundValuation returns the dual refund amount of this line
func (i *SalesReturnItem) RefundValuation() valueobject.Valuation {
	return valueobject.NewValuation(i.RefundAmount, i.ShadowRefundAmount)
}

// SalesReturnReplacement is a replacement line handed to the customer in
// place of the returned goods.
type SalesReturnReplacement struct {
	shared.BaseEntity
	ReturnID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_sr_replacement_return"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null"`
	VariantID       uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ShadowUnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Total           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ShadowTotal     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (SalesReturnReplacement) TableName() string {
	return "sales_return_replacements"
}

// UnitPriceValuation returns the dual unit price
func (r *SalesReturnReplacement) UnitPriceValuation() valueobject.Valuation {
	return valueobject.NewValuation(r.UnitPrice, r.ShadowUnitPrice)
}

// TotalValuation returns the dual line total
func (r *SalesReturnReplacement) TotalValuation() valueobject.Valuation {
	return valueobject.NewValuation(r.Total, r.ShadowTotal)
}

// SalesReturn is the aggregate root for goods coming back from a customer.
// Unlike purchase returns there is no approval workflow; the return settles
// in the same transaction it is created in.
type SalesReturn struct {
	shared.BaseAggregateRoot
	SaleID                 uuid.UUID                `gorm:"type:uuid;not null;uniqueIndex:idx_sales_return_sale"`
	CustomerID             uuid.UUID                `gorm:"type:uuid;not null"`
	WarehouseID            uuid.UUID                `gorm:"type:uuid;not null"`
	Kind                   SalesReturnKind          `gorm:"type:varchar(30);not null"`
	Settlement             SalesReturnSettlement    `gorm:"type:varchar(30);not null"`
	Items                  []SalesReturnItem        `gorm:"foreignKey:ReturnID"`
	Replacements           []SalesReturnReplacement `gorm:"foreignKey:ReturnID"`
	TotalReturnAmount      decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	ShadowTotalReturn      decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	ReplacementTotal       decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	ShadowReplacementTotal decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	CreatedBy              *uuid.UUID               `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (SalesReturn) TableName() string {
	return "sales_returns"
}

// NewSalesReturn creates a sales return against an existing sale
func NewSalesReturn(sale *Sale, warehouseID uuid.UUID, kind SalesReturnKind, settlement SalesReturnSettlement, actor shared.Actor) (*SalesReturn, error) {
	if sale == nil {
		return nil, shared.NewValidationError("Sale cannot be nil")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewValidationError("Warehouse ID cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewValidationError("Invalid sales return kind")
	}
	if !settlement.IsValid() {
		return nil, shared.NewValidationError("Invalid sales return settlement")
	}

	sr := &SalesReturn{
		BaseAggregateRoot:      shared.NewBaseAggregateRoot(),
		SaleID:                 sale.ID,
		CustomerID:             sale.CustomerID,
		WarehouseID:            warehouseID,
		Kind:                   kind,
		Settlement:             settlement,
		Items:                  make([]SalesReturnItem, 0),
		Replacements:           make([]SalesReturnReplacement, 0),
		TotalReturnAmount:      decimal.Zero,
		ShadowTotalReturn:      decimal.Zero,
		ReplacementTotal:       decimal.Zero,
		ShadowReplacementTotal: decimal.Zero,
	}
	if actor.IsValid() {
		id := actor.UserID
		sr.CreatedBy = &id
	}
	return sr, nil
}

// AddItem adds a return line for one sale item, capped at the quantity
// originally sold on that line.
func (r *SalesReturn) AddItem(saleItem *SaleItem, returnQuantity decimal.Decimal) (*SalesReturnItem, error) {
	if saleItem == nil {
		return nil, shared.NewValidationError("Sale item cannot be nil")
	}
	if returnQuantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Return quantity must be positive")
	}
	for idx := range r.Items {
		if r.Items[idx].SaleItemID == saleItem.ID {
			return nil, shared.NewValidationError("Sale item already present in return")
		}
	}
	if returnQuantity.GreaterThan(saleItem.Quantity) {
		return nil, shared.NewValidationError(fmt.Sprintf(
			"Return quantity %s exceeds sold quantity %s", returnQuantity, saleItem.Quantity))
	}

	refund := saleItem.UnitPriceValuation().MulQuantity(returnQuantity)
	item := SalesReturnItem{
		BaseEntity:         shared.NewBaseEntity(),
		ReturnID:           r.ID,
		SaleItemID:         saleItem.ID,
		ProductID:          saleItem.ProductID,
		VariantID:          saleItem.VariantID,
		ReturnQuantity:     returnQuantity,
		UnitPrice:          saleItem.UnitPrice,
		ShadowUnitPrice:    saleItem.ShadowUnitPrice,
		RefundAmount:       refund.Real(),
		ShadowRefundAmount: refund.Shadow(),
	}
	r.Items = append(r.Items, item)
	r.recalculateTotals()
	return &r.Items[len(r.Items)-1], nil
}

// AddReplacement adds a replacement line handed to the customer
func (r *SalesReturn) AddReplacement(productID, variantID uuid.UUID, quantity decimal.Decimal, unitPrice valueobject.Valuation) (*SalesReturnReplacement, error) {
	if r.Settlement != SalesReturnSettlementProductReplacement {
		return nil, shared.NewValidationError("Replacement lines require a product replacement settlement")
	}
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Replacement quantity must be positive")
	}
	if unitPrice.Real().IsNegative() || unitPrice.Shadow().IsNegative() {
		return nil, shared.NewValidationError("Replacement unit price cannot be negative")
	}

	total := unitPrice.MulQuantity(quantity)
	line := SalesReturnReplacement{
		BaseEntity:      shared.NewBaseEntity(),
		ReturnID:        r.ID,
		ProductID:       productID,
		VariantID:       variantID,
		Quantity:        quantity,
		UnitPrice:       unitPrice.Real(),
		ShadowUnitPrice: unitPrice.Shadow(),
		Total:           total.Real(),
		ShadowTotal:     total.Shadow(),
	}
	r.Replacements = append(r.Replacements, line)
	r.recalculateTotals()
	return &r.Replacements[len(r.Replacements)-1], nil
}

// RestocksGoods reports whether the returned goods go back into sellable
// stock. Damaged returns are written off instead.
func (r *SalesReturn) RestocksGoods() bool {
	return r.Kind == SalesReturnKindSaleReturn
}

// TotalReturnValuation returns the dual total of the returned goods
func (r *SalesReturn) TotalReturnValuation() valueobject.Valuation {
	return valueobject.NewValuation(r.TotalReturnAmount, r.ShadowTotalReturn)
}

// ReplacementTotalValuation returns the dual total of the replacement lines
func (r *SalesReturn) ReplacementTotalValuation() valueobject.Valuation {
	return valueobject.NewValuation(r.ReplacementTotal, r.ShadowReplacementTotal)
}

// NetDifference is replacement total minus return total. Positive means the
// customer owes the difference, negative means money goes back to them.
func (r *SalesReturn) NetDifference() valueobject.Valuation {
	return r.ReplacementTotalValuation().Sub(r.TotalReturnValuation())
}

// TotalReturnedQuantity sums the return quantity across items
func (r *SalesReturn) TotalReturnedQuantity() decimal.Decimal {
	total := decimal.Zero
	for idx := range r.Items {
		total = total.Add(r.Items[idx].ReturnQuantity)
	}
	return total
}

// recalculateTotals refreshes both dual totals from the lines
func (r *SalesReturn) recalculateTotals() {
	returnTotal := valueobject.ZeroValuation()
	for idx := range r.Items {
		returnTotal = returnTotal.Add(r.Items[idx].RefundValuation())
	}
	replacementTotal := valueobject.ZeroValuation()
	for idx := range r.Replacements {
		replacementTotal = replacementTotal.Add(r.Replacements[idx].TotalValuation())
	}
	r.TotalReturnAmount = returnTotal.Real()
	r.ShadowTotalReturn = returnTotal.Shadow()
	r.ReplacementTotal = replacementTotal.Real()
	r.ShadowReplacementTotal = replacementTotal.Shadow()
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}
