package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/shared/valueobject"
)

// PurchaseReturnStatus represents the status of a purchase return
type PurchaseReturnStatus string

const (
	PurchaseReturnStatusPending   PurchaseReturnStatus = "PENDING"   // Created, awaiting approval
	PurchaseReturnStatusApproved  PurchaseReturnStatus = "APPROVED"  // Stock handed back to the supplier
	PurchaseReturnStatusCompleted PurchaseReturnStatus = "COMPLETED" // Money or replacement goods settled
)

// IsValid checks if the status is a valid PurchaseReturnStatus
func (s PurchaseReturnStatus) IsValid() bool {
	switch s {
	case PurchaseReturnStatusPending, PurchaseReturnStatusApproved, PurchaseReturnStatusCompleted:
		return true
	}
	return false
}

// String returns the string representation
func (s PurchaseReturnStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseReturnStatus) CanTransitionTo(target PurchaseReturnStatus) bool {
	switch s {
	case PurchaseReturnStatusPending:
		return target == PurchaseReturnStatusApproved
	case PurchaseReturnStatusApproved:
		return target == PurchaseReturnStatusCompleted
	case PurchaseReturnStatusCompleted:
		return false // Terminal
	}
	return false
}

// PurchaseReturnType decides how a completed return is settled
type PurchaseReturnType string

const (
	PurchaseReturnTypeMoneyBack          PurchaseReturnType = "MONEY_BACK"
	PurchaseReturnTypeProductReplacement PurchaseReturnType = "PRODUCT_REPLACEMENT"
)

// IsValid checks if the return type is valid
func (t PurchaseReturnType) IsValid() bool {
	switch t {
	case PurchaseReturnTypeMoneyBack, PurchaseReturnTypeProductReplacement:
		return true
	}
	return false
}

// String returns the string representation
func (t PurchaseReturnType) String() string {
	return string(t)
}

// RefundPaymentType decides where a money-back refund lands
type RefundPaymentType string

const (
	RefundPaymentTypeCash            RefundPaymentType = "CASH_REFUND"
	RefundPaymentTypeAdjustToAdvance RefundPaymentType = "ADJUST_TO_ADVANCE"
)

// IsValid checks if the payment type is valid
func (t RefundPaymentType) IsValid() bool {
	switch t {
	case RefundPaymentTypeCash, RefundPaymentTypeAdjustToAdvance:
		return true
	}
	return false
}

// String returns the string representation
func (t RefundPaymentType) String() string {
	return string(t)
}

// PurchaseReturnItem is a line item in a purchase return, priced at the
// original purchase item's unit price.
type PurchaseReturnItem struct {
	shared.BaseEntity
	ReturnID           uuid.UUID       `gorm:"type:uuid;not null;index:idx_pr_item_return"`
	PurchaseItemID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_pr_item_purchase_item"`
	ProductID          uuid.UUID       `gorm:"type:uuid;not null"`
	VariantID          uuid.UUID       `gorm:"type:uuid;not null"`
	ReturnQuantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ShadowUnitPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RefundAmount       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ShadowRefundAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (PurchaseReturnItem) TableName() string {
	return "purchase_return_items"
}

// RefundValuation returns the dual refund amount of this line
func (i *PurchaseReturnItem) RefundValuation() valueobject.Valuation {
	return valueobject.NewValuation(i.RefundAmount, i.ShadowRefundAmount)
}

// ReplacementProduct is a replacement line on a product-replacement return
type ReplacementProduct struct {
	shared.BaseEntity
	ReturnID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_replacement_return"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null"`
	VariantID       uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ShadowUnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Total           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ShadowTotal     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (ReplacementProduct) TableName() string {
	return "purchase_return_replacements"
}

// UnitPriceValuation returns the dual unit price
func (r *ReplacementProduct) UnitPriceValuation() valueobject.Valuation {
	return valueobject.NewValuation(r.UnitPrice, r.ShadowUnitPrice)
}

// TotalValuation returns the dual line total
func (r *ReplacementProduct) TotalValuation() valueobject.Valuation {
	return valueobject.NewValuation(r.Total, r.ShadowTotal)
}

// PurchaseReturn is the aggregate root for returning goods to a supplier
// against one purchase. It moves pending -> approved -> completed; approval
// is the point where stock physically leaves, completion the point where
// money or replacement goods settle the difference.
type PurchaseReturn struct {
	shared.BaseAggregateRoot
	PurchaseID             uuid.UUID            `gorm:"type:uuid;not null;index:idx_purchase_return_purchase"`
	SupplierID             uuid.UUID            `gorm:"type:uuid;not null"`
	WarehouseID            uuid.UUID            `gorm:"type:uuid;not null"`
	ReturnType             PurchaseReturnType   `gorm:"type:varchar(30);not null"`
	PaymentType            RefundPaymentType    `gorm:"type:varchar(30);not null"`
	Status                 PurchaseReturnStatus `gorm:"type:varchar(20);not null"`
	Items                  []PurchaseReturnItem `gorm:"foreignKey:ReturnID"`
	Replacements           []ReplacementProduct `gorm:"foreignKey:ReturnID"`
	TotalReturnAmount      decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	ShadowTotalReturn      decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	ReplacementTotal       decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	ShadowReplacementTotal decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	ApprovedAt             *time.Time
	ApprovedBy             *uuid.UUID `gorm:"type:uuid"`
	CompletedAt            *time.Time
	CompletedBy            *uuid.UUID `gorm:"type:uuid"`
	CreatedBy              *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (PurchaseReturn) TableName() string {
	return "purchase_returns"
}

// NewPurchaseReturn creates a new purchase return against an existing purchase
func NewPurchaseReturn(purchase *Purchase, returnType PurchaseReturnType, paymentType RefundPaymentType, actor shared.Actor) (*PurchaseReturn, error) {
	if purchase == nil {
		return nil, shared.NewValidationError("Purchase cannot be nil")
	}
	if !returnType.IsValid() {
		return nil, shared.NewValidationError("Invalid return type")
	}
	if paymentType == "" {
		paymentType = RefundPaymentTypeCash
	}
	if !paymentType.IsValid() {
		return nil, shared.NewValidationError("Invalid refund payment type")
	}

	pr := &PurchaseReturn{
		BaseAggregateRoot:      shared.NewBaseAggregateRoot(),
		PurchaseID:             purchase.ID,
		SupplierID:             purchase.SupplierID,
		WarehouseID:            purchase.WarehouseID,
		ReturnType:             returnType,
		PaymentType:            paymentType,
		Status:                 PurchaseReturnStatusPending,
		Items:                  make([]PurchaseReturnItem, 0),
		Replacements:           make([]ReplacementProduct, 0),
		TotalReturnAmount:      decimal.Zero,
		ShadowTotalReturn:      decimal.Zero,
		ReplacementTotal:       decimal.Zero,
		ShadowReplacementTotal: decimal.Zero,
	}
	if actor.IsValid() {
		id := actor.UserID
		pr.CreatedBy = &id
	}
	return pr, nil
}

// AddItem adds a return line for one purchase item. The allowed quantity is
// capped by what is physically in stock and by what remains of the purchase
// item after previously completed returns.
func (r *PurchaseReturn) AddItem(
	purchaseItem *PurchaseItem,
	returnQuantity decimal.Decimal,
	stockAvailable decimal.Decimal,
	alreadyReturned decimal.Decimal,
) (*PurchaseReturnItem, error) {
	if r.Status != PurchaseReturnStatusPending {
		return nil, shared.NewDomainError(shared.CodeInvalidStateTransition, "Cannot add items to a non-pending return")
	}
	if purchaseItem == nil {
		return nil, shared.NewValidationError("Purchase item cannot be nil")
	}
	if returnQuantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Return quantity must be positive")
	}
	for idx := range r.Items {
		if r.Items[idx].PurchaseItemID == purchaseItem.ID {
			return nil, shared.NewValidationError("Purchase item already present in return")
		}
	}

	returnable := purchaseItem.Quantity.Sub(alreadyReturned)
	if returnQuantity.GreaterThan(returnable) {
		return nil, shared.NewValidationError(fmt.Sprintf(
			"Return quantity %s exceeds returnable quantity %s", returnQuantity, returnable))
	}
	if returnQuantity.GreaterThan(stockAvailable) {
		return nil, shared.NewValidationError(fmt.Sprintf(
			"Return quantity %s exceeds stock on hand %s", returnQuantity, stockAvailable))
	}

	refund := purchaseItem.UnitPriceValuation().MulQuantity(returnQuantity)
	item := PurchaseReturnItem{
		BaseEntity:         shared.NewBaseEntity(),
		ReturnID:           r.ID,
		PurchaseItemID:     purchaseItem.ID,
		ProductID:          purchaseItem.ProductID,
		VariantID:          purchaseItem.VariantID,
		ReturnQuantity:     returnQuantity,
		UnitPrice:          purchaseItem.UnitPrice,
		ShadowUnitPrice:    purchaseItem.ShadowUnitPrice,
		RefundAmount:       refund.Real(),
		ShadowRefundAmount: refund.Shadow(),
	}
	r.Items = append(r.Items, item)
	r.recalculateTotals()
	return &r.Items[len(r.Items)-1], nil
}

// AddReplacement adds a replacement line. Only meaningful on
// product-replacement returns.
func (r *PurchaseReturn) AddReplacement(productID, variantID uuid.UUID, quantity decimal.Decimal, unitPrice valueobject.Valuation) (*ReplacementProduct, error) {
	if r.Status != PurchaseReturnStatusPending {
		return nil, shared.NewDomainError(shared.CodeInvalidStateTransition, "Cannot add replacements to a non-pending return")
	}
	if r.ReturnType != PurchaseReturnTypeProductReplacement {
		return nil, shared.NewValidationError("Replacement lines require a product replacement return")
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
	line := ReplacementProduct{
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

// Approve moves the return to approved. Stock deduction happens alongside in
// the same transaction; approval always means the goods leave the warehouse,
// whichever way the return will settle.
func (r *PurchaseReturn) Approve(actor shared.Actor) error {
	if !r.Status.CanTransitionTo(PurchaseReturnStatusApproved) {
		return shared.NewDomainError(shared.CodeInvalidStateTransition,
			fmt.Sprintf("Cannot approve return in %s status", r.Status))
	}
	if len(r.Items) == 0 {
		return shared.NewValidationError("Cannot approve a return without items")
	}

	now := time.Now()
	r.Status = PurchaseReturnStatusApproved
	r.ApprovedAt = &now
	if actor.IsValid() {
		id := actor.UserID
		r.ApprovedBy = &id
	}
	r.UpdatedAt = now
	r.IncrementVersion()
	return nil
}

// Complete moves the return to its terminal state
func (r *PurchaseReturn) Complete(actor shared.Actor) error {
	if !r.Status.CanTransitionTo(PurchaseReturnStatusCompleted) {
		return shared.NewDomainError(shared.CodeInvalidStateTransition,
			fmt.Sprintf("Cannot complete return in %s status", r.Status))
	}

	now := time.Now()
	r.Status = PurchaseReturnStatusCompleted
	r.CompletedAt = &now
	if actor.IsValid() {
		id := actor.UserID
		r.CompletedBy = &id
	}
	r.UpdatedAt = now
	r.IncrementVersion()
	return nil
}

// EnsureDeletable rejects deletion once the return has left pending
func (r *PurchaseReturn) EnsureDeletable() error {
	if r.Status != PurchaseReturnStatusPending {
		return shared.NewDomainError(shared.CodeInvalidStateTransition,
			fmt.Sprintf("Cannot delete return in %s status", r.Status))
	}
	return nil
}

// TotalReturnValuation returns the dual total of the returned goods
func (r *PurchaseReturn) TotalReturnValuation() valueobject.Valuation {
	return valueobject.NewValuation(r.TotalReturnAmount, r.ShadowTotalReturn)
}

// ReplacementTotalValuation returns the dual total of the replacement lines
func (r *PurchaseReturn) ReplacementTotalValuation() valueobject.Valuation {
	return valueobject.NewValuation(r.ReplacementTotal, r.ShadowReplacementTotal)
}

// NetDifference is replacement total minus return total. Its sign selects the
// direction of the compensating payment on completion.
func (r *PurchaseReturn) NetDifference() valueobject.Valuation {
	return r.ReplacementTotalValuation().Sub(r.TotalReturnValuation())
}

// TotalReturnQuantity sums the return quantity across items
func (r *PurchaseReturn) TotalReturnQuantity() decimal.Decimal {
	total := decimal.Zero
	for idx := range r.Items {
		total = total.Add(r.Items[idx].ReturnQuantity)
	}
	return total
}

// IsPending returns true while the return awaits approval
func (r *PurchaseReturn) IsPending() bool {
	return r.Status == PurchaseReturnStatusPending
}

// IsApproved returns true once stock has been handed back
func (r *PurchaseReturn) IsApproved() bool {
	return r.Status == PurchaseReturnStatusApproved
}

// IsCompleted returns true in the terminal state
func (r *PurchaseReturn) IsCompleted() bool {
	return r.Status == PurchaseReturnStatusCompleted
}

// GetItem returns an item by its ID
func (r *PurchaseReturn) GetItem(itemID uuid.UUID) *PurchaseReturnItem {
	for idx := range r.Items {
		if r.Items[idx].ID == itemID {
			return &r.Items[idx]
		}
	}
	return nil
}

// recalculateTotals refreshes both dual totals from the lines
func (r *PurchaseReturn) recalculateTotals() {
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
