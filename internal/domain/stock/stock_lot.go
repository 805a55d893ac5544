package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/shared/valueobject"
)

// StockLot is a batch of physical stock for one (warehouse, product, variant)
// key. CreatedAt defines FIFO order: allocation always drains the oldest lot
// with remaining quantity first. Quantity never goes below zero; a lot is
// removable once fully drained but never deleted while it still holds stock.
type StockLot struct {
	shared.BaseEntity
	WarehouseID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_lot_key,priority:1"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_lot_key,priority:2;index:idx_stock_lot_product"`
	VariantID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_lot_key,priority:3"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ShadowUnitCost decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (StockLot) TableName() string {
	return "stock_lots"
}

// NewStockLot creates a new stock lot
func NewStockLot(warehouseID, productID, variantID uuid.UUID, quantity decimal.Decimal, unitCost valueobject.Valuation) (*StockLot, error) {
	if warehouseID == uuid.Nil {
		return nil, shared.NewValidationError("Warehouse ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Product ID cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, shared.NewValidationError("Lot quantity cannot be negative")
	}
	if unitCost.Real().IsNegative() || unitCost.Shadow().IsNegative() {
		return nil, shared.NewValidationError("Unit cost cannot be negative")
	}

	return &StockLot{
		BaseEntity:     shared.NewBaseEntity(),
		WarehouseID:    warehouseID,
		ProductID:      productID,
		VariantID:      variantID,
		Quantity:       quantity,
		UnitCost:       unitCost.Real(),
		ShadowUnitCost: unitCost.Shadow(),
	}, nil
}

// UnitCostValuation returns the dual unit cost of this lot
func (l *StockLot) UnitCostValuation() valueobject.Valuation {
	return valueobject.NewValuation(l.UnitCost, l.ShadowUnitCost)
}

// HasStock returns true if the lot has remaining quantity
func (l *StockLot) HasStock() bool {
	return l.Quantity.GreaterThan(decimal.Zero)
}

// IsDrained returns true once the lot quantity has reached zero
func (l *StockLot) IsDrained() bool {
	return l.Quantity.IsZero()
}

// Deduct removes quantity from the lot. The caller must have verified
// availability beforehand; deducting more than the lot holds is an error and
// leaves the lot untouched.
func (l *StockLot) Deduct(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Deduction quantity must be positive")
	}
	if quantity.GreaterThan(l.Quantity) {
		return shared.NewDomainError(shared.CodeInsufficientStock, "Lot holds less than the requested quantity")
	}

	l.Quantity = l.Quantity.Sub(quantity)
	l.UpdatedAt = time.Now()
	return nil
}

// Merge adds quantity to the lot and recomputes both unit costs as a
// quantity-weighted average of the existing and incoming cost.
func (l *StockLot) Merge(quantity decimal.Decimal, unitCost valueobject.Valuation) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Replenishment quantity must be positive")
	}

	merged := valueobject.WeightedAverageUnitCost(l.Quantity, l.UnitCostValuation(), quantity, unitCost)
	l.Quantity = l.Quantity.Add(quantity)
	l.UnitCost = merged.Real()
	l.ShadowUnitCost = merged.Shadow()
	l.UpdatedAt = time.Now()
	return nil
}

// Add increases the lot quantity without touching unit costs.
// Used when previously allocated units of this very lot come back.
func (l *StockLot) Add(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Quantity must be positive")
	}
	l.Quantity = l.Quantity.Add(quantity)
	l.UpdatedAt = time.Now()
	return nil
}

// TotalValue returns the dual total value of the remaining stock
func (l *StockLot) TotalValue() valueobject.Valuation {
	return l.UnitCostValuation().MulQuantity(l.Quantity)
}
