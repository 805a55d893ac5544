package stock

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/shared"
)

// MovementDirection represents the physical direction of a stock movement
type MovementDirection string

const (
	MovementDirectionIn  MovementDirection = "IN"
	MovementDirectionOut MovementDirection = "OUT"
)

// IsValid returns true if the direction is valid
func (d MovementDirection) IsValid() bool {
	switch d {
	case MovementDirectionIn, MovementDirectionOut:
		return true
	}
	return false
}

// String returns the string representation
func (d MovementDirection) String() string {
	return string(d)
}

// ReferenceType identifies the kind of transaction that caused a movement
type ReferenceType string

const (
	ReferenceTypeSale           ReferenceType = "SALE"
	ReferenceTypePurchase       ReferenceType = "PURCHASE"
	ReferenceTypePurchaseReturn ReferenceType = "PURCHASE_RETURN"
	ReferenceTypeSalesReturn    ReferenceType = "SALES_RETURN"
)

// IsValid returns true if the reference type is valid
func (r ReferenceType) IsValid() bool {
	switch r {
	case ReferenceTypeSale, ReferenceTypePurchase, ReferenceTypePurchaseReturn, ReferenceTypeSalesReturn:
		return true
	}
	return false
}

// String returns the string representation
func (r ReferenceType) String() string {
	return string(r)
}

// StockMovement is an immutable audit record of one quantity change against
// one lot. Movements are append-only: corrections are made with new movements,
// never by editing existing rows.
type StockMovement struct {
	shared.BaseEntity
	LotID         uuid.UUID         `gorm:"type:uuid;not null;index:idx_stock_mv_lot"`
	WarehouseID   uuid.UUID         `gorm:"type:uuid;not null;index:idx_stock_mv_warehouse"`
	ProductID     uuid.UUID         `gorm:"type:uuid;not null;index:idx_stock_mv_product"`
	VariantID     uuid.UUID         `gorm:"type:uuid;not null"`
	Direction     MovementDirection `gorm:"type:varchar(10);not null"`
	Quantity      decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	ReferenceType ReferenceType     `gorm:"type:varchar(30);not null;index:idx_stock_mv_ref"`
	ReferenceID   uuid.UUID         `gorm:"type:uuid;not null;index:idx_stock_mv_ref"`
	ActorID       *uuid.UUID        `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a new stock movement
func NewStockMovement(
	lot *StockLot,
	direction MovementDirection,
	quantity decimal.Decimal,
	referenceType ReferenceType,
	referenceID uuid.UUID,
) (*StockMovement, error) {
	if lot == nil {
		return nil, shared.NewValidationError("Lot cannot be nil")
	}
	if !direction.IsValid() {
		return nil, shared.NewValidationError("Invalid movement direction")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Movement quantity must be positive")
	}
	if !referenceType.IsValid() {
		return nil, shared.NewValidationError("Invalid movement reference type")
	}
	if referenceID == uuid.Nil {
		return nil, shared.NewValidationError("Movement reference ID cannot be empty")
	}

	return &StockMovement{
		BaseEntity:    shared.NewBaseEntity(),
		LotID:         lot.ID,
		WarehouseID:   lot.WarehouseID,
		ProductID:     lot.ProductID,
		VariantID:     lot.VariantID,
		Direction:     direction,
		Quantity:      quantity,
		ReferenceType: referenceType,
		ReferenceID:   referenceID,
	}, nil
}

// WithActor attaches the acting user to the movement
func (m *StockMovement) WithActor(actor shared.Actor) *StockMovement {
	if actor.IsValid() {
		id := actor.UserID
		m.ActorID = &id
	}
	return m
}

// SignedQuantity returns the quantity with direction applied
func (m *StockMovement) SignedQuantity() decimal.Decimal {
	if m.Direction == MovementDirectionOut {
		return m.Quantity.Neg()
	}
	return m.Quantity
}
