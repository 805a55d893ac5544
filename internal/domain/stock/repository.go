package stock

import (
	"context"

	"github.com/google/uuid"
)

// StockLotRepository persists stock lots.
// Implementations must take a row-level lock on every lot returned by
// FindForAllocation and FindByKeyForUpdate so that concurrent allocations,
// replenishments and reversals against the same key serialize.
type StockLotRepository interface {
	// FindForAllocation returns the lots for a (product, variant) ordered by
	// CreatedAt ascending, optionally scoped to one warehouse, locked for update.
	FindForAllocation(ctx context.Context, productID, variantID uuid.UUID, warehouseID *uuid.UUID) ([]StockLot, error)
	// FindByKeyForUpdate returns the lot for the exact (warehouse, product,
	// variant) key, locked for update. Returns shared.ErrLotNotFound if absent.
	FindByKeyForUpdate(ctx context.Context, warehouseID, productID, variantID uuid.UUID) (*StockLot, error)
	// FindByID returns a lot by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockLot, error)
	// Save inserts or updates a lot
	Save(ctx context.Context, lot *StockLot) error
	// Delete removes a drained lot. Deleting a lot that still holds stock is
	// an implementation error and must be rejected.
	Delete(ctx context.Context, id uuid.UUID) error
}

// StockMovementRepository is the append-only store for movements.
// There are deliberately no update or delete methods.
type StockMovementRepository interface {
	Append(ctx context.Context, movement *StockMovement) error
	FindByReference(ctx context.Context, referenceType ReferenceType, referenceID uuid.UUID) ([]StockMovement, error)
}
