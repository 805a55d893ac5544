package stock

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/shared/valueobject"
	"github.com/retailcore/backend/internal/domain/stock"
)

// Ledger executes stock mutations against a set of repositories. Callers
// construct it inside a transaction scope so every lot update and movement
// row commits or rolls back together.
type Ledger struct {
	lots      stock.StockLotRepository
	movements stock.StockMovementRepository
}

// NewLedger creates a ledger over the given repositories
func NewLedger(lots stock.StockLotRepository, movements stock.StockMovementRepository) *Ledger {
	return &Ledger{lots: lots, movements: movements}
}

// AllocationResult reports what an outbound allocation consumed
type AllocationResult struct {
	Takes     []stock.LotTake
	TotalCost valueobject.Valuation
}

// Allocate takes quantity out of stock FIFO across lots. All or nothing: if
// the lots cannot cover the full quantity no lot is touched and no movement
// is written.
func (l *Ledger) Allocate(
	ctx context.Context,
	productID, variantID uuid.UUID,
	warehouseID *uuid.UUID,
	quantity decimal.Decimal,
	refType stock.ReferenceType,
	refID uuid.UUID,
	actor shared.Actor,
) (*AllocationResult, error) {
	lots, err := l.lots.FindForAllocation(ctx, productID, variantID, warehouseID)
	if err != nil {
		return nil, err
	}

	plan, err := stock.PlanAllocation(quantity, lots)
	if err != nil {
		return nil, err
	}
	ptrs := make([]*stock.StockLot, len(lots))
	for idx := range lots {
		ptrs[idx] = &lots[idx]
	}
	if err := stock.ApplyAllocation(ptrs, plan); err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*stock.StockLot, len(ptrs))
	for idx := range ptrs {
		byID[ptrs[idx].ID] = ptrs[idx]
	}
	for _, take := range plan.Takes {
		lot := byID[take.LotID]
		if err := l.lots.Save(ctx, lot); err != nil {
			return nil, err
		}
		mv, err := stock.NewStockMovement(lot, stock.MovementDirectionOut, take.Quantity, refType, refID)
		if err != nil {
			return nil, err
		}
		if err := l.movements.Append(ctx, mv.WithActor(actor)); err != nil {
			return nil, err
		}
	}

	return &AllocationResult{Takes: plan.Takes, TotalCost: plan.TotalCost}, nil
}

// Replenish puts quantity into stock at the given unit cost. An existing lot
// for the same (warehouse, product, variant) key absorbs the goods with a
// weighted average cost; otherwise a new lot is opened.
func (l *Ledger) Replenish(
	ctx context.Context,
	warehouseID, productID, variantID uuid.UUID,
	quantity decimal.Decimal,
	unitCost valueobject.Valuation,
	refType stock.ReferenceType,
	refID uuid.UUID,
	actor shared.Actor,
) (*stock.StockLot, error) {
	lot, err := l.lots.FindByKeyForUpdate(ctx, warehouseID, productID, variantID)
	switch {
	case err == nil:
		if err := lot.Merge(quantity, unitCost); err != nil {
			return nil, err
		}
	case errors.Is(err, shared.ErrLotNotFound):
		lot, err = stock.NewStockLot(warehouseID, productID, variantID, quantity, unitCost)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := l.lots.Save(ctx, lot); err != nil {
		return nil, err
	}
	mv, err := stock.NewStockMovement(lot, stock.MovementDirectionIn, quantity, refType, refID)
	if err != nil {
		return nil, err
	}
	if err := l.movements.Append(ctx, mv.WithActor(actor)); err != nil {
		return nil, err
	}
	return lot, nil
}

// ReverseOut deducts quantity from the exact lot key, used when goods leave
// the warehouse outside the sales path (returning them to a supplier). The
// lot must exist and cover the quantity.
func (l *Ledger) ReverseOut(
	ctx context.Context,
	warehouseID, productID, variantID uuid.UUID,
	quantity decimal.Decimal,
	refType stock.ReferenceType,
	refID uuid.UUID,
	actor shared.Actor,
) error {
	lot, err := l.lots.FindByKeyForUpdate(ctx, warehouseID, productID, variantID)
	if err != nil {
		return err
	}
	if err := lot.Deduct(quantity); err != nil {
		return err
	}
	if err := l.lots.Save(ctx, lot); err != nil {
		return err
	}
	mv, err := stock.NewStockMovement(lot, stock.MovementDirectionOut, quantity, refType, refID)
	if err != nil {
		return err
	}
	return l.movements.Append(ctx, mv.WithActor(actor))
}

// Available sums on-hand quantity for the product key
func (l *Ledger) Available(ctx context.Context, productID, variantID uuid.UUID, warehouseID *uuid.UUID) (decimal.Decimal, error) {
	lots, err := l.lots.FindForAllocation(ctx, productID, variantID, warehouseID)
	if err != nil {
		return decimal.Zero, err
	}
	return stock.AvailableQuantity(lots), nil
}
