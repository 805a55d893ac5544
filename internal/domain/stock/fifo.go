package stock

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/shared/valueobject"
)

// LotTake is one lot's contribution to an allocation plan
type LotTake struct {
	LotID       uuid.UUID
	WarehouseID uuid.UUID
	Quantity    decimal.Decimal
	UnitCost    valueobject.Valuation
	Remaining   decimal.Decimal // quantity left in the lot after the take
}

// TotalCost returns the dual cost of this take
func (t LotTake) TotalCost() valueobject.Valuation {
	return t.UnitCost.MulQuantity(t.Quantity)
}

// AllocationPlan is the outcome of FIFO lot selection for one requested
// quantity. The plan is computed against an in-memory snapshot of the lots;
// nothing is mutated until ApplyAllocation runs, so a plan that cannot be
// fully satisfied can be discarded without side effects.
type AllocationPlan struct {
	Takes          []LotTake
	TotalAllocated decimal.Decimal
	Shortfall      decimal.Decimal
	TotalCost      valueobject.Valuation
}

// FullyAllocated returns true when the requested quantity was covered
func (p *AllocationPlan) FullyAllocated() bool {
	return p.Shortfall.IsZero()
}

// PlanAllocation selects lots FIFO (oldest CreatedAt first) until the
// requested quantity is covered. Lots without remaining stock are skipped.
func PlanAllocation(requested decimal.Decimal, lots []StockLot) (*AllocationPlan, error) {
	if requested.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Requested quantity must be positive")
	}

	sorted := make([]StockLot, len(lots))
	copy(sorted, lots)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	plan := &AllocationPlan{
		Takes:          make([]LotTake, 0, len(sorted)),
		TotalAllocated: decimal.Zero,
		TotalCost:      valueobject.ZeroValuation(),
	}

	remaining := requested
	for _, lot := range sorted {
		if remaining.IsZero() {
			break
		}
		if !lot.HasStock() {
			continue
		}

		take := decimal.Min(remaining, lot.Quantity)
		plan.Takes = append(plan.Takes, LotTake{
			LotID:       lot.ID,
			WarehouseID: lot.WarehouseID,
			Quantity:    take,
			UnitCost:    lot.UnitCostValuation(),
			Remaining:   lot.Quantity.Sub(take),
		})
		plan.TotalAllocated = plan.TotalAllocated.Add(take)
		plan.TotalCost = plan.TotalCost.Add(lot.UnitCostValuation().MulQuantity(take))
		remaining = remaining.Sub(take)
	}

	plan.Shortfall = remaining
	return plan, nil
}

// ApplyAllocation deducts the planned takes from the given lots.
// The plan must be fully allocated; applying a short plan is rejected so a
// partial allocation can never reach storage.
func ApplyAllocation(lots []*StockLot, plan *AllocationPlan) error {
	if plan == nil {
		return shared.NewValidationError("Allocation plan cannot be nil")
	}
	if !plan.FullyAllocated() {
		return shared.NewDomainError(shared.CodeInsufficientStock, "Allocation plan is short by "+plan.Shortfall.String())
	}

	byID := make(map[uuid.UUID]*StockLot, len(lots))
	for _, lot := range lots {
		byID[lot.ID] = lot
	}

	for _, take := range plan.Takes {
		lot, ok := byID[take.LotID]
		if !ok {
			return shared.NewDomainError(shared.CodeLotNotFound, "Planned lot not found: "+take.LotID.String())
		}
		if err := lot.Deduct(take.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// AvailableQuantity sums the remaining quantity across lots
func AvailableQuantity(lots []StockLot) decimal.Decimal {
	total := decimal.Zero
	for _, lot := range lots {
		total = total.Add(lot.Quantity)
	}
	return total
}
