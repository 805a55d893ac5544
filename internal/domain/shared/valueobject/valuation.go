package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Valuation is a value object carrying the two parallel monetary views of a
// figure: the real amount and its shadow counterpart. The shadow amount is a
// reporting-only figure computed from different price inputs but with exactly
// the same arithmetic - every operation below applies the identical formula to
// both columns, and no operation may branch on which column it touches.
//
// Valuation is immutable - all operations return new instances.
type Valuation struct {
	real   decimal.Decimal
	shadow decimal.Decimal
}

// NewValuation creates a valuation from a real and a shadow amount
func NewValuation(real, shadow decimal.Decimal) Valuation {
	return Valuation{real: real, shadow: shadow}
}

// NewValuationFromStrings creates a valuation from string amounts
func NewValuationFromStrings(real, shadow string) (Valuation, error) {
	r, err := decimal.NewFromString(real)
	if err != nil {
		return Valuation{}, fmt.Errorf("invalid real amount: %w", err)
	}
	s, err := decimal.NewFromString(shadow)
	if err != nil {
		return Valuation{}, fmt.Errorf("invalid shadow amount: %w", err)
	}
	return Valuation{real: r, shadow: s}, nil
}

// ZeroValuation returns a valuation with both columns zero
func ZeroValuation() Valuation {
	return Valuation{real: decimal.Zero, shadow: decimal.Zero}
}

// Real returns the real amount
func (v Valuation) Real() decimal.Decimal {
	return v.real
}

// Shadow returns the shadow amount
func (v Valuation) Shadow() decimal.Decimal {
	return v.shadow
}

// MulQuantity multiplies both columns by the given quantity.
// This is the single formula behind every line total, return total,
// replacement total and net difference in the engine.
func (v Valuation) MulQuantity(qty decimal.Decimal) Valuation {
	return Valuation{
		real:   v.real.Mul(qty),
		shadow: v.shadow.Mul(qty),
	}
}

// Add returns the column-wise sum
func (v Valuation) Add(other Valuation) Valuation {
	return Valuation{
		real:   v.real.Add(other.real),
		shadow: v.shadow.Add(other.shadow),
	}
}

// Sub returns the column-wise difference
func (v Valuation) Sub(other Valuation) Valuation {
	return Valuation{
		real:   v.real.Sub(other.real),
		shadow: v.shadow.Sub(other.shadow),
	}
}

// SubFloorZero subtracts column-wise, flooring each column at zero
func (v Valuation) SubFloorZero(other Valuation) Valuation {
	return Valuation{
		real:   decimal.Max(decimal.Zero, v.real.Sub(other.real)),
		shadow: decimal.Max(decimal.Zero, v.shadow.Sub(other.shadow)),
	}
}

// Neg negates both columns
func (v Valuation) Neg() Valuation {
	return Valuation{real: v.real.Neg(), shadow: v.shadow.Neg()}
}

// Abs returns the column-wise absolute value
func (v Valuation) Abs() Valuation {
	return Valuation{real: v.real.Abs(), shadow: v.shadow.Abs()}
}

// IsZero returns true if both columns are zero
func (v Valuation) IsZero() bool {
	return v.real.IsZero() && v.shadow.IsZero()
}

// Sign returns the sign of the real column (-1, 0, 1).
// The real column is authoritative for branching decisions such as the
// direction of a compensating payment; the shadow column follows the same
// arithmetic and is never consulted for control flow.
func (v Valuation) Sign() int {
	return v.real.Sign()
}

// Equal returns true if both columns are equal
func (v Valuation) Equal(other Valuation) bool {
	return v.real.Equal(other.real) && v.shadow.Equal(other.shadow)
}

// String returns a human-readable representation
func (v Valuation) String() string {
	return fmt.Sprintf("%s (shadow %s)", v.real.String(), v.shadow.String())
}

// WeightedAverageUnitCost merges an existing unit cost with an incoming one
// using quantity weighting, column-wise:
//
//	newCost = (oldQty*oldCost + addQty*addCost) / (oldQty + addQty)
//
// Results are rounded to 4 decimal places. Returns the incoming cost unchanged
// when the combined quantity is zero.
func WeightedAverageUnitCost(oldQty decimal.Decimal, oldCost Valuation, addQty decimal.Decimal, addCost Valuation) Valuation {
	totalQty := oldQty.Add(addQty)
	if totalQty.IsZero() {
		return addCost
	}
	merged := oldCost.MulQuantity(oldQty).Add(addCost.MulQuantity(addQty))
	return Valuation{
		real:   merged.real.Div(totalQty).Round(4),
		shadow: merged.shadow.Div(totalQty).Round(4),
	}
}
