package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Lot is a single acquisition of an asset, tracked for its cost basis.
type Lot struct {
	AcquiredAt time.Time
	Quantity   decimal.Decimal // Quantity originally acquired
	CostBasis  decimal.Decimal // Total value paid for Quantity
	Remaining  decimal.Decimal // Quantity not yet consumed by withdrawals
}

// newLot creates a lot with its full quantity remaining
func newLot(at time.Time, quantity, costBasis decimal.Decimal) *Lot {
	return &Lot{
		AcquiredAt: at,
		Quantity:   quantity,
		CostBasis:  costBasis,
		Remaining:  quantity,
	}
}

// UnitCost returns the cost basis per unit. Lots with a zero quantity have a
// zero unit cost.
func (l *Lot) UnitCost() decimal.Decimal {
	if l.Quantity.IsZero() {
		return decimal.Zero
	}
	return l.CostBasis.Div(l.Quantity)
}

// costOf returns the share of the lot's cost basis attributed to quantity.
func (l *Lot) costOf(quantity decimal.Decimal) decimal.Decimal {
	if l.Quantity.IsZero() {
		return decimal.Zero
	}
	// Multiply before dividing so whole-lot claims return CostBasis exactly.
	return l.CostBasis.Mul(quantity).Div(l.Quantity)
}

// claim consumes quantity from the lot. Claiming more than what remains, or a
// negative quantity, means the selector handed out a bad claim.
func (l *Lot) claim(asset string, quantity decimal.Decimal) {
	if quantity.IsNegative() {
		panic(&InvariantError{
			Asset:   asset,
			Message: fmt.Sprintf("negative claim of %s on lot acquired %s", quantity, l.AcquiredAt.Format(time.RFC3339)),
		})
	}
	if quantity.GreaterThan(l.Remaining) {
		panic(&InvariantError{
			Asset: asset,
			Message: fmt.Sprintf("claim of %s exceeds remaining %s on lot acquired %s",
				quantity, l.Remaining, l.AcquiredAt.Format(time.RFC3339)),
		})
	}
	l.Remaining = l.Remaining.Sub(quantity)
}

// String returns a string representation of the lot
func (l *Lot) String() string {
	return fmt.Sprintf("%s/%s {%s, %s}", l.Remaining, l.Quantity, l.CostBasis, l.AcquiredAt.Format("2006-01-02"))
}

// Slice is the part of a lot consumed by one withdrawal.
type Slice struct {
	AcquiredAt time.Time
	Quantity   decimal.Decimal
	CostBasis  decimal.Decimal // Proportional share of the lot's total cost basis
}

// Withdrawal is the outcome of Ledger.Withdraw.
type Withdrawal struct {
	Requested decimal.Decimal
	Slices    []Slice

	// Unmatched is the part of Requested that no eligible lot could cover.
	// No slice is produced for it.
	Unmatched decimal.Decimal
}

// Claimed returns the total quantity covered by the slices.
func (w *Withdrawal) Claimed() decimal.Decimal {
	total := decimal.Zero
	for _, s := range w.Slices {
		total = total.Add(s.Quantity)
	}
	return total
}

// IsShort reports whether the withdrawal could not be fully covered.
func (w *Withdrawal) IsShort() bool {
	return w.Unmatched.IsPositive()
}
