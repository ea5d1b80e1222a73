// Package ledger provides per-asset tax lot accounting.
//
// A Ledger keeps the lots of one asset in the order they were deposited,
// together with a running balance. Deposits always open a new lot, so every
// acquisition keeps its own cost basis. Withdrawals consume eligible lots in
// the order given by a booking Method (FIFO, LIFO or HIFO) and report the
// consumed slices with a proportional share of each lot's cost basis.
//
// All quantities and values use decimal arithmetic.
//
// Example usage:
//
//	btc := ledger.New("BTC")
//	btc.Deposit(t0, decimal.NewFromInt(1), decimal.NewFromInt(2250))
//	btc.Deposit(t1, decimal.NewFromInt(1), decimal.NewFromInt(2500))
//
//	w := btc.Withdraw(t2, decimal.NewFromInt(1), ledger.FIFO)
//	for _, s := range w.Slices {
//	    fmt.Println(s.AcquiredAt, s.Quantity, s.CostBasis)
//	}
//
// Contract violations (claiming more than a lot holds, or finding a lot
// acquired after the withdrawal time) panic with *InvariantError. They mean
// transactions were not processed in chronological order.
package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SeedTime is the acquisition time of the synthetic lot created by NewSeeded.
// It lies before any realistic transaction.
var SeedTime = time.Unix(1_000_000_000, 0).UTC()

// Ledger tracks the lots and balance of a single asset.
type Ledger struct {
	asset   string
	balance decimal.Decimal
	lots    []*Lot
}

// New creates an empty ledger for asset.
func New(asset string) *Ledger {
	return &Ledger{
		asset:   asset,
		balance: decimal.Zero,
	}
}

// NewSeeded creates a ledger holding pre-existing funds as a single lot
// acquired at SeedTime with a cost basis equal to its quantity.
func NewSeeded(asset string, amount decimal.Decimal) *Ledger {
	l := New(asset)
	if amount.IsPositive() {
		l.Deposit(SeedTime, amount, amount)
	}
	return l
}

// Asset returns the asset symbol of the ledger
func (l *Ledger) Asset() string {
	return l.asset
}

// Balance returns the sum of the remaining quantity of all lots.
func (l *Ledger) Balance() decimal.Decimal {
	return l.balance
}

// Lots returns a snapshot of the lots in deposit order.
func (l *Ledger) Lots() []Lot {
	lots := make([]Lot, len(l.lots))
	for i, lot := range l.lots {
		lots[i] = *lot
	}
	return lots
}

// OpenLots returns the number of lots with a positive remaining quantity.
func (l *Ledger) OpenLots() int {
	n := 0
	for _, lot := range l.lots {
		if lot.Remaining.IsPositive() {
			n++
		}
	}
	return n
}

// RemainingCost returns the cost basis attributed to the remaining quantities.
func (l *Ledger) RemainingCost() decimal.Decimal {
	total := decimal.Zero
	for _, lot := range l.lots {
		if lot.Remaining.IsPositive() {
			total = total.Add(lot.costOf(lot.Remaining))
		}
	}
	return total
}

// Deposit opens a new lot. It never merges into an existing lot, even one
// acquired at the same instant.
func (l *Ledger) Deposit(at time.Time, quantity, value decimal.Decimal) {
	l.lots = append(l.lots, newLot(at, quantity, value))
	l.balance = l.balance.Add(quantity)
}

// Withdraw consumes up to quantity from the lots acquired strictly before at,
// in the order given by method. When the eligible lots cannot cover the
// request, the remainder is reported in Withdrawal.Unmatched.
func (l *Ledger) Withdraw(at time.Time, quantity decimal.Decimal, method Method) *Withdrawal {
	w := &Withdrawal{
		Requested: quantity,
		Unmatched: decimal.Zero,
	}
	if !quantity.IsPositive() {
		return w
	}

	candidates := l.eligible(at)
	order(candidates, method)

	needed := quantity
	for _, c := range candidates {
		if needed.IsZero() {
			break
		}

		claimed := decimal.Min(c.lot.Remaining, needed)
		c.lot.claim(l.asset, claimed)
		l.balance = l.balance.Sub(claimed)
		needed = needed.Sub(claimed)

		w.Slices = append(w.Slices, Slice{
			AcquiredAt: c.lot.AcquiredAt,
			Quantity:   claimed,
			CostBasis:  c.lot.costOf(claimed),
		})
	}

	w.Unmatched = needed
	return w
}

// eligible returns the lots acquired before at that still hold a quantity.
func (l *Ledger) eligible(at time.Time) []candidate {
	candidates := make([]candidate, 0, len(l.lots))
	for i, lot := range l.lots {
		if lot.AcquiredAt.After(at) {
			panic(&InvariantError{
				Asset: l.asset,
				Message: fmt.Sprintf("lot acquired %s is in the future of withdrawal at %s",
					lot.AcquiredAt.Format(time.RFC3339), at.Format(time.RFC3339)),
			})
		}
		if lot.AcquiredAt.Equal(at) || !lot.Remaining.IsPositive() {
			continue
		}
		candidates = append(candidates, candidate{lot: lot, index: i})
	}
	return candidates
}

// String returns a string representation of the ledger
func (l *Ledger) String() string {
	var buf strings.Builder
	buf.WriteString(l.asset)
	buf.WriteByte(' ')
	buf.WriteString(l.balance.String())
	buf.WriteString(" [")
	for i, lot := range l.lots {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(lot.String())
	}
	buf.WriteByte(']')
	return buf.String()
}
