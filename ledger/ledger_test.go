package ledger

import (
	"math/rand"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(n int) time.Time {
	return time.Date(2020, time.January, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	if !got.Equal(d(want)) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

// assertConsistent checks that the balance equals the sum of remaining quantities
// and that no lot is overdrawn.
func assertConsistent(t *testing.T, l *Ledger) {
	t.Helper()
	total := decimal.Zero
	for _, lot := range l.Lots() {
		if lot.Remaining.IsNegative() {
			t.Fatalf("lot %s has negative remaining quantity", lot.String())
		}
		if lot.Remaining.GreaterThan(lot.Quantity) {
			t.Fatalf("lot %s has more remaining than acquired", lot.String())
		}
		total = total.Add(lot.Remaining)
	}
	if !total.Equal(l.Balance()) {
		t.Fatalf("balance %s does not match remaining lots %s", l.Balance(), total)
	}
}

func TestLedger_Deposit(t *testing.T) {
	t.Run("Opens a new lot per deposit", func(t *testing.T) {
		l := New("BTC")
		l.Deposit(day(0), d("1"), d("2250"))
		l.Deposit(day(0), d("1"), d("2250"))

		lots := l.Lots()
		assert.Equal(t, 2, len(lots))
		assertDecimal(t, "2", l.Balance())
		for _, lot := range lots {
			assertDecimal(t, "1", lot.Remaining)
			assertDecimal(t, "2250", lot.CostBasis)
		}
		assertConsistent(t, l)
	})

	t.Run("Lots snapshot is a copy", func(t *testing.T) {
		l := New("BTC")
		l.Deposit(day(0), d("1"), d("10"))

		lots := l.Lots()
		lots[0].Remaining = d("0")

		assertDecimal(t, "1", l.Lots()[0].Remaining)
	})

	t.Run("Seeded ledger holds one synthetic lot", func(t *testing.T) {
		l := NewSeeded("USD", d("100000"))

		lots := l.Lots()
		assert.Equal(t, 1, len(lots))
		assert.Equal(t, SeedTime, lots[0].AcquiredAt)
		assertDecimal(t, "100000", lots[0].Quantity)
		assertDecimal(t, "100000", lots[0].CostBasis)
		assertDecimal(t, "100000", l.Balance())
	})

	t.Run("Zero seed creates no lot", func(t *testing.T) {
		l := NewSeeded("USD", decimal.Zero)
		assert.Equal(t, 0, len(l.Lots()))
		assertDecimal(t, "0", l.Balance())
	})
}

// scenario deposits two BTC lots: 1 unit for 2250 at day 0 and 1 unit for 2500 at day 1.
func scenario() *Ledger {
	l := New("BTC")
	l.Deposit(day(0), d("1"), d("2250"))
	l.Deposit(day(1), d("1"), d("2500"))
	return l
}

func TestLedger_Withdraw(t *testing.T) {
	t.Run("FIFO consumes the earliest lot", func(t *testing.T) {
		l := scenario()
		w := l.Withdraw(day(2), d("1"), FIFO)

		assert.Equal(t, 1, len(w.Slices))
		assert.Equal(t, day(0), w.Slices[0].AcquiredAt)
		assertDecimal(t, "2250", w.Slices[0].CostBasis)
		assertDecimal(t, "0", w.Unmatched)
		assertDecimal(t, "1", l.Balance())
		assertConsistent(t, l)
	})

	t.Run("LIFO consumes the latest lot", func(t *testing.T) {
		l := scenario()
		w := l.Withdraw(day(2), d("1"), LIFO)

		assert.Equal(t, 1, len(w.Slices))
		assert.Equal(t, day(1), w.Slices[0].AcquiredAt)
		assertDecimal(t, "2500", w.Slices[0].CostBasis)
		assertConsistent(t, l)
	})

	t.Run("HIFO consumes the highest unit cost", func(t *testing.T) {
		l := scenario()
		w := l.Withdraw(day(2), d("1"), HIFO)

		assert.Equal(t, 1, len(w.Slices))
		assert.Equal(t, day(1), w.Slices[0].AcquiredAt)
		assertDecimal(t, "2500", w.Slices[0].CostBasis)
	})

	t.Run("HIFO picks an earlier lot when it cost more", func(t *testing.T) {
		hifo := New("BTC")
		hifo.Deposit(day(0), d("1"), d("3000"))
		hifo.Deposit(day(1), d("1"), d("2000"))

		lifo := New("BTC")
		lifo.Deposit(day(0), d("1"), d("3000"))
		lifo.Deposit(day(1), d("1"), d("2000"))

		h := hifo.Withdraw(day(2), d("1"), HIFO)
		l := lifo.Withdraw(day(2), d("1"), LIFO)

		assert.Equal(t, day(0), h.Slices[0].AcquiredAt)
		assertDecimal(t, "3000", h.Slices[0].CostBasis)
		assert.Equal(t, day(1), l.Slices[0].AcquiredAt)
		assertDecimal(t, "2000", l.Slices[0].CostBasis)
	})

	t.Run("HIFO compares unit cost, not total cost", func(t *testing.T) {
		l := New("ETH")
		l.Deposit(day(0), d("10"), d("1000")) // 100 per unit
		l.Deposit(day(1), d("1"), d("150"))   // 150 per unit

		w := l.Withdraw(day(2), d("1"), HIFO)

		assert.Equal(t, day(1), w.Slices[0].AcquiredAt)
		assertDecimal(t, "150", w.Slices[0].CostBasis)
	})

	t.Run("HIFO breaks ties by earliest acquisition", func(t *testing.T) {
		l := New("BTC")
		l.Deposit(day(3), d("2"), d("200"))
		l.Deposit(day(1), d("1"), d("100"))
		l.Deposit(day(2), d("4"), d("400"))

		w := l.Withdraw(day(4), d("6"), HIFO)

		assert.Equal(t, 3, len(w.Slices))
		assert.Equal(t, day(1), w.Slices[0].AcquiredAt)
		assert.Equal(t, day(2), w.Slices[1].AcquiredAt)
		assert.Equal(t, day(3), w.Slices[2].AcquiredAt)
		assertDecimal(t, "1", w.Slices[0].Quantity)
		assertDecimal(t, "4", w.Slices[1].Quantity)
		assertDecimal(t, "1", w.Slices[2].Quantity)
	})

	t.Run("Partial consumption allocates cost proportionally", func(t *testing.T) {
		l := New("BTC")
		l.Deposit(day(0), d("2"), d("100"))
		l.Deposit(day(1), d("2"), d("300"))

		w := l.Withdraw(day(2), d("3"), FIFO)

		assert.Equal(t, 2, len(w.Slices))
		assertDecimal(t, "2", w.Slices[0].Quantity)
		assertDecimal(t, "100", w.Slices[0].CostBasis)
		assertDecimal(t, "1", w.Slices[1].Quantity)
		assertDecimal(t, "150", w.Slices[1].CostBasis)
		assertDecimal(t, "3", w.Claimed())

		lots := l.Lots()
		assertDecimal(t, "0", lots[0].Remaining)
		assertDecimal(t, "1", lots[1].Remaining)
		assertDecimal(t, "150", l.RemainingCost())
		assert.Equal(t, 1, l.OpenLots())
		assertConsistent(t, l)
	})

	t.Run("Exhausted lots are skipped", func(t *testing.T) {
		l := scenario()
		l.Withdraw(day(2), d("1"), FIFO)
		w := l.Withdraw(day(3), d("1"), FIFO)

		assert.Equal(t, 1, len(w.Slices))
		assert.Equal(t, day(1), w.Slices[0].AcquiredAt)
		assertDecimal(t, "0", l.Balance())
	})

	t.Run("Round trip returns the full cost basis", func(t *testing.T) {
		l := New("XMR")
		l.Deposit(day(0), d("3.3"), d("1234.567"))

		w := l.Withdraw(day(1), d("3.3"), FIFO)

		assert.Equal(t, 1, len(w.Slices))
		assertDecimal(t, "1234.57", w.Slices[0].CostBasis.Round(2))
		assertDecimal(t, "0", l.Balance())
	})

	t.Run("Shortfall is reported as unmatched", func(t *testing.T) {
		l := scenario()
		w := l.Withdraw(day(2), d("3.5"), FIFO)

		assert.Equal(t, 2, len(w.Slices))
		assertDecimal(t, "2", w.Claimed())
		assertDecimal(t, "1.5", w.Unmatched)
		assert.True(t, w.IsShort())
		assertDecimal(t, "0", l.Balance())
		assertConsistent(t, l)
	})

	t.Run("Lots acquired at the withdrawal time are not eligible", func(t *testing.T) {
		l := New("BTC")
		l.Deposit(day(0), d("1"), d("100"))
		l.Deposit(day(1), d("1"), d("200"))

		w := l.Withdraw(day(1), d("2"), LIFO)

		assert.Equal(t, 1, len(w.Slices))
		assert.Equal(t, day(0), w.Slices[0].AcquiredAt)
		assertDecimal(t, "1", w.Unmatched)
	})

	t.Run("Non-positive request claims nothing", func(t *testing.T) {
		l := scenario()
		w := l.Withdraw(day(2), d("0"), FIFO)

		assert.Equal(t, 0, len(w.Slices))
		assertDecimal(t, "0", w.Unmatched)
		assertDecimal(t, "2", l.Balance())
	})

	t.Run("Lot from the future panics", func(t *testing.T) {
		l := scenario()
		assert.Panics(t, func() {
			l.Withdraw(day(0).Add(-time.Hour), d("1"), FIFO)
		})
	})

	t.Run("Unsupported method panics", func(t *testing.T) {
		l := scenario()
		assert.Panics(t, func() {
			l.Withdraw(day(2), d("1"), Method(42))
		})
	})
}

func TestLot_Claim(t *testing.T) {
	t.Run("Over-claim panics with InvariantError", func(t *testing.T) {
		lot := newLot(day(0), d("1"), d("10"))

		defer func() {
			r := recover()
			err, ok := r.(*InvariantError)
			if !ok {
				t.Fatalf("expected *InvariantError, got %T", r)
			}
			assert.Equal(t, "BTC", err.Asset)
			assert.Contains(t, err.Error(), "exceeds remaining")
		}()
		lot.claim("BTC", d("1.5"))
	})

	t.Run("Negative claim panics", func(t *testing.T) {
		lot := newLot(day(0), d("1"), d("10"))
		assert.Panics(t, func() {
			lot.claim("BTC", d("-1"))
		})
	})

	t.Run("Unit cost", func(t *testing.T) {
		lot := newLot(day(0), d("4"), d("10"))
		assertDecimal(t, "2.5", lot.UnitCost())

		empty := newLot(day(0), d("0"), d("10"))
		assertDecimal(t, "0", empty.UnitCost())
	})
}

func TestLedger_BalanceInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for _, method := range Methods {
		t.Run(method.String(), func(t *testing.T) {
			l := New("ETH")
			for i := 0; i < 500; i++ {
				at := day(i)
				quantity := decimal.NewFromInt(int64(rng.Intn(1000))).Shift(-2)
				if rng.Intn(3) == 0 {
					l.Withdraw(at, quantity, method)
				} else {
					l.Deposit(at, quantity, quantity.Mul(decimal.NewFromInt(int64(rng.Intn(5000)))))
				}
				assertConsistent(t, l)
			}
		})
	}
}
