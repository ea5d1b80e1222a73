package ledger

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// Method selects which lots a withdrawal consumes first.
type Method int

const (
	// FIFO consumes the earliest acquired lots first.
	FIFO Method = iota + 1
	// LIFO consumes the latest acquired lots first.
	LIFO
	// HIFO consumes the lots with the highest unit cost basis first.
	HIFO
)

// Methods lists the supported booking methods.
var Methods = []Method{FIFO, LIFO, HIFO}

func (m Method) String() string {
	switch m {
	case FIFO:
		return "fifo"
	case LIFO:
		return "lifo"
	case HIFO:
		return "hifo"
	default:
		return "unknown"
	}
}

// Valid reports whether m is one of the supported methods.
func (m Method) Valid() bool {
	return m == FIFO || m == LIFO || m == HIFO
}

// ParseMethod parses a booking method name, ignoring case.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fifo":
		return FIFO, nil
	case "lifo":
		return LIFO, nil
	case "hifo":
		return HIFO, nil
	default:
		return 0, &UnsupportedMethodError{Name: s}
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Method) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, &UnsupportedMethodError{Name: m.String()}
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// candidate is an eligible lot together with its deposit position.
type candidate struct {
	lot   *Lot
	index int
}

// order sorts candidates into consumption order for the method. Every method
// ends on the deposit index so the order is total.
func order(candidates []candidate, method Method) {
	switch method {
	case FIFO:
		slices.SortStableFunc(candidates, func(a, b candidate) int {
			if c := a.lot.AcquiredAt.Compare(b.lot.AcquiredAt); c != 0 {
				return c
			}
			return a.index - b.index
		})
	case LIFO:
		slices.SortStableFunc(candidates, func(a, b candidate) int {
			if c := b.lot.AcquiredAt.Compare(a.lot.AcquiredAt); c != 0 {
				return c
			}
			return b.index - a.index
		})
	case HIFO:
		slices.SortStableFunc(candidates, func(a, b candidate) int {
			if c := compareUnitCost(b.lot, a.lot); c != 0 {
				return c
			}
			if c := a.lot.AcquiredAt.Compare(b.lot.AcquiredAt); c != 0 {
				return c
			}
			return a.index - b.index
		})
	default:
		// Engine.Run rejects unsupported methods before any withdrawal.
		panic(fmt.Sprintf("unsupported booking method %d after validation", int(method)))
	}
}

// compareUnitCost compares CostBasis/Quantity of two lots without dividing:
// a.CostBasis*b.Quantity against b.CostBasis*a.Quantity. Eligible lots always
// have a positive quantity.
func compareUnitCost(a, b *Lot) int {
	return a.CostBasis.Mul(b.Quantity).Cmp(b.CostBasis.Mul(a.Quantity))
}
