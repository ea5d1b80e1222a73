package gains

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Position is the source location of a transaction.
type Position struct {
	Filename string
	Line     int
	Column   int
}

// String formats the position as filename:line, or filename:line:column when
// a column is known.
func (p Position) String() string {
	if p.Filename == "" && p.Line == 0 {
		return ""
	}
	if p.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d", p.Filename, p.Line)
}

// Transaction moves OriginQuantity of OriginAsset out of OriginWallet and
// DestinationQuantity of DestinationAsset into DestinationWallet. Value is the
// fair-market value of the exchange in the reporting currency.
type Transaction struct {
	ID       string
	Datetime time.Time

	OriginWallet   string
	OriginAsset    string
	OriginQuantity decimal.Decimal

	DestinationWallet   string
	DestinationAsset    string
	DestinationQuantity decimal.Decimal

	Value decimal.Decimal
	// Fee is informational and does not affect gains.
	Fee *decimal.Decimal

	Pos Position
}

func (t Transaction) String() string {
	return fmt.Sprintf("%s %s %s %s (%s) -> %s %s (%s)",
		t.Datetime.Format(time.RFC3339), t.ID,
		t.OriginQuantity, t.OriginAsset, t.OriginWallet,
		t.DestinationQuantity, t.DestinationAsset, t.DestinationWallet)
}
