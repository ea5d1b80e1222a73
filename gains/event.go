package gains

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is one taxable disposal: a slice of a single lot consumed by a
// transaction. Monetary fields are rounded to cents.
type Event struct {
	TransactionID string          `json:"transaction_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	Asset         string          `json:"asset"`
	AcquiredAt    time.Time       `json:"acquired_at"`
	DisposedAt    time.Time       `json:"disposed_at"`
	CostBasis     decimal.Decimal `json:"cost_basis"`
	Proceeds      decimal.Decimal `json:"proceeds"`
	Gain          decimal.Decimal `json:"gain"`
}

// Unmatched records a withdrawal that found fewer eligible units than it
// requested. No event covers the shortfall.
type Unmatched struct {
	TransactionID string          `json:"transaction_id"`
	Asset         string          `json:"asset"`
	At            time.Time       `json:"at"`
	Requested     decimal.Decimal `json:"requested"`
	Quantity      decimal.Decimal `json:"quantity"`
	Pos           Position        `json:"-"`
}

// Round rounds a currency amount to two decimals, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
