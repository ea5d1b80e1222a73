package convert

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/robinvdvleuten/capgains/gains"
	"github.com/robinvdvleuten/capgains/telemetry"
)

// BittrexPairs maps Bittrex markets to their market and traded currencies.
var BittrexPairs = map[string]Pair{
	"BTC-PIVX": {Base: "BTC", Quote: "PIVX"},
	"BTC-BITB": {Base: "BTC", Quote: "BITB"},
	"BTC-DASH": {Base: "BTC", Quote: "DASH"},
	"BTC-XZC":  {Base: "BTC", Quote: "XZC"},
	"BTC-ADA":  {Base: "BTC", Quote: "ADA"},
}

const bittrexTimeLayout = "1/2/2006 3:04:05 PM"

// Bittrex converts the Bittrex order history export.
type Bittrex struct {
	Wallet string
	Pairs  map[string]Pair
}

// NewBittrex creates a Bittrex converter with the default market table.
func NewBittrex() *Bittrex {
	return &Bittrex{Wallet: "Bittrex", Pairs: BittrexPairs}
}

func (b *Bittrex) Name() string {
	return "bittrex"
}

// Convert reads an order history export. A LIMIT_BUY spends Price plus
// Commission of the market currency for Quantity of the traded currency; a
// LIMIT_SELL is the reverse. The value is Quantity × PricePerUnit plus
// Commission, expressed in the market currency.
func (b *Bittrex) Convert(ctx context.Context, r io.Reader) ([]gains.Transaction, error) {
	timer := telemetry.StartTimer(ctx, "convert.bittrex")
	defer timer.End()

	records, err := readRecords(r, []string{"Uuid", "Exchange", "TimeStamp", "OrderType", "Quantity", "Commission", "Price", "PricePerUnit"})
	if err != nil {
		return nil, err
	}

	var transactions []gains.Transaction
	var errs []error
	for _, rec := range records {
		pair, ok := b.Pairs[rec.get("Exchange")]
		if !ok {
			errs = append(errs, &UnknownPairError{Exchange: b.Name(), Pair: rec.get("Exchange"), Line: rec.line})
			continue
		}

		// Hours may be padded with a space.
		stamp := strings.Join(strings.Fields(rec.get("TimeStamp")), " ")
		at, err := time.ParseInLocation(bittrexTimeLayout, stamp, time.UTC)
		if err != nil {
			rec.fail("TimeStamp", fmt.Sprintf("invalid time %q", rec.get("TimeStamp")))
		}
		quantity := rec.decimal("Quantity")
		commission := rec.decimal("Commission")
		price := rec.decimal("Price")
		perUnit := rec.decimal("PricePerUnit")

		txn := gains.Transaction{
			ID:                rec.get("Uuid"),
			Datetime:          at,
			OriginWallet:      b.Wallet,
			DestinationWallet: b.Wallet,
			Value:             quantity.Mul(perUnit).Add(commission),
			Fee:               &commission,
		}
		switch rec.get("OrderType") {
		case "LIMIT_BUY":
			txn.OriginAsset, txn.OriginQuantity = pair.Base, price.Add(commission)
			txn.DestinationAsset, txn.DestinationQuantity = pair.Quote, quantity
		case "LIMIT_SELL":
			txn.OriginAsset, txn.OriginQuantity = pair.Quote, quantity
			txn.DestinationAsset, txn.DestinationQuantity = pair.Base, price.Sub(commission)
		default:
			rec.fail("OrderType", fmt.Sprintf("unknown order type %q", rec.get("OrderType")))
		}

		if len(rec.errs) > 0 {
			errs = append(errs, rec.errs...)
			continue
		}
		transactions = append(transactions, txn)
	}

	return finish(transactions, errs)
}
