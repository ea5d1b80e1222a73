package convert

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/robinvdvleuten/capgains/gains"
	"github.com/robinvdvleuten/capgains/telemetry"
)

// KrakenPairs maps Kraken pair names to their traded and pricing assets.
var KrakenPairs = map[string]Pair{
	"BCHXBT":   {Base: "BCH", Quote: "XBT"},
	"XXMRZUSD": {Base: "XMR", Quote: "USD"},
	"XZECZUSD": {Base: "ZEC", Quote: "USD"},
	"XXBTZUSD": {Base: "XBT", Quote: "USD"},
}

const krakenTimeLayout = "2006-01-02 15:04:05.999999999"

// Kraken converts the Kraken trades export.
type Kraken struct {
	Wallet string
	Pairs  map[string]Pair
}

// NewKraken creates a Kraken converter with the default pair table.
func NewKraken() *Kraken {
	return &Kraken{Wallet: "Kraken", Pairs: KrakenPairs}
}

func (k *Kraken) Name() string {
	return "kraken"
}

// Convert reads a trades export. A buy spends cost of the pricing asset for
// vol of the traded asset; a sell is the reverse. The value is cost plus fee.
func (k *Kraken) Convert(ctx context.Context, r io.Reader) ([]gains.Transaction, error) {
	timer := telemetry.StartTimer(ctx, "convert.kraken")
	defer timer.End()

	records, err := readRecords(r, []string{"txid", "pair", "time", "type", "cost", "fee", "vol"})
	if err != nil {
		return nil, err
	}

	var transactions []gains.Transaction
	var errs []error
	for _, rec := range records {
		pair, ok := k.Pairs[rec.get("pair")]
		if !ok {
			errs = append(errs, &UnknownPairError{Exchange: k.Name(), Pair: rec.get("pair"), Line: rec.line})
			continue
		}

		at, err := time.ParseInLocation(krakenTimeLayout, rec.get("time"), time.UTC)
		if err != nil {
			rec.fail("time", fmt.Sprintf("invalid time %q", rec.get("time")))
		}
		cost := rec.decimal("cost")
		fee := rec.decimal("fee")
		vol := rec.decimal("vol")

		txn := gains.Transaction{
			ID:                rec.get("txid"),
			Datetime:          at,
			OriginWallet:      k.Wallet,
			DestinationWallet: k.Wallet,
			Value:             cost.Add(fee),
			Fee:               &fee,
		}
		switch rec.get("type") {
		case "buy":
			txn.OriginAsset, txn.OriginQuantity = pair.Quote, cost
			txn.DestinationAsset, txn.DestinationQuantity = pair.Base, vol
		case "sell":
			txn.OriginAsset, txn.OriginQuantity = pair.Base, vol
			txn.DestinationAsset, txn.DestinationQuantity = pair.Quote, cost
		default:
			rec.fail("type", fmt.Sprintf("unknown trade type %q", rec.get("type")))
		}

		if len(rec.errs) > 0 {
			errs = append(errs, rec.errs...)
			continue
		}
		transactions = append(transactions, txn)
	}

	return finish(transactions, errs)
}
