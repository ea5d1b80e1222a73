package gains

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/capgains/ledger"
)

// benchHistory alternates buys and partial sells of BTC so every sell spans
// several open lots.
func benchHistory(n int) []Transaction {
	rng := rand.New(rand.NewSource(1))
	start := time.Date(2017, time.January, 1, 0, 0, 0, 0, time.UTC)

	transactions := make([]Transaction, 0, n)
	for i := 0; i < n; i++ {
		at := start.Add(time.Duration(i) * time.Hour)
		quantity := decimal.NewFromInt(int64(rng.Intn(100) + 1)).Shift(-2)
		value := quantity.Mul(decimal.NewFromInt(int64(rng.Intn(5000) + 5000)))

		txn := Transaction{
			ID:                  fmt.Sprintf("b%d", i),
			Datetime:            at,
			OriginWallet:        "Coinbase",
			OriginAsset:         "USD",
			OriginQuantity:      value,
			DestinationWallet:   "Coinbase",
			DestinationAsset:    "BTC",
			DestinationQuantity: quantity,
			Value:               value,
		}
		if i%3 == 2 {
			txn.OriginAsset, txn.DestinationAsset = "BTC", "USD"
			txn.OriginQuantity, txn.DestinationQuantity = quantity, value
		}
		transactions = append(transactions, txn)
	}
	return transactions
}

func benchmarkRun(b *testing.B, method ledger.Method) {
	transactions := benchHistory(10000)
	engine := New(nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := engine.Run(context.Background(), transactions, method)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRunFIFO(b *testing.B) { benchmarkRun(b, ledger.FIFO) }
func BenchmarkRunLIFO(b *testing.B) { benchmarkRun(b, ledger.LIFO) }
func BenchmarkRunHIFO(b *testing.B) { benchmarkRun(b, ledger.HIFO) }
