// Large Transaction History Generator
//
// This tool generates a large transaction CSV for performance testing and profiling.
// It mixes buys, sells, swaps and wallet transfers to stress-test the loader and
// the gains engine.
//
// Usage:
//
//	go run main.go > large.csv
//	go run main.go 500000 > large.csv  # Specify the number of transactions
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/capgains/gains"
	"github.com/robinvdvleuten/capgains/loader"
)

const (
	defaultCount = 100000
)

var (
	wallets = []string{"Coinbase", "Kraken", "Bittrex", "Ledger"}
	assets  = []string{"BTC", "ETH", "LTC", "XMR", "ZEC", "ADA"}

	// prices are rough unit prices in USD.
	prices = map[string]int64{
		"BTC": 9000,
		"ETH": 300,
		"LTC": 80,
		"XMR": 120,
		"ZEC": 90,
		"ADA": 1,
	}
)

func main() {
	count := defaultCount
	if len(os.Args) > 1 {
		if n, err := strconv.Atoi(os.Args[1]); err == nil {
			count = n
		}
	}

	holdings := make(map[string]decimal.Decimal, len(assets))
	transactions := make([]gains.Transaction, 0, count)
	current := time.Date(2016, 1, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < count; i++ {
		asset := assets[rand.Intn(len(assets))]
		held := holdings[asset]

		var txn gains.Transaction
		switch n := rand.Intn(10); {
		case n < 4 || held.IsZero(): // 40% - Buy with USD
			quantity := randQuantity()
			value := price(asset, quantity)
			txn = newTransaction(current, "Coinbase", "USD", value, wallet(), asset, quantity, value)
			holdings[asset] = held.Add(quantity)

		case n < 7: // 30% - Sell for USD
			quantity := part(held)
			value := price(asset, quantity)
			txn = newTransaction(current, wallet(), asset, quantity, "Coinbase", "USD", value, value)
			holdings[asset] = held.Sub(quantity)

		case n < 8: // 10% - Swap into another asset
			other := assets[rand.Intn(len(assets))]
			if other == asset {
				other = "BTC"
			}
			if other == asset {
				other = "ETH"
			}
			quantity := part(held)
			value := price(asset, quantity)
			received := value.Div(decimal.NewFromInt(prices[other])).Round(8)
			txn = newTransaction(current, "Kraken", asset, quantity, "Kraken", other, received, value)
			holdings[asset] = held.Sub(quantity)
			holdings[other] = holdings[other].Add(received)

		case n < 9: // 10% - Transfer between own wallets
			quantity := part(held)
			txn = newTransaction(current, "Coinbase", asset, quantity, "Ledger", asset, quantity, price(asset, quantity))

		default: // 10% - Incoming deposit without origin
			quantity := randQuantity()
			value := price(asset, quantity)
			txn = newTransaction(current, gains.NotApplicableWallet, "USD", decimal.Zero, wallet(), asset, quantity, value)
			holdings[asset] = held.Add(quantity)
		}

		txn.ID = fmt.Sprintf("gen-%07d", i)
		transactions = append(transactions, txn)

		// Advance time by up to a day
		current = current.Add(time.Duration(rand.Intn(24*60)+1) * time.Minute)
	}

	if err := loader.Write(os.Stdout, transactions); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write transactions: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "\nGenerated %d transactions from %s to %s\n",
		len(transactions), transactions[0].Datetime.Format("2006-01-02"), current.Format("2006-01-02"))
}

func newTransaction(at time.Time, originWallet, originAsset string, originQuantity decimal.Decimal, destinationWallet, destinationAsset string, destinationQuantity, value decimal.Decimal) gains.Transaction {
	return gains.Transaction{
		Datetime:            at,
		OriginWallet:        originWallet,
		OriginAsset:         originAsset,
		OriginQuantity:      originQuantity,
		DestinationWallet:   destinationWallet,
		DestinationAsset:    destinationAsset,
		DestinationQuantity: destinationQuantity,
		Value:               value,
	}
}

func wallet() string {
	return wallets[rand.Intn(len(wallets))]
}

// randQuantity returns a quantity between 0.01 and 10.00.
func randQuantity() decimal.Decimal {
	return decimal.NewFromInt(int64(rand.Intn(1000) + 1)).Shift(-2)
}

// part returns a random share of held, rounded to 8 decimals. Occasionally it
// overshoots so the history contains unmatched withdrawals.
func part(held decimal.Decimal) decimal.Decimal {
	if rand.Intn(50) == 0 {
		return held.Add(decimal.NewFromInt(1))
	}
	share := decimal.NewFromInt(int64(rand.Intn(100) + 1)).Shift(-2)
	return held.Mul(share).Round(8)
}

// price values quantity with up to 20% noise around the unit price.
func price(asset string, quantity decimal.Decimal) decimal.Decimal {
	noise := decimal.NewFromInt(int64(rand.Intn(40) + 80)).Shift(-2)
	return quantity.Mul(decimal.NewFromInt(prices[asset])).Mul(noise).Round(2)
}
