package cli

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/capgains/gains"
	"github.com/robinvdvleuten/capgains/ledger"
	"github.com/robinvdvleuten/capgains/loader"
)

const source = `id,datetime,origin_wallet,origin_asset,origin_quantity,destination_wallet,destination_asset,destination_quantity,usd_value
t1,2018-01-01,Coinbase,USD,2250,Coinbase,BTC,1,2250
t2,2018-01-02,Coinbase,USD,abc,Coinbase,BTC,1,2500
t3,2018-01-03,Coinbase,BTC,1,Coinbase,USD,3000,3000`

func TestErrorRenderer_RenderParseErrorWithSourceContext(t *testing.T) {
	parseErr := &loader.ParseError{
		Pos:     gains.Position{Filename: "trades.csv", Line: 3, Column: 34},
		Field:   "origin_quantity",
		Message: "invalid amount",
	}

	renderer := NewErrorRenderer("trades.csv", []byte(source))
	output := renderer.Render(parseErr)

	assert.Contains(t, output, "invalid amount")
	assert.Contains(t, output, "trades.csv:3: origin_quantity: invalid amount")
	assert.Contains(t, output, "t2,2018-01-02,Coinbase,USD,abc")
	assert.Contains(t, output, "^")

	lines := strings.Split(output, "\n")
	foundIndentedLine := false
	for _, line := range lines {
		if strings.HasPrefix(line, "   ") && strings.Contains(line, "t2,2018-01-02") {
			foundIndentedLine = true
			break
		}
	}
	assert.True(t, foundIndentedLine, "Expected indented source lines")
}

func TestErrorRenderer_RenderWithoutSource(t *testing.T) {
	parseErr := &loader.ParseError{
		Pos:     gains.Position{Filename: "other.csv", Line: 3, Column: 34},
		Field:   "origin_quantity",
		Message: "invalid amount",
	}

	renderer := NewErrorRenderer("trades.csv", []byte(source))
	output := renderer.Render(parseErr)

	assert.Contains(t, output, "other.csv:3: origin_quantity")
	assert.NotContains(t, output, "^")
}

func TestErrorRenderer_RenderLookupErrorAsTransaction(t *testing.T) {
	lookupErr := &gains.LookupError{
		Transaction: gains.Transaction{
			ID:                  "t9",
			Datetime:            time.Date(2018, time.January, 1, 0, 0, 0, 0, time.UTC),
			OriginWallet:        "Coinbase",
			OriginAsset:         "USD",
			OriginQuantity:      decimal.NewFromInt(10),
			DestinationWallet:   "Coinbase",
			DestinationAsset:    "DOGE",
			DestinationQuantity: decimal.NewFromInt(100),
			Value:               decimal.NewFromInt(10),
		},
		Err: &ledger.AssetNotFoundError{Asset: "DOGE"},
	}

	output := NewErrorRenderer("", nil).Render(lookupErr)

	assert.Contains(t, output, `no ledger configured for asset "DOGE"`)
	assert.Contains(t, output, "   t9,2018-01-01T00:00:00Z,Coinbase,USD,10,Coinbase,DOGE,100,10")
}

func TestErrorRenderer_RenderAll(t *testing.T) {
	errs := &loader.ParseErrors{Errors: []error{
		&loader.ParseError{Pos: gains.Position{Filename: "trades.csv", Line: 2}, Field: "datetime", Message: "first"},
		&loader.ParseError{Pos: gains.Position{Filename: "trades.csv", Line: 3}, Field: "usd_value", Message: "second"},
	}}

	renderer := NewErrorRenderer("trades.csv", []byte(source))
	assert.Equal(t, 2, renderer.Count(errs))

	output := renderer.Render(errs)
	assert.Contains(t, output, "first")
	assert.Contains(t, output, "second")
	assert.True(t, strings.Index(output, "first") < strings.Index(output, "second"))
}

func TestErrorRenderer_PlainError(t *testing.T) {
	output := NewErrorRenderer("", nil).Render(fmt.Errorf("boom"))
	assert.Equal(t, "boom", output)
}
