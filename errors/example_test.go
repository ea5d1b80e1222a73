package errors_test

import (
	"context"
	"fmt"

	"github.com/robinvdvleuten/capgains/errors"
	"github.com/robinvdvleuten/capgains/loader"
)

func ExampleTextFormatter() {
	data := []byte("datetime,origin_wallet,origin_asset,origin_quantity,destination_wallet,destination_asset,destination_quantity,usd_value\n" +
		"2019-01-01,Kraken,USD,abc,Kraken,ETH,1,10\n")

	_, err := loader.New().LoadBytes(context.Background(), "trades.csv", data)

	formatter := errors.NewTextFormatter(errors.WithSource("trades.csv", data))
	fmt.Print(formatter.Format(err))
	// Output:
	// trades.csv:2: origin_quantity: invalid number "abc"
	//
	//    datetime,origin_wallet,origin_asset,origin_quantity,destination_wallet,destination_asset,destination_quantity,usd_value
	//    2019-01-01,Kraken,USD,abc,Kraken,ETH,1,10
	//                          ^
}

func ExampleJSONFormatter() {
	_, err := loader.New().LoadBytes(context.Background(), "trades.csv", []byte("datetime\n"))

	fmt.Println(errors.NewJSONFormatter().Format(err))
	// Output:
	// {"type":"*loader.ParseError","message":"trades.csv:1: origin_wallet: missing required column","position":{"filename":"trades.csv","line":1},"details":{"field":"origin_wallet"}}
}
