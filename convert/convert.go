// Package convert turns exchange trade exports into canonical transactions.
//
// Each supported exchange has a Converter. Converters map the exchange's
// trading pairs to asset symbols with a pair table that can be replaced for
// exports containing other markets.
//
// Example usage:
//
//	c, err := convert.Lookup("kraken")
//	if err != nil {
//	    return err
//	}
//	transactions, err := c.Convert(ctx, file)
//	if err != nil {
//	    return err
//	}
//	return loader.Write(os.Stdout, transactions)
package convert

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/robinvdvleuten/capgains/gains"
	"github.com/robinvdvleuten/capgains/loader"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// Converter reads one exchange's export format.
type Converter interface {
	Name() string
	Convert(ctx context.Context, r io.Reader) ([]gains.Transaction, error)
}

// Pair is a trading pair split into its two assets. For Kraken pairs Base is
// the traded asset and Quote the pricing currency; for Bittrex markets Base is
// the market currency and Quote the traded currency.
type Pair struct {
	Base  string
	Quote string
}

var registry = map[string]func() Converter{
	"kraken":  func() Converter { return NewKraken() },
	"bittrex": func() Converter { return NewBittrex() },
}

// Names lists the supported exchanges.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the converter for an exchange name, ignoring case.
func Lookup(name string) (Converter, error) {
	factory, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, &UnknownExchangeError{Name: name}
	}
	return factory(), nil
}

// record is a CSV row addressed by column name.
type record struct {
	line    int
	fields  []string
	columns map[string]int
	errs    []error
}

// readRecords reads a CSV export and checks that every required column is
// present.
func readRecords(r io.Reader, required []string) ([]*record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &loader.ParseError{Pos: gains.Position{Line: 1}, Message: "missing header row"}
	}
	if err != nil {
		return nil, err
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range required {
		if _, ok := columns[name]; !ok {
			return nil, &loader.ParseError{Pos: gains.Position{Line: 1}, Field: name, Message: "missing required column"}
		}
	}

	var records []*record
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		records = append(records, &record{line: line, fields: fields, columns: columns})
	}
	return records, nil
}

func (r *record) get(column string) string {
	i, ok := r.columns[column]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

func (r *record) fail(column, message string) {
	r.errs = append(r.errs, &loader.ParseError{Pos: gains.Position{Line: r.line}, Field: column, Message: message})
}

func (r *record) decimal(column string) decimal.Decimal {
	raw := r.get(column)
	value, err := decimal.NewFromString(raw)
	if err != nil {
		r.fail(column, fmt.Sprintf("invalid number %q", raw))
		return decimal.Zero
	}
	return value
}

// finish sorts the converted transactions by time, or returns every row error.
func finish(transactions []gains.Transaction, errs []error) ([]gains.Transaction, error) {
	if len(errs) > 0 {
		return nil, &loader.ParseErrors{Errors: errs}
	}
	slices.SortStableFunc(transactions, func(a, b gains.Transaction) int {
		return a.Datetime.Compare(b.Datetime)
	})
	return transactions, nil
}
