// Package loader reads transaction histories in the canonical CSV layout.
//
// Columns are matched by header name, so their order is free:
//
//	id,datetime,origin_wallet,origin_asset,origin_quantity,destination_wallet,destination_asset,destination_quantity,usd_value,usd_fee
//
// "value" and "fee" are accepted in place of "usd_value" and "usd_fee". The id
// and fee columns are optional. Rows without an id get a deterministic UUID
// derived from their content.
//
// Example usage:
//
//	ldr := loader.New()
//	transactions, err := ldr.Load(ctx, "transactions.csv")
//
//	// Merge several exports, each file read once
//	transactions, err := ldr.LoadAll(ctx, "kraken.csv", "bittrex.csv")
package loader

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robinvdvleuten/capgains/gains"
	"github.com/robinvdvleuten/capgains/telemetry"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// Canonical column names.
const (
	ColumnID                  = "id"
	ColumnDatetime            = "datetime"
	ColumnOriginWallet        = "origin_wallet"
	ColumnOriginAsset         = "origin_asset"
	ColumnOriginQuantity      = "origin_quantity"
	ColumnDestinationWallet   = "destination_wallet"
	ColumnDestinationAsset    = "destination_asset"
	ColumnDestinationQuantity = "destination_quantity"
	ColumnValue               = "usd_value"
	ColumnFee                 = "usd_fee"
)

// Header is the canonical column order written by Write.
var Header = []string{
	ColumnID,
	ColumnDatetime,
	ColumnOriginWallet,
	ColumnOriginAsset,
	ColumnOriginQuantity,
	ColumnDestinationWallet,
	ColumnDestinationAsset,
	ColumnDestinationQuantity,
	ColumnValue,
	ColumnFee,
}

var required = []string{
	ColumnDatetime,
	ColumnOriginWallet,
	ColumnOriginAsset,
	ColumnOriginQuantity,
	ColumnDestinationWallet,
	ColumnDestinationAsset,
	ColumnDestinationQuantity,
	ColumnValue,
}

var aliases = map[string]string{
	"value": ColumnValue,
	"fee":   ColumnFee,
}

// DatetimeLayouts are tried in order when parsing the datetime column.
var DatetimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Loader reads canonical transaction CSV files.
//
// Configure the loader using functional options passed to New:
//
//	ldr := New(WithLocation(time.Local))
type Loader struct {
	// Location interprets datetimes without a zone offset. Defaults to UTC.
	Location *time.Location
}

// Option configures how files are loaded.
type Option func(*Loader)

// WithLocation sets the time zone for datetimes without an offset.
func WithLocation(loc *time.Location) Option {
	return func(l *Loader) {
		l.Location = loc
	}
}

// New creates a new Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{Location: time.UTC}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and parses a single file.
func (l *Loader) Load(ctx context.Context, filename string) ([]gains.Transaction, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return l.LoadBytes(ctx, filename, data)
}

// LoadAll loads several files and merges their transactions in datetime
// order. A file named more than once is read only once.
func (l *Loader) LoadAll(ctx context.Context, filenames ...string) ([]gains.Transaction, error) {
	visited := make(map[string]bool, len(filenames))
	var merged []gains.Transaction

	for _, filename := range filenames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		absPath, err := filepath.Abs(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve absolute path for %s: %w", filename, err)
		}
		if visited[absPath] {
			continue
		}
		visited[absPath] = true

		transactions, err := l.Load(ctx, filename)
		if err != nil {
			return nil, err
		}
		merged = append(merged, transactions...)
	}

	slices.SortStableFunc(merged, func(a, b gains.Transaction) int {
		return a.Datetime.Compare(b.Datetime)
	})
	return merged, nil
}

// LoadBytes parses CSV data. filename is only used for positions in errors.
// All row errors are collected and returned together as *ParseErrors.
func (l *Loader) LoadBytes(ctx context.Context, filename string, data []byte) ([]gains.Transaction, error) {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("loader.load %s", filepath.Base(filename)))
	defer timer.End()

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{Pos: gains.Position{Filename: filename, Line: 1}, Message: "missing header row"}
	}
	if err != nil {
		return nil, csvError(filename, err)
	}

	columns, err := mapHeader(filename, header)
	if err != nil {
		return nil, err
	}

	var transactions []gains.Transaction
	var errs []error
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			errs = append(errs, csvError(filename, err))
			continue
		}

		line, _ := r.FieldPos(0)
		row := &row{
			loader:   l,
			filename: filename,
			line:     line,
			record:   record,
			columns:  columns,
			reader:   r,
		}
		txn := row.transaction()
		if len(row.errs) > 0 {
			errs = append(errs, row.errs...)
			continue
		}
		transactions = append(transactions, txn)
	}

	if len(errs) > 0 {
		return nil, &ParseErrors{Errors: errs}
	}
	return transactions, nil
}

func mapHeader(filename string, header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if name == "" {
			continue
		}
		if canonical, ok := aliases[name]; ok {
			name = canonical
		}
		if _, dup := columns[name]; dup {
			return nil, &ParseError{
				Pos:     gains.Position{Filename: filename, Line: 1},
				Field:   name,
				Message: "duplicate column",
			}
		}
		columns[name] = i
	}

	for _, name := range required {
		if _, ok := columns[name]; !ok {
			return nil, &ParseError{
				Pos:     gains.Position{Filename: filename, Line: 1},
				Field:   name,
				Message: "missing required column",
			}
		}
	}
	return columns, nil
}

func csvError(filename string, err error) error {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return &ParseError{
			Pos:        gains.Position{Filename: filename, Line: csvErr.Line, Column: csvErr.Column},
			Message:    csvErr.Err.Error(),
			Underlying: err,
		}
	}
	return fmt.Errorf("failed to read %s: %w", filename, err)
}

// row converts one CSV record, collecting every field error.
type row struct {
	loader   *Loader
	filename string
	line     int
	record   []string
	columns  map[string]int
	reader   *csv.Reader
	errs     []error
}

func (r *row) transaction() gains.Transaction {
	txn := gains.Transaction{
		ID:                  r.get(ColumnID),
		Datetime:            r.datetime(ColumnDatetime),
		OriginWallet:        r.get(ColumnOriginWallet),
		OriginAsset:         r.asset(ColumnOriginAsset),
		OriginQuantity:      r.amount(ColumnOriginQuantity),
		DestinationWallet:   r.get(ColumnDestinationWallet),
		DestinationAsset:    r.asset(ColumnDestinationAsset),
		DestinationQuantity: r.amount(ColumnDestinationQuantity),
		Value:               r.amount(ColumnValue),
		Pos:                 gains.Position{Filename: r.filename, Line: r.line},
	}

	if r.get(ColumnFee) != "" {
		fee := r.amount(ColumnFee)
		txn.Fee = &fee
	}
	if txn.ID == "" {
		txn.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(strings.Join(r.record, ","))).String()
	}
	return txn
}

func (r *row) get(column string) string {
	i, ok := r.columns[column]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

func (r *row) fail(column, message string, err error) {
	pos := gains.Position{Filename: r.filename, Line: r.line}
	if i, ok := r.columns[column]; ok && i < len(r.record) {
		pos.Line, pos.Column = r.reader.FieldPos(i)
	}
	r.errs = append(r.errs, &ParseError{Pos: pos, Field: column, Message: message, Underlying: err})
}

func (r *row) asset(column string) string {
	value := strings.ToUpper(r.get(column))
	if value == "" {
		r.fail(column, "asset must not be empty", nil)
	}
	return value
}

func (r *row) amount(column string) decimal.Decimal {
	raw := r.get(column)
	if raw == "" {
		r.fail(column, "value must not be empty", nil)
		return decimal.Zero
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		r.fail(column, fmt.Sprintf("invalid number %q", raw), err)
		return decimal.Zero
	}
	if value.IsNegative() {
		r.fail(column, fmt.Sprintf("negative amount %s", raw), nil)
	}
	return value
}

func (r *row) datetime(column string) time.Time {
	raw := r.get(column)
	if raw == "" {
		r.fail(column, "datetime must not be empty", nil)
		return time.Time{}
	}
	for _, layout := range DatetimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, r.loader.Location); err == nil {
			return t
		}
	}
	r.fail(column, fmt.Sprintf("invalid datetime %q", raw), nil)
	return time.Time{}
}
