// Package gains replays a history of transactions through per-asset lot
// ledgers and reports every taxable disposal.
//
// Transactions are processed in chronological order. Each one withdraws its
// origin quantity from the origin ledger using the chosen booking method and
// deposits its destination quantity, at a cost basis equal to the
// transaction's value, into the destination ledger. Every lot slice consumed
// from a non-reporting-currency asset becomes an Event carrying its proceeds,
// cost basis and gain.
//
// Example usage:
//
//	engine := gains.New(ledger.NewConfig())
//	result, err := engine.Run(ctx, transactions, ledger.FIFO)
//	if err != nil {
//	    return err
//	}
//	long, short := gains.Partition(result.Events)
package gains

import (
	"context"
	"fmt"

	"github.com/robinvdvleuten/capgains/ledger"
	"github.com/robinvdvleuten/capgains/telemetry"
	"golang.org/x/exp/slices"
)

const (
	// ExternalWallet marks funds entering or leaving the tracked wallets.
	ExternalWallet = "External"
	// NotApplicableWallet marks a transaction without an origin, such as a
	// deposit of newly acquired funds.
	NotApplicableWallet = "N/A"
)

// Engine computes gains. It keeps no state between runs, so one Engine may be
// reused.
type Engine struct {
	config              *ledger.Config
	externalWallet      string
	notApplicableWallet string
}

// Option configures an Engine.
type Option func(*Engine)

// WithExternalWallet overrides the wallet name marking external transfers.
func WithExternalWallet(name string) Option {
	return func(e *Engine) {
		e.externalWallet = name
	}
}

// WithNotApplicableWallet overrides the wallet name marking a missing origin.
func WithNotApplicableWallet(name string) Option {
	return func(e *Engine) {
		e.notApplicableWallet = name
	}
}

// New creates an Engine. A nil config uses ledger.NewConfig().
func New(cfg *ledger.Config, opts ...Option) *Engine {
	if cfg == nil {
		cfg = ledger.NewConfig()
	}
	e := &Engine{
		config:              cfg,
		externalWallet:      ExternalWallet,
		notApplicableWallet: NotApplicableWallet,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the ledger configuration of the engine.
func (e *Engine) Config() *ledger.Config {
	return e.config
}

// Result is the outcome of one run.
type Result struct {
	Events    []Event
	Unmatched []Unmatched
	// Transfers counts internal transfers skipped without ledger effect.
	Transfers int
	// Registry holds the final state of every ledger.
	Registry *ledger.Registry
}

// Run processes the transactions with the booking method. The input slice is
// not modified. Run fails before any processing when method is unsupported and
// aborts at the first transaction that names an unknown asset.
func (e *Engine) Run(ctx context.Context, transactions []Transaction, method ledger.Method) (*Result, error) {
	if !method.Valid() {
		return nil, &ledger.UnsupportedMethodError{Name: method.String()}
	}

	timer := telemetry.StartTimer(ctx, fmt.Sprintf("gains.run (%d transactions)", len(transactions)))
	defer timer.End()

	sortTimer := timer.Child("gains.sort")
	ordered := slices.Clone(transactions)
	slices.SortStableFunc(ordered, func(a, b Transaction) int {
		return a.Datetime.Compare(b.Datetime)
	})
	sortTimer.End()

	processTimer := timer.Child("gains.process")
	defer processTimer.End()

	result := &Result{Registry: e.config.NewRegistry()}
	for _, txn := range ordered {
		if err := e.process(result, txn, method); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// isTransfer reports whether the transaction only moves an asset between
// tracked wallets.
func (e *Engine) isTransfer(txn Transaction) bool {
	return txn.OriginAsset == txn.DestinationAsset &&
		txn.OriginWallet != e.externalWallet &&
		txn.DestinationWallet != e.externalWallet
}

func (e *Engine) process(result *Result, txn Transaction, method ledger.Method) error {
	if e.isTransfer(txn) {
		result.Transfers++
		return nil
	}

	var origin *ledger.Ledger
	if txn.OriginWallet != e.notApplicableWallet {
		l, err := result.Registry.Get(txn.OriginAsset)
		if err != nil {
			return &LookupError{Transaction: txn, Err: err}
		}
		origin = l
	}
	destination, err := result.Registry.Get(txn.DestinationAsset)
	if err != nil {
		return &LookupError{Transaction: txn, Err: err}
	}

	var withdrawal *ledger.Withdrawal
	if origin != nil {
		withdrawal = origin.Withdraw(txn.Datetime, txn.OriginQuantity, method)
	}
	destination.Deposit(txn.Datetime, txn.DestinationQuantity, txn.Value)

	if withdrawal == nil {
		return nil
	}

	if txn.OriginAsset != e.config.ReportingCurrency {
		for _, slice := range withdrawal.Slices {
			proceeds := Round(txn.Value.Mul(slice.Quantity).Div(txn.OriginQuantity))
			cost := Round(slice.CostBasis)
			result.Events = append(result.Events, Event{
				TransactionID: txn.ID,
				Quantity:      slice.Quantity,
				Asset:         txn.OriginAsset,
				AcquiredAt:    slice.AcquiredAt,
				DisposedAt:    txn.Datetime,
				CostBasis:     cost,
				Proceeds:      proceeds,
				Gain:          proceeds.Sub(cost),
			})
		}
	}

	if withdrawal.IsShort() {
		result.Unmatched = append(result.Unmatched, Unmatched{
			TransactionID: txn.ID,
			Asset:         txn.OriginAsset,
			At:            txn.Datetime,
			Requested:     withdrawal.Requested,
			Quantity:      withdrawal.Unmatched,
			Pos:           txn.Pos,
		})
	}
	return nil
}
