package gains

import (
	"errors"
	"fmt"

	"github.com/robinvdvleuten/capgains/ledger"
)

// LookupError is returned when a transaction names an asset without a ledger.
// It wraps the registry's *ledger.AssetNotFoundError.
type LookupError struct {
	Transaction Transaction
	Err         error
}

func (e *LookupError) Error() string {
	prefix := ""
	if pos := e.Transaction.Pos.String(); pos != "" {
		prefix = pos + ": "
	}
	return fmt.Sprintf("%stransaction %s: %v", prefix, e.Transaction.ID, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

func (e *LookupError) GetPosition() Position {
	return e.Transaction.Pos
}

func (e *LookupError) GetTransaction() Transaction {
	return e.Transaction
}

// GetAsset returns the missing asset symbol.
func (e *LookupError) GetAsset() string {
	var notFound *ledger.AssetNotFoundError
	if errors.As(e.Err, &notFound) {
		return notFound.Asset
	}
	return ""
}
