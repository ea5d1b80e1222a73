package loader

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/robinvdvleuten/capgains/gains"
)

// Write writes transactions as canonical CSV with a Header row. Datetimes use
// RFC 3339 and decimals keep their full precision.
func Write(w io.Writer, transactions []gains.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}

	for _, txn := range transactions {
		fee := ""
		if txn.Fee != nil {
			fee = txn.Fee.String()
		}
		record := []string{
			txn.ID,
			txn.Datetime.Format(time.RFC3339Nano),
			txn.OriginWallet,
			txn.OriginAsset,
			txn.OriginQuantity.String(),
			txn.DestinationWallet,
			txn.DestinationAsset,
			txn.DestinationQuantity.String(),
			txn.Value.String(),
			fee,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
