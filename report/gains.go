// Package report renders gains results as CSV files, text summaries and
// position tables.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/robinvdvleuten/capgains/gains"
)

// GainsHeader is the column order of gains CSV files.
var GainsHeader = []string{"quantity", "asset", "buy_date", "sell_date", "cost_basis", "proceeds", "gain"}

// WriteGains writes events as CSV. Dates use RFC 3339 and amounts two
// decimals.
func WriteGains(w io.Writer, events []gains.Event) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(GainsHeader); err != nil {
		return err
	}
	for _, e := range events {
		record := []string{
			e.Quantity.String(),
			e.Asset,
			e.AcquiredAt.Format(time.RFC3339),
			e.DisposedAt.Format(time.RFC3339),
			e.CostBasis.StringFixed(2),
			e.Proceeds.StringFixed(2),
			e.Gain.StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// GainsFiles returns the long-term and short-term file names for a prefix.
func GainsFiles(prefix string) (long, short string) {
	return prefix + "_long_gains.csv", prefix + "_short_gains.csv"
}

// WriteGainsFiles partitions events by holding period and writes
// <prefix>_long_gains.csv and <prefix>_short_gains.csv.
func WriteGainsFiles(prefix string, events []gains.Event) error {
	longEvents, shortEvents := gains.Partition(events)
	longFile, shortFile := GainsFiles(prefix)

	if err := writeGainsFile(longFile, longEvents); err != nil {
		return err
	}
	return writeGainsFile(shortFile, shortEvents)
}

func writeGainsFile(filename string, events []gains.Event) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	if err := WriteGains(f, events); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return f.Close()
}
