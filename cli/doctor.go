package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/robinvdvleuten/capgains/loader"
)

// DoctorCmd provides doctor utilities for debugging transaction files.
type DoctorCmd struct {
	Dump   DumpCmd   `cmd:"" help:"Show the transactions parsed from a file."`
	Config ConfigCmd `cmd:"" help:"Show the effective asset configuration."`
}

// DumpCmd prints every parsed transaction.
type DumpCmd struct {
	File FileOrStdin `help:"Transaction CSV file (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

// dumpedTransaction renders decimals and times as text so repr output stays
// readable.
type dumpedTransaction struct {
	ID                  string
	Pos                 string
	Datetime            string
	OriginWallet        string
	OriginAsset         string
	OriginQuantity      string
	DestinationWallet   string
	DestinationAsset    string
	DestinationQuantity string
	Value               string
	Fee                 string
}

// Run executes the dump command.
func (cmd *DumpCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	transactions, err := cmd.File.Load(context.Background(), loader.New())
	if err != nil {
		source, _ := cmd.File.GetSourceContent()
		renderer := NewErrorRenderer(cmd.File.GetAbsoluteFilename(), source)
		reportErrors(ctx.Stderr, renderer, err, fmt.Sprintf("%d error(s) found", renderer.Count(err)))
		return NewCommandError(ExitFailure)
	}

	printer := repr.New(ctx.Stdout, repr.Indent("  "), repr.OmitEmpty(true))
	for _, txn := range transactions {
		dumped := dumpedTransaction{
			ID:                  txn.ID,
			Pos:                 txn.Pos.String(),
			Datetime:            txn.Datetime.Format(time.RFC3339Nano),
			OriginWallet:        txn.OriginWallet,
			OriginAsset:         txn.OriginAsset,
			OriginQuantity:      txn.OriginQuantity.String(),
			DestinationWallet:   txn.DestinationWallet,
			DestinationAsset:    txn.DestinationAsset,
			DestinationQuantity: txn.DestinationQuantity.String(),
			Value:               txn.Value.String(),
		}
		if txn.Fee != nil {
			dumped.Fee = txn.Fee.String()
		}
		printer.Println(dumped)
	}

	return nil
}

// ConfigCmd prints the asset configuration a run would use.
type ConfigCmd struct{}

// Run executes the config command.
func (cmd *ConfigCmd) Run(ctx *kong.Context, globals *Globals) error {
	cfg, err := loadConfig(globals.Config)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(ctx.Stdout, "reporting currency  %s\n", cfg.ReportingCurrency)
	_, _ = fmt.Fprintf(ctx.Stdout, "seed                %s\n", cfg.Seed)
	_, _ = fmt.Fprintf(ctx.Stdout, "assets              ")
	repr.New(ctx.Stdout).Println(cfg.Assets)
	return nil
}
