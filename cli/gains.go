package cli

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/capgains/gains"
	"github.com/robinvdvleuten/capgains/ledger"
	"github.com/robinvdvleuten/capgains/loader"
	"github.com/robinvdvleuten/capgains/output"
	"github.com/robinvdvleuten/capgains/report"
)

// GainsCmd computes capital gains and writes the long and short term reports.
type GainsCmd struct {
	File      FileOrStdin   `help:"Transaction CSV file (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Method    ledger.Method `help:"Lot booking method (fifo, lifo, hifo)." default:"fifo" short:"m"`
	Output    string        `help:"Write PREFIX_long_gains.csv and PREFIX_short_gains.csv." short:"o" placeholder:"PREFIX"`
	Positions bool          `help:"Show the remaining position of every asset." short:"p"`
	Force     bool          `help:"Overwrite existing report files without asking." short:"f"`
	Strict    bool          `help:"Exit with code 2 when a withdrawal exceeds the available lots."`
}

func (cmd *GainsCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, done := startTelemetry(ctx, globals, fmt.Sprintf("gains %s", cmd.File.Filename))
	defer done()

	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	cfg, err := loadConfig(globals.Config)
	if err != nil {
		return err
	}

	source, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	renderer := NewErrorRenderer(cmd.File.GetAbsoluteFilename(), source)

	transactions, err := cmd.File.Load(runCtx, loader.New())
	if err != nil {
		reportErrors(ctx.Stderr, renderer, err, fmt.Sprintf("%d error(s) found", renderer.Count(err)))
		return NewCommandError(ExitFailure)
	}

	result, err := computeGains(runCtx, cfg, transactions, cmd.Method)
	if err != nil {
		reportErrors(ctx.Stderr, renderer, err, "gains could not be computed")
		return NewCommandError(ExitFailure)
	}

	errStyles := output.NewStyles(ctx.Stderr)
	for _, u := range result.Unmatched {
		location := u.TransactionID
		if pos := u.Pos.String(); pos != "" {
			location = errStyles.FilePath(pos)
		}
		printWarningf(ctx.Stderr, "%s: withdrawal of %s %s exceeds available lots by %s",
			location, errStyles.Amount(u.Requested.String()), errStyles.Asset(u.Asset), errStyles.Amount(u.Quantity.String()))
	}

	if cmd.Output != "" {
		if err := cmd.writeReports(ctx, result.Events); err != nil {
			return err
		}
	}

	summary := report.Summarize(result.Events, result.Unmatched, cfg.ReportingCurrency)
	if err := summary.RenderStyled(ctx.Stdout, output.NewStyles(ctx.Stdout)); err != nil {
		return err
	}

	if cmd.Positions {
		_, _ = fmt.Fprintln(ctx.Stdout)
		_, _ = fmt.Fprintln(ctx.Stdout, report.RenderPositions(result.Registry, cfg.ReportingCurrency))
	}

	_, _ = fmt.Fprintln(ctx.Stdout)
	printSuccess(ctx.Stdout, fmt.Sprintf("%d disposal(s) from %d transaction(s) using %s",
		len(result.Events), len(transactions), cmd.Method))

	if cmd.Strict && len(result.Unmatched) > 0 {
		printError(ctx.Stderr, fmt.Sprintf("%d withdrawal(s) exceeded the available lots", len(result.Unmatched)))
		return NewCommandError(ExitUnmatched)
	}

	return nil
}

// computeGains runs the engine and turns a lot accounting panic into an error.
// Such a panic means the history itself is impossible, for example a
// withdrawal dated before the seeded lots.
func computeGains(ctx context.Context, cfg *ledger.Config, transactions []gains.Transaction, method ledger.Method) (result *gains.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			invariant, ok := r.(*ledger.InvariantError)
			if !ok {
				panic(r)
			}
			result, err = nil, invariant
		}
	}()
	return gains.New(cfg).Run(ctx, transactions, method)
}

func (cmd *GainsCmd) writeReports(ctx *kong.Context, events []gains.Event) error {
	long, short := report.GainsFiles(cmd.Output)

	ok, err := confirmOverwrite(cmd.Force, long, short)
	if err != nil {
		return err
	}
	if !ok {
		printError(ctx.Stderr, "Report files exist, use --force to overwrite")
		return NewCommandError(ExitFailure)
	}

	if err := report.WriteGainsFiles(cmd.Output, events); err != nil {
		return fmt.Errorf("failed to write reports: %w", err)
	}

	printInfof(ctx.Stdout, "Wrote %s and %s", pathStyle.Render(long), pathStyle.Render(short))
	return nil
}
