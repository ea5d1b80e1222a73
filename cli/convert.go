package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/capgains/convert"
	"github.com/robinvdvleuten/capgains/loader"
)

// ConvertCmd turns an exchange export into canonical transaction CSV.
type ConvertCmd struct {
	Exchange string      `help:"Exchange the export comes from (kraken, bittrex)." arg:"" enum:"kraken,bittrex"`
	File     FileOrStdin `help:"Exchange export file (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Output   string      `help:"Write to this file instead of stdout." short:"o" placeholder:"FILE"`
	Force    bool        `help:"Overwrite the output file without asking." short:"f"`
}

func (cmd *ConvertCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, done := startTelemetry(ctx, globals, fmt.Sprintf("convert %s %s", cmd.Exchange, cmd.File.Filename))
	defer done()

	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	converter, err := convert.Lookup(cmd.Exchange)
	if err != nil {
		return err
	}

	source, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	transactions, err := converter.Convert(runCtx, bytes.NewReader(source))
	if err != nil {
		err = convert.WithFilename(err, cmd.File.GetAbsoluteFilename())
		renderer := NewErrorRenderer(cmd.File.GetAbsoluteFilename(), source)
		reportErrors(ctx.Stderr, renderer, err, fmt.Sprintf("%d error(s) found", renderer.Count(err)))
		return NewCommandError(ExitFailure)
	}

	if cmd.Output == "" {
		return loader.Write(ctx.Stdout, transactions)
	}

	ok, err := confirmOverwrite(cmd.Force, cmd.Output)
	if err != nil {
		return err
	}
	if !ok {
		printError(ctx.Stderr, fmt.Sprintf("File %s exists, use --force to overwrite", cmd.Output))
		return NewCommandError(ExitFailure)
	}

	var buf bytes.Buffer
	if err := loader.Write(&buf, transactions); err != nil {
		return err
	}
	if err := os.WriteFile(cmd.Output, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", cmd.Output, err)
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Converted %d %s transaction(s) to %s",
		len(transactions), converter.Name(), pathStyle.Render(cmd.Output)))
	return nil
}
