package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/capgains/ledger"
	"github.com/robinvdvleuten/capgains/web"
)

type WebCmd struct {
	File   string        `help:"Transaction CSV file to serve." arg:""`
	Port   int           `help:"Port to listen on." default:"8080"`
	Method ledger.Method `help:"Default lot booking method (fifo, lifo, hifo)." default:"fifo" short:"m"`
	Watch  bool          `help:"Recompute when the file changes." default:"true" negatable:""`
}

func (cmd *WebCmd) Run(ctx *kong.Context, globals *Globals) error {
	telemetryCtx, done := startTelemetry(ctx, globals, "web")
	defer done()

	cfg, err := loadConfig(globals.Config)
	if err != nil {
		return err
	}

	transactionsFile, err := filepath.Abs(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	if _, err := os.Stat(transactionsFile); err != nil {
		return fmt.Errorf("failed to access file: %w", err)
	}

	version := Version
	if version == "" {
		version = "dev"
	}
	commitSHA := CommitSHA
	if commitSHA == "" {
		commitSHA = "local"
	}

	server := web.NewWithVersion(cmd.Port, transactionsFile, version, commitSHA)
	server.Method = cmd.Method
	server.WatchEnabled = cmd.Watch

	printInfof(ctx.Stdout, "Starting server on %s:%d", server.Host, cmd.Port)
	printInfof(ctx.Stdout, "Serving gains for: %s (%s)", pathStyle.Render(transactionsFile), cmd.Method)

	runCtx, stop := signal.NotifyContext(cfg.WithContext(telemetryCtx), os.Interrupt)
	defer stop()

	return server.Start(runCtx)
}

