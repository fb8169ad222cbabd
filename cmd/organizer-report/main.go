package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/tripboard/internal/adapters/repository"
	"github.com/okian/tripboard/internal/config"
	"github.com/okian/tripboard/internal/report"
	"github.com/okian/tripboard/pkg/logger"
)

const defaultTimeout = 30 * time.Second

// errDemoMode is returned when there is no store to read from.
var errDemoMode = errors.New("no feedback store configured (demo mode); set TRIPBOARD_STORE_URL")

func main() {
	var (
		format  = flag.String("format", report.FormatText, "Output format: text or json")
		timeout = flag.Duration("timeout", defaultTimeout, "Timeout for reading the store")
		verbose = flag.Bool("verbose", false, "Enable debug logging on stderr")
	)
	flag.Usage = usage
	flag.Parse()

	if err := logger.InitWith(os.Stderr, logger.FormatText); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	level := "warn"
	if *verbose {
		level = "debug"
	}
	_ = logger.SetLevelString(level)

	if err := run(os.Stdout, *format, *timeout); err != nil {
		os.Stderr.WriteString("organizer-report: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run(out io.Writer, format string, timeout time.Duration) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Demo() {
		return errDemoMode
	}

	log := logger.Named("report")
	store, err := repository.Open(ctx, cfg.StoreURL, cfg.StoreTable, cfg.ConnectRetryMax(), log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := store.Close(context.WithoutCancel(ctx)); err != nil {
			log.Warn(ctx, "closing store", logger.Error(err))
		}
	}()

	records, err := store.ListAll(ctx)
	if err != nil {
		return err
	}
	log.Debug(ctx, "records loaded", logger.Int("count", len(records)))
	return report.Write(out, report.Build(records, time.Now()), format)
}

func usage() {
	os.Stderr.WriteString(`Tripboard organizer report
==========================

Prints every submission, private fields included. Reads the same
configuration as the server (TRIPBOARD_* env, .env, TRIPBOARD_CONFIG).

Usage:
  organizer-report [options]

Options:
  -format string
        Output format: text or json (default "text")
  -timeout duration
        Timeout for reading the store (default 30s)
  -verbose
        Enable debug logging on stderr

Examples:
  TRIPBOARD_STORE_URL=postgres://localhost/trip organizer-report
  organizer-report -format json > digest.json
`)
}
