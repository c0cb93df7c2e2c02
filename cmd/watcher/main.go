// Package main triggers the service's scan endpoint on an interval.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"molenker/internal/logging"
	"molenker/internal/watcher"
)

var (
	interval  = watcher.DefaultInterval
	timeout   = watcher.DefaultTimeout
	logLevel  = "info"
	logFormat = "console"
)

var rootCmd = &cobra.Command{
	Use:   "watcher [base-url]",
	Short: "Trigger launch scans on an interval",
	Long: `watcher calls GET <base-url>/api/cron/scan every interval and logs the
summary and each new token. Failures are logged and the loop continues.

CRON_SECRET, when set in the environment or .env, is sent as a bearer token.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().DurationVar(&interval, "interval", interval, "time between scans")
	rootCmd.Flags().DurationVar(&timeout, "timeout", timeout, "per-request timeout")
	rootCmd.Flags().StringVar(&logLevel, "log-level", logLevel, "log level")
	rootCmd.Flags().StringVar(&logFormat, "log-format", logFormat, "log format (json, console)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(_ *cobra.Command, args []string) error {
	_ = godotenv.Load()

	base := "http://localhost:8080"
	if len(args) == 1 {
		base = args[0]
	}

	logger, err := logging.New(logLevel, logFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := watcher.New(watcher.Options{
		URL:        watcher.ScanURL(base),
		Secret:     os.Getenv("CRON_SECRET"),
		Interval:   interval,
		HTTPClient: &http.Client{Timeout: timeout},
		Logger:     logger,
	})

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watcher: %w", err)
	}
	return nil
}
