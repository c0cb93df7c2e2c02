// Package main runs the launch service: the scheduled scan, the telemetry
// refresher and the HTTP API, sharing one set of stores.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"molenker/internal/api"
	"molenker/internal/config"
	"molenker/internal/deploy"
	"molenker/internal/domain"
	"molenker/internal/launch"
	"molenker/internal/livefeed"
	"molenker/internal/logging"
	"molenker/internal/market"
	"molenker/internal/parser"
	"molenker/internal/query"
	"molenker/internal/scan"
	"molenker/internal/social"
)

const shutdownTimeout = 30 * time.Second

var configPath string

var rootCmd = &cobra.Command{
	Use:   "molenker",
	Short: "Agent-driven token launch service",
	Long: `molenker watches social sources for launch posts, deploys the requested
tokens through the deploy gateway and serves the launch registry over HTTP.

Configuration is read from defaults, an optional YAML file, .env, the
environment and finally the flags below.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", os.Getenv("MOLENKER_CONFIG"), "path to YAML config file")
	rootCmd.Flags().String("http-addr", "", "HTTP listen address")
	rootCmd.Flags().String("store", "", "store backend (memory, redis, postgres)")
	rootCmd.Flags().String("deploy-mode", "", "deploy mode (live, simulation)")
	rootCmd.Flags().Bool("scan", true, "run the scheduled scan")
	rootCmd.Flags().Duration("scan-interval", 0, "time between scheduled scans")
	rootCmd.Flags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.Flags().String("log-format", "", "log format (json, console)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// applyFlags overrides cfg with flags set on the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("http-addr") {
		cfg.HTTPAddr, _ = flags.GetString("http-addr")
	}
	if flags.Changed("store") {
		cfg.Store.Backend, _ = flags.GetString("store")
	}
	if flags.Changed("deploy-mode") {
		cfg.Deploy.Mode, _ = flags.GetString("deploy-mode")
	}
	if flags.Changed("scan") {
		cfg.Scan.Enabled, _ = flags.GetBool("scan")
	}
	if flags.Changed("scan-interval") {
		cfg.Scan.Interval, _ = flags.GetDuration("scan-interval")
	}
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.Log.Format, _ = flags.GetString("log-format")
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()

	split := deploy.NewRewardSplit(cfg.Deploy.PlatformWallet)

	var gateway deploy.Gateway
	if cfg.Simulation() {
		logger.Warn("SIMULATION MODE: deploys are fabricated and no token reaches a chain")
		gateway = deploy.NewSimulator()
	} else {
		gateway = deploy.NewHTTPGateway(cfg.Deploy.GatewayURL, split,
			deploy.WithTimeout(cfg.Deploy.Timeout),
			deploy.WithBearerToken(cfg.Deploy.GatewayToken),
		)
	}

	hub := livefeed.NewHub(nil, logger.Named("livefeed"))

	orch := launch.New(launch.Options{
		Parser: parser.New(
			parser.WithTrigger(cfg.Scan.Trigger),
			parser.WithImageRules(cfg.ImageRules),
		),
		Tokens:  st.tokens,
		Ledger:  st.ledger,
		Gateway: gateway,
		Fetcher: social.NewMoltbookClient(cfg.Scan.MoltbookBaseURL,
			social.WithLimiter(social.NewLimiter(cfg.Scan.RateLimit)),
		),
		Split:         split,
		Notifier:      hub,
		Logger:        logger.Named("launch"),
		DeployTimeout: cfg.Deploy.Timeout,
	})

	driver := scan.New(scan.Options{
		Searcher: social.NewMoltxClient(cfg.Scan.MoltxBaseURL, cfg.Scan.Trigger,
			social.WithLimiter(social.NewLimiter(cfg.Scan.RateLimit)),
		),
		Source:    domain.SourceMoltx,
		Processor: orch,
		Interval:  cfg.Scan.Interval,
		Logger:    logger.Named("scan"),
	})

	refreshOpts := market.Options{
		Tokens:    st.tokens,
		Snapshots: st.snapshots,
		Provider: market.NewDexScreenerClient(cfg.Market.DexScreenerBaseURL,
			market.WithLimiter(social.NewLimiter(cfg.Scan.RateLimit)),
		),
		Interval: cfg.Market.RefreshInterval,
		Logger:   logger.Named("market"),
	}
	if cfg.Simulation() {
		refreshOpts.Simulated = market.Placeholder{}
	}
	refresher := market.NewRefresher(refreshOpts)

	srv := api.New(api.Options{
		Query:      query.New(st.tokens, nil),
		Launcher:   orch,
		Scanner:    driver,
		Feed:       hub,
		CronSecret: cfg.CronSecret,
		Simulation: cfg.Simulation(),
		Logger:     logger.Named("api"),
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting HTTP server", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		hub.Close()
		return httpServer.Shutdown(shutdownCtx)
	})

	if cfg.Scan.Enabled {
		g.Go(func() error { return ignoreCanceled(driver.Run(gctx)) })
	} else {
		logger.Info("scheduled scan disabled; scans run only via /api/cron/scan")
	}

	g.Go(func() error { return ignoreCanceled(refresher.Run(gctx)) })

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		return err
	}
	logger.Info("shutdown complete")
	return nil
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
