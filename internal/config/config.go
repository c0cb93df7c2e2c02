// Package config loads service configuration from defaults, an optional YAML
// file, a .env file and the process environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"molenker/internal/validation"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Deploy modes.
const (
	DeployLive       = "live"
	DeploySimulation = "simulation"
)

// Config holds all service configuration.
type Config struct {
	HTTPAddr   string       `yaml:"http_addr"`
	CronSecret string       `yaml:"cron_secret"`
	Store      StoreConfig  `yaml:"store"`
	Deploy     DeployConfig `yaml:"deploy"`
	Scan       ScanConfig   `yaml:"scan"`
	Market     MarketConfig `yaml:"market"`
	Log        LogConfig    `yaml:"log"`

	ImageRules validation.ImageRules `yaml:"image_rules"`
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Backend       string `yaml:"backend"` // memory, redis, postgres
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	PostgresDSN   string `yaml:"postgres_dsn"`
	ClickhouseDSN string `yaml:"clickhouse_dsn"` // optional snapshot history
}

// DeployConfig configures the deploy gateway.
type DeployConfig struct {
	Mode           string        `yaml:"mode"` // live, simulation
	GatewayURL     string        `yaml:"gateway_url"`
	GatewayToken   string        `yaml:"gateway_token"`
	Timeout        time.Duration `yaml:"timeout"`
	PlatformWallet string        `yaml:"platform_wallet"`
}

// ScanConfig configures post discovery.
type ScanConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Trigger         string        `yaml:"trigger"`
	Interval        time.Duration `yaml:"interval"`
	MoltxBaseURL    string        `yaml:"moltx_base_url"`
	MoltbookBaseURL string        `yaml:"moltbook_base_url"`
	RateLimit       float64       `yaml:"rate_limit"` // requests per second, 0 disables
}

// MarketConfig configures telemetry refresh.
type MarketConfig struct {
	DexScreenerBaseURL string        `yaml:"dexscreener_base_url"`
	RefreshInterval    time.Duration `yaml:"refresh_interval"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		HTTPAddr: ":8080",
		Store: StoreConfig{
			Backend:   BackendMemory,
			RedisAddr: "localhost:6379",
		},
		Deploy: DeployConfig{
			Mode:           DeploySimulation,
			Timeout:        120 * time.Second,
			PlatformWallet: "0x8644EBC4126a7EB130dCddC6e3C215d0EdC2F9eE",
		},
		Scan: ScanConfig{
			Enabled:         true,
			Trigger:         "!molenker",
			Interval:        60 * time.Second,
			MoltxBaseURL:    "https://moltx.io",
			MoltbookBaseURL: "https://www.moltbook.com",
			RateLimit:       2,
		},
		Market: MarketConfig{
			DexScreenerBaseURL: "https://api.dexscreener.com",
			RefreshInterval:    5 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		ImageRules: validation.DefaultImageRules(),
	}
}

// Load builds the configuration. A missing YAML file at path is not an error;
// an empty path skips the file. Existing environment variables win over .env.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	_ = godotenv.Load()

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables returned by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var errs []error

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	float := func(key string, dst *float64) {
		if v, ok := lookup(key); ok && v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = f
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}
	duration := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}

	str("HTTP_ADDR", &c.HTTPAddr)
	str("CRON_SECRET", &c.CronSecret)

	str("STORE_BACKEND", &c.Store.Backend)
	str("REDIS_ADDR", &c.Store.RedisAddr)
	str("REDIS_PASSWORD", &c.Store.RedisPassword)
	integer("REDIS_DB", &c.Store.RedisDB)
	str("POSTGRES_DSN", &c.Store.PostgresDSN)
	str("CLICKHOUSE_DSN", &c.Store.ClickhouseDSN)

	str("DEPLOY_MODE", &c.Deploy.Mode)
	str("DEPLOY_GATEWAY_URL", &c.Deploy.GatewayURL)
	str("DEPLOY_GATEWAY_TOKEN", &c.Deploy.GatewayToken)
	duration("DEPLOY_TIMEOUT", &c.Deploy.Timeout)
	str("PLATFORM_WALLET", &c.Deploy.PlatformWallet)

	boolean("SCAN_ENABLED", &c.Scan.Enabled)
	str("TRIGGER_COMMAND", &c.Scan.Trigger)
	duration("SCAN_INTERVAL", &c.Scan.Interval)
	str("MOLTX_BASE_URL", &c.Scan.MoltxBaseURL)
	str("MOLTBOOK_BASE_URL", &c.Scan.MoltbookBaseURL)
	float("SOURCE_RATE_LIMIT", &c.Scan.RateLimit)

	str("DEXSCREENER_BASE_URL", &c.Market.DexScreenerBaseURL)
	duration("MARKET_REFRESH_INTERVAL", &c.Market.RefreshInterval)

	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	return errors.Join(errs...)
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Store.RedisAddr == "" {
			errs = append(errs, errors.New("redis backend requires REDIS_ADDR"))
		}
	case BackendPostgres:
		if c.Store.PostgresDSN == "" {
			errs = append(errs, errors.New("postgres backend requires POSTGRES_DSN"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid store backend %q (valid: memory, redis, postgres)", c.Store.Backend))
	}

	switch c.Deploy.Mode {
	case DeployLive:
		if c.Deploy.GatewayURL == "" {
			errs = append(errs, errors.New("live deploy mode requires DEPLOY_GATEWAY_URL"))
		}
	case DeploySimulation:
	default:
		errs = append(errs, fmt.Errorf("invalid deploy mode %q (valid: live, simulation)", c.Deploy.Mode))
	}

	if !validation.IsValidWallet(c.Deploy.PlatformWallet) {
		errs = append(errs, fmt.Errorf("invalid platform wallet %q", c.Deploy.PlatformWallet))
	}
	if strings.TrimSpace(c.Scan.Trigger) == "" {
		errs = append(errs, errors.New("trigger command must not be empty"))
	}
	if c.Deploy.Timeout <= 0 {
		errs = append(errs, errors.New("deploy timeout must be positive"))
	}
	if c.Scan.Interval <= 0 {
		errs = append(errs, errors.New("scan interval must be positive"))
	}
	if c.Market.RefreshInterval <= 0 {
		errs = append(errs, errors.New("market refresh interval must be positive"))
	}
	if c.Scan.RateLimit < 0 {
		errs = append(errs, errors.New("source rate limit must not be negative"))
	}

	return errors.Join(errs...)
}

// Simulation reports whether deploys are fabricated.
func (c *Config) Simulation() bool {
	return c.Deploy.Mode == DeploySimulation
}
