package market

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"molenker/internal/domain"
	"molenker/internal/observability"
	"molenker/internal/storage"
)

// DefaultInterval is the time between telemetry refreshes.
const DefaultInterval = 5 * time.Minute

// Options for creating Refresher.
type Options struct {
	Tokens    storage.TokenStore
	Snapshots storage.SnapshotStore // optional

	// Provider serves real deployments. Simulated serves records flagged as
	// simulated; when nil those records are left untouched.
	Provider  Provider
	Simulated Provider

	Interval time.Duration
	Logger   *zap.Logger
	Now      func() time.Time
}

// Refresher updates telemetry fields on deployed launches.
type Refresher struct {
	tokens    storage.TokenStore
	snapshots storage.SnapshotStore
	provider  Provider
	simulated Provider
	interval  time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewRefresher creates a new Refresher.
func NewRefresher(opts Options) *Refresher {
	r := &Refresher{
		tokens:    opts.Tokens,
		snapshots: opts.Snapshots,
		provider:  opts.Provider,
		simulated: opts.Simulated,
		interval:  opts.Interval,
		logger:    opts.Logger,
		now:       opts.Now,
	}
	if r.interval <= 0 {
		r.interval = DefaultInterval
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	if r.now == nil {
		r.now = func() time.Time { return time.Now().UTC() }
	}
	return r
}

// RefreshResult counts the outcome of one refresh pass.
type RefreshResult struct {
	Updated int
	Skipped int
	Failed  int
}

// RefreshOnce updates every deployed launch that has an address. Only the
// telemetry fields change; status and deployment outcome are left as stored.
func (r *Refresher) RefreshOnce(ctx context.Context) (*RefreshResult, error) {
	all, err := r.tokens.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}

	res := &RefreshResult{}
	var snapshots []*domain.MarketSnapshot

	for _, t := range all {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		if t.Status != domain.StatusDeployed || t.TokenAddress == "" {
			continue
		}

		provider := r.provider
		if t.Simulated {
			provider = r.simulated
		}
		if provider == nil {
			res.Skipped++
			continue
		}

		tel, err := provider.Fetch(ctx, t.TokenAddress)
		if err != nil {
			if errors.Is(err, ErrNoPairs) {
				res.Skipped++
				observability.RecordTelemetryRefresh("no_pairs")
				continue
			}
			res.Failed++
			observability.RecordTelemetryRefresh("error")
			r.logger.Warn("telemetry fetch failed",
				zap.String("launch_id", t.ID),
				zap.String("token_address", t.TokenAddress),
				zap.Error(err),
			)
			continue
		}

		now := r.now()
		applyTelemetry(t, tel, now)
		if err := r.tokens.Put(ctx, t); err != nil {
			res.Failed++
			observability.RecordTelemetryRefresh("error")
			r.logger.Warn("telemetry store failed", zap.String("launch_id", t.ID), zap.Error(err))
			continue
		}
		res.Updated++
		observability.RecordTelemetryRefresh("success")

		snap := &domain.MarketSnapshot{
			TokenID:        t.ID,
			TokenAddress:   t.TokenAddress,
			MarketCap:      tel.MarketCap,
			Volume24h:      tel.Volume24h,
			PriceChange24h: tel.PriceChange24h,
			ObservedAt:     now.UnixMilli(),
		}
		if tel.Holders != nil {
			snap.Holders = *tel.Holders
		}
		snapshots = append(snapshots, snap)
	}

	if r.snapshots != nil && len(snapshots) > 0 {
		if err := r.snapshots.InsertBulk(ctx, snapshots); err != nil {
			return res, fmt.Errorf("insert snapshots: %w", err)
		}
	}
	return res, nil
}

func applyTelemetry(t *domain.TokenLaunch, tel *Telemetry, now time.Time) {
	mcap, vol, change := tel.MarketCap, tel.Volume24h, tel.PriceChange24h
	t.MarketCap = &mcap
	t.Volume24h = &vol
	t.PriceChange24h = &change
	if tel.Holders != nil {
		h := *tel.Holders
		t.Holders = &h
	}
	t.UpdatedAt = now
}

// Run refreshes on every tick until ctx is done.
func (r *Refresher) Run(ctx context.Context) error {
	r.logger.Info("starting telemetry refresher", zap.Duration("interval", r.interval))

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			res, err := r.RefreshOnce(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				r.logger.Error("telemetry refresh failed", zap.Error(err))
				continue
			}
			if res != nil {
				r.logger.Debug("telemetry refreshed",
					zap.Int("updated", res.Updated),
					zap.Int("skipped", res.Skipped),
					zap.Int("failed", res.Failed),
				)
			}
		}
	}
}
