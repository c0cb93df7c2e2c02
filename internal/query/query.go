// Package query answers the read-side questions about launches: filtered
// listings, the hot/new/volume shortcuts, address lookup and aggregate stats.
package query

import (
	"context"
	"fmt"
	"sort"
	"time"

	"molenker/internal/domain"
	"molenker/internal/storage"
)

// DefaultLimit is the page size when none is given.
const DefaultLimit = 50

// NewWindow is how far back the "new" view reaches.
const NewWindow = 24 * time.Hour

// SortKey orders a listing.
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortMarketCap SortKey = "marketCap"
	SortVolume    SortKey = "volume"
)

// IsValid checks if the sort key is a known value.
func (k SortKey) IsValid() bool {
	return k == SortNewest || k == SortMarketCap || k == SortVolume
}

// ListOptions filters and pages a listing. Zero values mean "any".
type ListOptions struct {
	Source domain.Source
	Status domain.Status
	Sort   SortKey
	Limit  int
	Offset int
}

// Page is one page of a listing.
type Page struct {
	Tokens  []*domain.TokenLaunch
	Total   int // matching records before paging
	Limit   int
	Offset  int
	HasMore bool
}

// Stats aggregates over every stored launch.
type Stats struct {
	TotalTokens    int     `json:"totalTokens"`
	DeployedTokens int     `json:"deployedTokens"`
	PendingTokens  int     `json:"pendingTokens"`
	FailedTokens   int     `json:"failedTokens"`
	TotalVolume    float64 `json:"totalVolume"`
	TotalMarketCap float64 `json:"totalMarketCap"`
}

// Service reads launches from a TokenStore.
type Service struct {
	tokens storage.TokenStore
	now    func() time.Time
}

// New creates a Service. A nil now uses the wall clock.
func New(tokens storage.TokenStore, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{tokens: tokens, now: now}
}

// List returns a filtered, sorted page. Records without the sort metric sort last.
func (s *Service) List(ctx context.Context, opts ListOptions) (*Page, error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	if opts.Sort == "" {
		opts.Sort = SortNewest
	}

	all, err := s.tokens.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}

	matched := make([]*domain.TokenLaunch, 0, len(all))
	for _, t := range all {
		if opts.Source != "" && t.Source != opts.Source {
			continue
		}
		if opts.Status != "" && t.Status != opts.Status {
			continue
		}
		matched = append(matched, t)
	}

	switch opts.Sort {
	case SortMarketCap:
		sortBy(matched, func(t *domain.TokenLaunch) float64 { return valueOr(t.MarketCap) })
	case SortVolume:
		sortBy(matched, func(t *domain.TokenLaunch) float64 { return valueOr(t.Volume24h) })
	default:
		sortBy(matched, deployedAtKey)
	}

	page := &Page{Total: len(matched), Limit: opts.Limit, Offset: opts.Offset}
	if opts.Offset < len(matched) {
		end := opts.Offset + opts.Limit
		if end > len(matched) {
			end = len(matched)
		}
		page.Tokens = matched[opts.Offset:end]
	}
	if page.Tokens == nil {
		page.Tokens = []*domain.TokenLaunch{}
	}
	page.HasMore = opts.Offset+len(page.Tokens) < len(matched)
	return page, nil
}

// Hot returns deployed launches with a known 24h price change, highest first.
func (s *Service) Hot(ctx context.Context, limit int) ([]*domain.TokenLaunch, error) {
	return s.deployedView(ctx, limit,
		func(t *domain.TokenLaunch) bool { return t.PriceChange24h != nil },
		func(t *domain.TokenLaunch) float64 { return *t.PriceChange24h },
	)
}

// TopVolume returns deployed launches with a known 24h volume, highest first.
func (s *Service) TopVolume(ctx context.Context, limit int) ([]*domain.TokenLaunch, error) {
	return s.deployedView(ctx, limit,
		func(t *domain.TokenLaunch) bool { return t.Volume24h != nil },
		func(t *domain.TokenLaunch) float64 { return *t.Volume24h },
	)
}

// New returns launches deployed within the last 24 hours, newest first.
func (s *Service) New(ctx context.Context, limit int) ([]*domain.TokenLaunch, error) {
	cutoff := s.now().Add(-NewWindow)
	return s.deployedView(ctx, limit,
		func(t *domain.TokenLaunch) bool { return t.DeployedAt != nil && t.DeployedAt.After(cutoff) },
		deployedAtKey,
	)
}

// ByAddress finds a launch by contract address, case-insensitive.
func (s *Service) ByAddress(ctx context.Context, address string) (*domain.TokenLaunch, error) {
	return s.tokens.GetByAddress(ctx, address)
}

// Stats aggregates counts and market totals across every launch.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	all, err := s.tokens.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}

	st := &Stats{TotalTokens: len(all)}
	for _, t := range all {
		switch t.Status {
		case domain.StatusDeployed:
			st.DeployedTokens++
		case domain.StatusPending:
			st.PendingTokens++
		case domain.StatusFailed:
			st.FailedTokens++
		}
		st.TotalVolume += valueOr(t.Volume24h)
		st.TotalMarketCap += valueOr(t.MarketCap)
	}
	return st, nil
}

func (s *Service) deployedView(
	ctx context.Context,
	limit int,
	keep func(*domain.TokenLaunch) bool,
	key func(*domain.TokenLaunch) float64,
) ([]*domain.TokenLaunch, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	all, err := s.tokens.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}

	result := make([]*domain.TokenLaunch, 0, len(all))
	for _, t := range all {
		if t.Status == domain.StatusDeployed && keep(t) {
			result = append(result, t)
		}
	}
	sortBy(result, key)
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// sortBy orders descending by key, breaking ties by newest creation then id.
func sortBy(ts []*domain.TokenLaunch, key func(*domain.TokenLaunch) float64) {
	sort.SliceStable(ts, func(i, j int) bool {
		ki, kj := key(ts[i]), key(ts[j])
		if ki != kj {
			return ki > kj
		}
		if !ts[i].CreatedAt.Equal(ts[j].CreatedAt) {
			return ts[i].CreatedAt.After(ts[j].CreatedAt)
		}
		return ts[i].ID < ts[j].ID
	})
}

func deployedAtKey(t *domain.TokenLaunch) float64 {
	if t.DeployedAt == nil {
		return 0
	}
	return float64(t.DeployedAt.UnixMilli())
}

func valueOr(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
