package query

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"molenker/internal/domain"
	"molenker/internal/storage"
	"molenker/internal/storage/memory"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

type seed struct {
	id       string
	source   domain.Source
	status   domain.Status
	deployed time.Duration // age at now; 0 means never deployed
	mcap     *float64
	vol      *float64
	change   *float64
}

func newService(t *testing.T, seeds ...seed) *Service {
	t.Helper()
	store := memory.NewTokenStore()
	for i, s := range seeds {
		created := now.Add(-time.Duration(len(seeds)-i) * time.Hour)
		rec := &domain.TokenLaunch{
			ID:             s.id,
			Name:           "Token " + s.id,
			Symbol:         "T" + s.id,
			Source:         s.source,
			Status:         s.status,
			MarketCap:      s.mcap,
			Volume24h:      s.vol,
			PriceChange24h: s.change,
			CreatedAt:      created,
			UpdatedAt:      created,
		}
		if s.deployed > 0 {
			at := now.Add(-s.deployed)
			rec.DeployedAt = &at
			rec.TokenAddress = fmt.Sprintf("0x%040d", i+1)
			rec.TxHash = "0xtx" + s.id
		}
		require.NoError(t, store.Put(context.Background(), rec))
	}
	return New(store, func() time.Time { return now })
}

func ids(ts []*domain.TokenLaunch) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.ID
	}
	return out
}

func TestList_DefaultNewestFirst(t *testing.T) {
	svc := newService(t,
		seed{id: "a", source: domain.SourceMoltx, status: domain.StatusDeployed, deployed: 3 * time.Hour},
		seed{id: "b", source: domain.SourceMoltx, status: domain.StatusDeployed, deployed: 1 * time.Hour},
		seed{id: "c", source: domain.SourceMoltbook, status: domain.StatusPending},
	)

	page, err := svc.List(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, ids(page.Tokens))
	assert.Equal(t, DefaultLimit, page.Limit)
	assert.False(t, page.HasMore)
}

func TestList_FiltersAndPaging(t *testing.T) {
	svc := newService(t,
		seed{id: "a", source: domain.SourceMoltx, status: domain.StatusDeployed, deployed: time.Hour, mcap: ptr(10.0)},
		seed{id: "b", source: domain.SourceMoltx, status: domain.StatusDeployed, deployed: time.Hour, mcap: ptr(30.0)},
		seed{id: "c", source: domain.SourceMoltx, status: domain.StatusDeployed, deployed: time.Hour, mcap: ptr(20.0)},
		seed{id: "d", source: domain.SourceMoltbook, status: domain.StatusDeployed, deployed: time.Hour, mcap: ptr(99.0)},
		seed{id: "e", source: domain.SourceMoltx, status: domain.StatusFailed},
	)
	ctx := context.Background()

	page, err := svc.List(ctx, ListOptions{Source: domain.SourceMoltx, Status: domain.StatusDeployed, Sort: SortMarketCap, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, ids(page.Tokens))
	assert.Equal(t, 3, page.Total)
	assert.True(t, page.HasMore)

	page, err = svc.List(ctx, ListOptions{Source: domain.SourceMoltx, Status: domain.StatusDeployed, Sort: SortMarketCap, Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(page.Tokens))
	assert.False(t, page.HasMore)

	page, err = svc.List(ctx, ListOptions{Offset: 100})
	require.NoError(t, err)
	assert.Empty(t, page.Tokens)
	assert.NotNil(t, page.Tokens)
}

func TestNamedViews_OnlyDeployed(t *testing.T) {
	svc := newService(t,
		seed{id: "hot", source: domain.SourceMoltx, status: domain.StatusDeployed, deployed: time.Hour, change: ptr(80.0), vol: ptr(5.0)},
		seed{id: "cold", source: domain.SourceMoltx, status: domain.StatusDeployed, deployed: 2 * time.Hour, change: ptr(-10.0), vol: ptr(500.0)},
		seed{id: "nometric", source: domain.SourceMoltx, status: domain.StatusDeployed, deployed: 30 * time.Minute},
		seed{id: "old", source: domain.SourceMoltx, status: domain.StatusDeployed, deployed: 25 * time.Hour, change: ptr(1.0), vol: ptr(1.0)},
		seed{id: "failed", source: domain.SourceMoltx, status: domain.StatusFailed, change: ptr(999.0), vol: ptr(999.0)},
	)
	ctx := context.Background()

	hot, err := svc.Hot(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"hot", "old", "cold"}, ids(hot))

	vol, err := svc.TopVolume(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"cold", "hot"}, ids(vol))

	fresh, err := svc.New(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"nometric", "hot", "cold"}, ids(fresh))
	for _, tk := range fresh {
		assert.True(t, tk.DeployedAt.After(now.Add(-NewWindow)))
	}
}

func TestStats(t *testing.T) {
	svc := newService(t,
		seed{id: "a", status: domain.StatusDeployed, deployed: time.Hour, mcap: ptr(100.0), vol: ptr(10.0)},
		seed{id: "b", status: domain.StatusDeployed, deployed: time.Hour, mcap: ptr(50.0)},
		seed{id: "c", status: domain.StatusPending},
		seed{id: "d", status: domain.StatusFailed},
	)

	st, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &Stats{
		TotalTokens:    4,
		DeployedTokens: 2,
		PendingTokens:  1,
		FailedTokens:   1,
		TotalVolume:    10,
		TotalMarketCap: 150,
	}, st)
}

func TestByAddress(t *testing.T) {
	svc := newService(t, seed{id: "a", status: domain.StatusDeployed, deployed: time.Hour})

	got, err := svc.ByAddress(context.Background(), fmt.Sprintf("0X%040d", 1))
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)

	_, err = svc.ByAddress(context.Background(), "0xnope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
