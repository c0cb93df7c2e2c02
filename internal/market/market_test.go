package market

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"molenker/internal/domain"
	"molenker/internal/storage/memory"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDexScreenerClient_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest/dex/tokens/0xabc", r.URL.Path)
		w.Write([]byte(`{"pairs":[
			{"fdv":900,"liquidity":{"usd":10},"volume":{"h24":5},"priceChange":{"h24":-3}},
			{"fdv":1200,"marketCap":1100,"liquidity":{"usd":500},"volume":{"h24":20},"priceChange":{"h24":12.5}}
		]}`))
	}))
	defer server.Close()

	tel, err := NewDexScreenerClient(server.URL).Fetch(context.Background(), "0xabc")
	require.NoError(t, err)
	assert.Equal(t, 1100.0, tel.MarketCap)
	assert.Equal(t, 25.0, tel.Volume24h)
	assert.Equal(t, 12.5, tel.PriceChange24h)
	assert.Nil(t, tel.Holders)
}

func TestDexScreenerClient_NoPairs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pairs":null}`))
	}))
	defer server.Close()

	_, err := NewDexScreenerClient(server.URL).Fetch(context.Background(), "0xabc")
	assert.ErrorIs(t, err, ErrNoPairs)
}

type fakeProvider struct {
	tel   *Telemetry
	err   error
	calls []string
}

func (f *fakeProvider) Fetch(_ context.Context, addr string) (*Telemetry, error) {
	f.calls = append(f.calls, addr)
	return f.tel, f.err
}

func seedLaunch(t *testing.T, store *memory.TokenStore, id, addr string, status domain.Status, simulated bool) {
	t.Helper()
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := &domain.TokenLaunch{ID: id, Status: status, TokenAddress: addr, Simulated: simulated, CreatedAt: at, UpdatedAt: at}
	if status == domain.StatusDeployed {
		rec.TxHash = "0xtx"
		rec.DeployedAt = &at
	}
	require.NoError(t, store.Put(context.Background(), rec))
}

func TestRefresher_RefreshOnce(t *testing.T) {
	tokens := memory.NewTokenStore()
	snaps := memory.NewSnapshotStore()
	seedLaunch(t, tokens, "real", "0xreal", domain.StatusDeployed, false)
	seedLaunch(t, tokens, "sim", "0xsim", domain.StatusDeployed, true)
	seedLaunch(t, tokens, "pending", "", domain.StatusPending, false)
	seedLaunch(t, tokens, "failed", "", domain.StatusFailed, false)

	holders := int64(7)
	live := &fakeProvider{tel: &Telemetry{MarketCap: 5000, Volume24h: 300, PriceChange24h: 4, Holders: &holders}}
	now := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	r := NewRefresher(Options{
		Tokens:    tokens,
		Snapshots: snaps,
		Provider:  live,
		Now:       func() time.Time { return now },
	})

	res, err := r.RefreshOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &RefreshResult{Updated: 1, Skipped: 1}, res)
	assert.Equal(t, []string{"0xreal"}, live.calls)

	got, err := tokens.Get(context.Background(), "real")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDeployed, got.Status)
	assert.Equal(t, 5000.0, *got.MarketCap)
	assert.Equal(t, 300.0, *got.Volume24h)
	assert.Equal(t, int64(7), *got.Holders)
	assert.Equal(t, now, got.UpdatedAt)

	sim, err := tokens.Get(context.Background(), "sim")
	require.NoError(t, err)
	assert.Nil(t, sim.MarketCap, "simulated records need an explicit placeholder provider")

	history, err := snaps.GetByTokenID(context.Background(), "real")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, now.UnixMilli(), history[0].ObservedAt)
	assert.Equal(t, int64(7), history[0].Holders)
}

func TestRefresher_PlaceholderForSimulated(t *testing.T) {
	tokens := memory.NewTokenStore()
	seedLaunch(t, tokens, "sim", "0xsim", domain.StatusDeployed, true)

	r := NewRefresher(Options{Tokens: tokens, Simulated: Placeholder{}})
	res, err := r.RefreshOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)

	sim, err := tokens.Get(context.Background(), "sim")
	require.NoError(t, err)
	require.NotNil(t, sim.MarketCap)
	assert.GreaterOrEqual(t, *sim.MarketCap, 1000.0)
	assert.LessOrEqual(t, *sim.MarketCap, 6000.0)
}

func TestRefresher_ProviderErrorsAreCounted(t *testing.T) {
	tokens := memory.NewTokenStore()
	seedLaunch(t, tokens, "a", "0xa", domain.StatusDeployed, false)
	seedLaunch(t, tokens, "b", "0xb", domain.StatusDeployed, false)

	r := NewRefresher(Options{Tokens: tokens, Provider: &fakeProvider{err: errors.New("boom")}})
	res, err := r.RefreshOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Failed)
}

func TestRefresher_RunStopsOnCancel(t *testing.T) {
	tokens := memory.NewTokenStore()
	r := NewRefresher(Options{Tokens: tokens, Provider: &fakeProvider{}, Interval: 5 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
