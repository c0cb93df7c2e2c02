package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultDexScreenerBaseURL is the public DexScreener API.
const DefaultDexScreenerBaseURL = "https://api.dexscreener.com"

// DexScreenerClient fetches pair data from DexScreener.
type DexScreenerClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// DexScreenerOption configures DexScreenerClient.
type DexScreenerOption func(*DexScreenerClient)

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) DexScreenerOption {
	return func(d *DexScreenerClient) {
		d.httpClient = client
	}
}

// WithLimiter throttles outbound requests.
func WithLimiter(l *rate.Limiter) DexScreenerOption {
	return func(d *DexScreenerClient) {
		d.limiter = l
	}
}

// NewDexScreenerClient creates a client for baseURL.
func NewDexScreenerClient(baseURL string, opts ...DexScreenerOption) *DexScreenerClient {
	if baseURL == "" {
		baseURL = DefaultDexScreenerBaseURL
	}
	d := &DexScreenerClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var _ Provider = (*DexScreenerClient)(nil)

type dexPair struct {
	FDV       float64 `json:"fdv"`
	MarketCap float64 `json:"marketCap"`
	Liquidity struct {
		USD float64 `json:"usd"`
	} `json:"liquidity"`
	Volume struct {
		H24 float64 `json:"h24"`
	} `json:"volume"`
	PriceChange struct {
		H24 float64 `json:"h24"`
	} `json:"priceChange"`
}

type dexResponse struct {
	Pairs []dexPair `json:"pairs"`
}

// Fetch sums 24h volume across all pairs and takes market cap and price change
// from the most liquid pair.
func (d *DexScreenerClient) Fetch(ctx context.Context, tokenAddress string) (*Telemetry, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	endpoint := fmt.Sprintf("%s/latest/dex/tokens/%s", d.baseURL, url.PathEscape(tokenAddress))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dexscreener request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read dexscreener response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dexscreener status %d", resp.StatusCode)
	}

	var result dexResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("unmarshal dexscreener response: %w", err)
	}
	if len(result.Pairs) == 0 {
		return nil, ErrNoPairs
	}

	t := &Telemetry{}
	best := result.Pairs[0]
	for _, pair := range result.Pairs {
		t.Volume24h += pair.Volume.H24
		if pair.Liquidity.USD > best.Liquidity.USD {
			best = pair
		}
	}
	t.MarketCap = best.MarketCap
	if t.MarketCap == 0 {
		t.MarketCap = best.FDV
	}
	t.PriceChange24h = best.PriceChange.H24
	return t, nil
}
