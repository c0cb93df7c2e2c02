package market

import (
	"context"
	"math/rand/v2"
)

// Placeholder synthesizes telemetry for simulated launches, which have no
// real market. It must never be used for deployed tokens.
type Placeholder struct{}

var _ Provider = Placeholder{}

// Fetch returns random values in the same ranges the dashboard expects.
func (Placeholder) Fetch(ctx context.Context, _ string) (*Telemetry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Telemetry{
		MarketCap:      1000 + rand.Float64()*5000,
		Volume24h:      rand.Float64() * 1000,
		PriceChange24h: rand.Float64()*200 - 50,
	}, nil
}
