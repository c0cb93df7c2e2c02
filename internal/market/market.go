// Package market refreshes price and volume telemetry for deployed tokens.
package market

import (
	"context"
	"errors"
)

// ErrNoPairs is returned when a token has no trading pairs yet.
var ErrNoPairs = errors.New("no trading pairs found")

// Telemetry is one market observation for a token.
type Telemetry struct {
	MarketCap      float64
	Volume24h      float64
	PriceChange24h float64
	Holders        *int64 // nil when the provider does not report holders
}

// Provider looks up telemetry by contract address.
type Provider interface {
	Fetch(ctx context.Context, tokenAddress string) (*Telemetry, error)
}
