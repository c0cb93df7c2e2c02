package domain

import "time"

// Post is a social-media post fetched from a Source.
type Post struct {
	ID        string
	Content   string
	AgentName string
	AvatarURL string
	URL       string
	Source    Source
	CreatedAt time.Time
}

// MarketSnapshot is one observation of a launched token's market telemetry.
// Corresponds to market_snapshots table in ClickHouse.
type MarketSnapshot struct {
	TokenID        string
	TokenAddress   string
	MarketCap      float64
	Volume24h      float64
	PriceChange24h float64
	Holders        int64
	ObservedAt     int64 // Unix timestamp in milliseconds
}
