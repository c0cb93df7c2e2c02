package storage

import (
	"context"

	"molenker/internal/domain"
)

// TokenStore provides access to token launch records.
// Writes are last-writer-wins; no optimistic concurrency token is kept.
type TokenStore interface {
	// Put inserts the launch or overwrites the record with the same ID.
	Put(ctx context.Context, t *domain.TokenLaunch) error

	// Get retrieves a launch by its ID. Returns ErrNotFound if not exists.
	Get(ctx context.Context, id string) (*domain.TokenLaunch, error)

	// GetByAddress retrieves a launch by deployed contract address, case-insensitive.
	// Returns ErrNotFound if not exists.
	GetByAddress(ctx context.Context, address string) (*domain.TokenLaunch, error)

	// List returns every stored launch in unspecified order.
	List(ctx context.Context) ([]*domain.TokenLaunch, error)
}

// Ledger records which external post IDs have already produced a launch attempt.
// Entries are durable and never removed.
type Ledger interface {
	// IsProcessed reports whether postID has been marked.
	IsProcessed(ctx context.Context, postID string) (bool, error)

	// MarkProcessed records postID. Marking twice is a no-op.
	MarkProcessed(ctx context.Context, postID string) error

	// Claim atomically marks postID and reports whether this call added it.
	// A false result means another caller already holds the post.
	Claim(ctx context.Context, postID string) (bool, error)
}

// SnapshotStore provides access to market_snapshots storage.
type SnapshotStore interface {
	// InsertBulk appends snapshots. Snapshots are append-only.
	InsertBulk(ctx context.Context, snapshots []*domain.MarketSnapshot) error

	// GetByTokenID retrieves all snapshots for a launch, ordered by observed_at ASC.
	GetByTokenID(ctx context.Context, tokenID string) ([]*domain.MarketSnapshot, error)
}
