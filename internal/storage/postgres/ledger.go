package postgres

import (
	"context"
	"fmt"

	"molenker/internal/storage"
)

// Ledger is a PostgreSQL implementation of storage.Ledger backed by processed_posts.
type Ledger struct {
	pool *Pool
}

// NewLedger creates a new PostgreSQL ledger.
func NewLedger(pool *Pool) *Ledger {
	return &Ledger{pool: pool}
}

// Compile-time interface check.
var _ storage.Ledger = (*Ledger)(nil)

// IsProcessed checks if a post id has been recorded.
func (l *Ledger) IsProcessed(ctx context.Context, postID string) (bool, error) {
	if postID == "" {
		return false, storage.ErrInvalidInput
	}

	var exists bool
	err := l.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM processed_posts WHERE post_id = $1)
	`, postID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check processed post: %w", err)
	}
	return exists, nil
}

// MarkProcessed records a post id. Marking twice is a no-op.
func (l *Ledger) MarkProcessed(ctx context.Context, postID string) error {
	_, err := l.Claim(ctx, postID)
	return err
}

// Claim inserts the post id and reports whether this call created the row.
func (l *Ledger) Claim(ctx context.Context, postID string) (bool, error) {
	if postID == "" {
		return false, storage.ErrInvalidInput
	}

	tag, err := l.pool.Exec(ctx, `
		INSERT INTO processed_posts (post_id, processed_at)
		VALUES ($1, NOW())
		ON CONFLICT (post_id) DO NOTHING
	`, postID)
	if err != nil {
		return false, fmt.Errorf("claim processed post: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
