package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"molenker/internal/storage"
)

// Ledger implements storage.Ledger as a Redis set.
// SADD is atomic, so Claim has exactly one winner per post across processes.
type Ledger struct {
	client goredis.UniversalClient
	key    string
}

// NewLedger creates a new Ledger using the default set key.
func NewLedger(client goredis.UniversalClient) *Ledger {
	return &Ledger{client: client, key: DefaultProcessedKey}
}

// Compile-time interface check.
var _ storage.Ledger = (*Ledger)(nil)

// IsProcessed reports whether postID is in the set.
func (l *Ledger) IsProcessed(ctx context.Context, postID string) (bool, error) {
	if postID == "" {
		return false, storage.ErrInvalidInput
	}

	member, err := l.client.SIsMember(ctx, l.key, postID).Result()
	if err != nil {
		return false, fmt.Errorf("sismember processed post: %w", err)
	}
	return member, nil
}

// MarkProcessed adds postID to the set.
func (l *Ledger) MarkProcessed(ctx context.Context, postID string) error {
	_, err := l.Claim(ctx, postID)
	return err
}

// Claim adds postID and reports whether it was not already present.
func (l *Ledger) Claim(ctx context.Context, postID string) (bool, error) {
	if postID == "" {
		return false, storage.ErrInvalidInput
	}

	added, err := l.client.SAdd(ctx, l.key, postID).Result()
	if err != nil {
		return false, fmt.Errorf("sadd processed post: %w", err)
	}
	return added == 1, nil
}
