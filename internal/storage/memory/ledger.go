package memory

import (
	"context"
	"sync"

	"molenker/internal/storage"
)

// Ledger is an in-memory implementation of storage.Ledger.
// It does not survive restarts; use the redis or postgres ledger in production.
type Ledger struct {
	mu        sync.Mutex
	processed map[string]struct{}
}

// NewLedger creates a new in-memory ledger.
func NewLedger() *Ledger {
	return &Ledger{
		processed: make(map[string]struct{}),
	}
}

// IsProcessed reports whether postID has been marked.
func (l *Ledger) IsProcessed(_ context.Context, postID string) (bool, error) {
	if postID == "" {
		return false, storage.ErrInvalidInput
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.processed[postID]
	return ok, nil
}

// MarkProcessed records postID.
func (l *Ledger) MarkProcessed(ctx context.Context, postID string) error {
	_, err := l.Claim(ctx, postID)
	return err
}

// Claim marks postID and reports whether it was newly added.
func (l *Ledger) Claim(_ context.Context, postID string) (bool, error) {
	if postID == "" {
		return false, storage.ErrInvalidInput
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.processed[postID]; ok {
		return false, nil
	}
	l.processed[postID] = struct{}{}
	return true, nil
}

var _ storage.Ledger = (*Ledger)(nil)
