package memory

import (
	"context"
	"sort"
	"sync"

	"molenker/internal/domain"
	"molenker/internal/storage"
)

// SnapshotStore is an in-memory implementation of storage.SnapshotStore.
type SnapshotStore struct {
	mu      sync.RWMutex
	byToken map[string][]*domain.MarketSnapshot
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		byToken: make(map[string][]*domain.MarketSnapshot),
	}
}

// InsertBulk appends snapshots.
func (s *SnapshotStore) InsertBulk(_ context.Context, snapshots []*domain.MarketSnapshot) error {
	for _, snap := range snapshots {
		if snap == nil || snap.TokenID == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, snap := range snapshots {
		snapCopy := *snap
		s.byToken[snap.TokenID] = append(s.byToken[snap.TokenID], &snapCopy)
	}
	return nil
}

// GetByTokenID retrieves all snapshots for a launch, ordered by observed_at ASC.
func (s *SnapshotStore) GetByTokenID(_ context.Context, tokenID string) ([]*domain.MarketSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.byToken[tokenID]
	result := make([]*domain.MarketSnapshot, 0, len(stored))
	for _, snap := range stored {
		snapCopy := *snap
		result = append(result, &snapCopy)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ObservedAt < result[j].ObservedAt
	})
	return result, nil
}

var _ storage.SnapshotStore = (*SnapshotStore)(nil)
