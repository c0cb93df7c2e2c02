package memory

import (
	"context"
	"strings"
	"sync"

	"molenker/internal/domain"
	"molenker/internal/storage"
)

// TokenStore is an in-memory implementation of storage.TokenStore.
type TokenStore struct {
	mu   sync.RWMutex
	data map[string]*domain.TokenLaunch // keyed by launch id
}

// NewTokenStore creates a new in-memory token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{
		data: make(map[string]*domain.TokenLaunch),
	}
}

// Put inserts or overwrites the launch with the same ID.
func (s *TokenStore) Put(_ context.Context, t *domain.TokenLaunch) error {
	if t == nil || t.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Store a copy to prevent external mutation
	s.data[t.ID] = t.Clone()
	return nil
}

// Get retrieves a launch by ID. Returns ErrNotFound if not exists.
func (s *TokenStore) Get(_ context.Context, id string) (*domain.TokenLaunch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.data[id]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return t.Clone(), nil
}

// GetByAddress retrieves a launch by contract address, case-insensitive.
func (s *TokenStore) GetByAddress(_ context.Context, address string) (*domain.TokenLaunch, error) {
	if address == "" {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.data {
		if t.TokenAddress != "" && strings.EqualFold(t.TokenAddress, address) {
			return t.Clone(), nil
		}
	}
	return nil, storage.ErrNotFound
}

// List returns copies of all launches.
func (s *TokenStore) List(_ context.Context) ([]*domain.TokenLaunch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.TokenLaunch, 0, len(s.data))
	for _, t := range s.data {
		result = append(result, t.Clone())
	}
	return result, nil
}

var _ storage.TokenStore = (*TokenStore)(nil)
