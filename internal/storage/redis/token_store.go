package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"molenker/internal/domain"
	"molenker/internal/storage"
)

// TokenStore implements storage.TokenStore as a Redis hash of JSON records.
type TokenStore struct {
	client goredis.UniversalClient
	key    string
}

// NewTokenStore creates a new TokenStore using the default hash key.
func NewTokenStore(client goredis.UniversalClient) *TokenStore {
	return &TokenStore{client: client, key: DefaultTokensKey}
}

// Compile-time interface check.
var _ storage.TokenStore = (*TokenStore)(nil)

// Put inserts or overwrites the launch with the same ID.
func (s *TokenStore) Put(ctx context.Context, t *domain.TokenLaunch) error {
	if t == nil || t.ID == "" {
		return storage.ErrInvalidInput
	}

	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal token launch: %w", err)
	}

	if err := s.client.HSet(ctx, s.key, t.ID, data).Err(); err != nil {
		return fmt.Errorf("hset token launch: %w", err)
	}
	return nil
}

// Get retrieves a launch by ID. Returns ErrNotFound if not exists.
func (s *TokenStore) Get(ctx context.Context, id string) (*domain.TokenLaunch, error) {
	raw, err := s.client.HGet(ctx, s.key, id).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("hget token launch: %w", err)
	}
	return decodeLaunch(raw)
}

// GetByAddress scans all launches for a case-insensitive address match.
func (s *TokenStore) GetByAddress(ctx context.Context, address string) (*domain.TokenLaunch, error) {
	if address == "" {
		return nil, storage.ErrInvalidInput
	}

	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range all {
		if t.TokenAddress != "" && strings.EqualFold(t.TokenAddress, address) {
			return t, nil
		}
	}
	return nil, storage.ErrNotFound
}

// List returns all launches in the hash.
func (s *TokenStore) List(ctx context.Context) ([]*domain.TokenLaunch, error) {
	entries, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall token launches: %w", err)
	}

	result := make([]*domain.TokenLaunch, 0, len(entries))
	for id, raw := range entries {
		t, err := decodeLaunch(raw)
		if err != nil {
			return nil, fmt.Errorf("decode launch %s: %w", id, err)
		}
		result = append(result, t)
	}
	return result, nil
}

func decodeLaunch(raw string) (*domain.TokenLaunch, error) {
	var t domain.TokenLaunch
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return nil, fmt.Errorf("unmarshal token launch: %w", err)
	}
	return &t, nil
}
