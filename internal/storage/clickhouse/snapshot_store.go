package clickhouse

import (
	"context"
	"fmt"

	"molenker/internal/domain"
	"molenker/internal/storage"
)

// SnapshotStore implements storage.SnapshotStore using the market_snapshots table.
type SnapshotStore struct {
	conn *Conn
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(conn *Conn) *SnapshotStore {
	return &SnapshotStore{conn: conn}
}

// Compile-time interface check.
var _ storage.SnapshotStore = (*SnapshotStore)(nil)

// InsertBulk appends snapshots in a single batch.
func (s *SnapshotStore) InsertBulk(ctx context.Context, snapshots []*domain.MarketSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	for _, snap := range snapshots {
		if snap == nil || snap.TokenID == "" {
			return storage.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO market_snapshots (
			token_id, token_address, market_cap, volume_24h,
			price_change_24h, holders, observed_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, snap := range snapshots {
		err = batch.Append(
			snap.TokenID, snap.TokenAddress, snap.MarketCap, snap.Volume24h,
			snap.PriceChange24h, snap.Holders, uint64(snap.ObservedAt),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByTokenID retrieves all snapshots for a launch, ordered by observed_at ASC.
func (s *SnapshotStore) GetByTokenID(ctx context.Context, tokenID string) ([]*domain.MarketSnapshot, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT token_id, token_address, market_cap, volume_24h,
		       price_change_24h, holders, observed_at
		FROM market_snapshots
		WHERE token_id = ?
		ORDER BY observed_at ASC
	`, tokenID)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var result []*domain.MarketSnapshot
	for rows.Next() {
		var snap domain.MarketSnapshot
		var observedAt uint64
		if err := rows.Scan(
			&snap.TokenID, &snap.TokenAddress, &snap.MarketCap, &snap.Volume24h,
			&snap.PriceChange24h, &snap.Holders, &observedAt,
		); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snap.ObservedAt = int64(observedAt)
		result = append(result, &snap)
	}
	return result, rows.Err()
}
