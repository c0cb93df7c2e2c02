package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"molenker/internal/domain"
	"molenker/internal/storage"
)

// TokenStore implements storage.TokenStore using the token_launches table.
type TokenStore struct {
	pool *Pool
}

// NewTokenStore creates a new TokenStore.
func NewTokenStore(pool *Pool) *TokenStore {
	return &TokenStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TokenStore = (*TokenStore)(nil)

const launchColumns = `
	id, name, symbol, description, image, wallet, website, twitter,
	token_address, tx_hash, deployed_at,
	source, source_url, agent_name, post_id,
	market_cap, volume_24h, price_change_24h, holders,
	status, error, simulated, created_at, updated_at`

// Put upserts the launch by id. The last writer wins.
func (s *TokenStore) Put(ctx context.Context, t *domain.TokenLaunch) error {
	if t == nil || t.ID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO token_launches (` + launchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        $16, $17, $18, $19, $20, $21, $22, $23, $24)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			symbol = EXCLUDED.symbol,
			description = EXCLUDED.description,
			image = EXCLUDED.image,
			wallet = EXCLUDED.wallet,
			website = EXCLUDED.website,
			twitter = EXCLUDED.twitter,
			token_address = EXCLUDED.token_address,
			tx_hash = EXCLUDED.tx_hash,
			deployed_at = EXCLUDED.deployed_at,
			market_cap = EXCLUDED.market_cap,
			volume_24h = EXCLUDED.volume_24h,
			price_change_24h = EXCLUDED.price_change_24h,
			holders = EXCLUDED.holders,
			status = EXCLUDED.status,
			error = EXCLUDED.error,
			simulated = EXCLUDED.simulated,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.pool.Exec(ctx, query,
		t.ID, t.Name, t.Symbol, t.Description, t.Image, t.Wallet, t.Website, t.Twitter,
		t.TokenAddress, t.TxHash, t.DeployedAt,
		string(t.Source), t.SourceURL, t.AgentName, t.PostID,
		t.MarketCap, t.Volume24h, t.PriceChange24h, t.Holders,
		string(t.Status), t.Error, t.Simulated, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert token launch: %w", err)
	}
	return nil
}

// Get retrieves a launch by ID. Returns ErrNotFound if not exists.
func (s *TokenStore) Get(ctx context.Context, id string) (*domain.TokenLaunch, error) {
	query := `SELECT ` + launchColumns + ` FROM token_launches WHERE id = $1`

	t, err := scanLaunch(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get token launch: %w", err)
	}
	return t, nil
}

// GetByAddress retrieves a launch by contract address, case-insensitive.
func (s *TokenStore) GetByAddress(ctx context.Context, address string) (*domain.TokenLaunch, error) {
	if address == "" {
		return nil, storage.ErrInvalidInput
	}

	query := `
		SELECT ` + launchColumns + `
		FROM token_launches
		WHERE LOWER(token_address) = LOWER($1)
		ORDER BY created_at ASC
		LIMIT 1
	`

	t, err := scanLaunch(s.pool.QueryRow(ctx, query, address))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get token launch by address: %w", err)
	}
	return t, nil
}

// List returns every launch.
func (s *TokenStore) List(ctx context.Context) ([]*domain.TokenLaunch, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+launchColumns+` FROM token_launches`)
	if err != nil {
		return nil, fmt.Errorf("list token launches: %w", err)
	}
	defer rows.Close()

	var result []*domain.TokenLaunch
	for rows.Next() {
		t, err := scanLaunch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan token launch: %w", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// scanLaunch scans a single row into TokenLaunch.
func scanLaunch(row pgx.Row) (*domain.TokenLaunch, error) {
	var t domain.TokenLaunch
	var source, status string

	err := row.Scan(
		&t.ID, &t.Name, &t.Symbol, &t.Description, &t.Image, &t.Wallet, &t.Website, &t.Twitter,
		&t.TokenAddress, &t.TxHash, &t.DeployedAt,
		&source, &t.SourceURL, &t.AgentName, &t.PostID,
		&t.MarketCap, &t.Volume24h, &t.PriceChange24h, &t.Holders,
		&status, &t.Error, &t.Simulated, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Source = domain.Source(source)
	t.Status = domain.Status(status)
	return &t, nil
}
