package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"molenker/internal/config"
	"molenker/internal/storage"
	chstore "molenker/internal/storage/clickhouse"
	"molenker/internal/storage/memory"
	"molenker/internal/storage/migrations"
	pgstore "molenker/internal/storage/postgres"
	redisstore "molenker/internal/storage/redis"
)

// stores holds the storage implementations selected by config.
type stores struct {
	tokens    storage.TokenStore
	ledger    storage.Ledger
	snapshots storage.SnapshotStore // nil when no history is kept
	closers   []func()
}

func (s *stores) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// openStores connects the configured backend and, when configured, the
// ClickHouse snapshot history. Schema migrations run on every start.
func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stores, error) {
	st := &stores{}

	switch cfg.Store.Backend {
	case config.BackendMemory:
		logger.Warn("using in-memory storage; launches and the processed-post ledger are lost on restart")
		st.tokens = memory.NewTokenStore()
		st.ledger = memory.NewLedger()
		st.snapshots = memory.NewSnapshotStore()

	case config.BackendRedis:
		client, err := redisstore.NewClient(ctx, redisstore.Options{
			Addr:     cfg.Store.RedisAddr,
			Password: cfg.Store.RedisPassword,
			DB:       cfg.Store.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		st.closers = append(st.closers, func() { client.Close() })
		st.tokens = redisstore.NewTokenStore(client)
		st.ledger = redisstore.NewLedger(client)

	case config.BackendPostgres:
		pool, err := pgstore.NewPool(ctx, cfg.Store.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		st.closers = append(st.closers, pool.Close)
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			st.close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		st.tokens = pgstore.NewTokenStore(pool)
		st.ledger = pgstore.NewLedger(pool)

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	if cfg.Store.ClickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.Store.ClickhouseDSN)
		if err != nil {
			st.close()
			return nil, fmt.Errorf("migrate clickhouse: %w", err)
		}
		st.closers = append(st.closers, func() { conn.Close() })
		st.snapshots = chstore.NewSnapshotStore(conn)
	}

	logger.Info("stores ready",
		zap.String("backend", cfg.Store.Backend),
		zap.Bool("snapshot_history", st.snapshots != nil),
	)
	return st, nil
}
