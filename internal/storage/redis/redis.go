// Package redis implements the launch stores on a Redis key-value server.
//
// Layout:
//   - molenker:tokens           hash, launch id -> JSON record
//   - molenker:processed_posts  set of processed post ids
package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// Default key names.
const (
	DefaultTokensKey    = "molenker:tokens"
	DefaultProcessedKey = "molenker:processed_posts"
)

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, opts Options) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}
