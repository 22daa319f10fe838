// Package redis owns the shared Redis connection behind the sent-marker
// store. Marker reads sit on the batch critical path, so the pool is sized
// and the connection proven before any batch starts.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"waternotice/internal/platform/config"
)

// Client wraps the go-redis client used by the sent-marker store.
type Client struct {
	*redis.Client
}

// New dials Redis from the batch configuration. An empty URL returns a nil
// client, which callers treat as "run with the in-memory marker".
func New(cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)

	// A marker store that cannot be reached must fail the run up front,
	// not midway through a batch.
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{Client: client}, nil
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	return c.Client.Close()
}
