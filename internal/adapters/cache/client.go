package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/andrescamacho/mediator-go/internal/infrastructure/config"
)

// Connect opens a Redis client from configuration and pings it
func Connect(ctx context.Context, cfg config.CacheConfig) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		opts = parsed
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", opts.Addr, err)
	}
	return client, nil
}
