package redistools

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/softcart/storefront_control/internal/pkg/config"
)

const (
	pingInterval = time.Second
	pingDeadline = time.Second * 10
)

// Connect builds a client from the cache config and waits for the
// server to answer a ping, giving up after pingDeadline.
func Connect(ctx context.Context, cfg config.RedisCache) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{ //nolint:exhaustruct
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	deadline := time.Now().Add(pingDeadline)

	for {
		err := rdb.Ping(ctx).Err()
		if err == nil {
			return rdb, nil
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("cannot ping redis error: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context error: %w", ctx.Err())
		case <-time.After(pingInterval):
		}
	}
}
