package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultTimeout   = 5 * time.Second
	defaultKeyPrefix = "socialnet:"
)

// Config captures the settings for the feed cache connection. Addr and DB
// come from REDIS_ADDR and REDIS_DB; FeedTTL from FEED_CACHE_TTL.
type Config struct {
	Addr    string
	DB      int
	Timeout time.Duration
	FeedTTL time.Duration
	// KeyPrefix namespaces every key so the cache can share a Redis database.
	KeyPrefix string
}

// Connect initialises a Redis client and validates connectivity with a ping.
// A default timeout is applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		DB:           cfg.DB,
		ClientName:   "socialnet",
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// OpenFeedCache connects and returns a FeedCache owning the client.
func OpenFeedCache(ctx context.Context, cfg Config) (*FeedCache, error) {
	client, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewFeedCache(client, cfg.KeyPrefix, cfg.FeedTTL), nil
}
