package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/minisocial/socialnet/internal/core/domain"
)

const defaultFeedTTL = 10 * time.Minute

// FeedCache stores composed feeds as JSON under
//
//	<prefix>feed:<generation>:<version>:<viewer>
//
// InvalidateAll bumps the global generation and Invalidate bumps the viewer's
// version instead of deleting keys. A feed stored under an older stamp is
// never read again and expires by TTL.
type FeedCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewFeedCache wraps client. prefix defaults to "socialnet:" and ttl to ten
// minutes.
func NewFeedCache(client *redis.Client, prefix string, ttl time.Duration) *FeedCache {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = defaultFeedTTL
	}
	return &FeedCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *FeedCache) Get(ctx context.Context, viewer string) ([]domain.Post, string, bool, error) {
	stamp, err := c.stamp(ctx, viewer)
	if err != nil {
		return nil, "", false, err
	}
	data, err := c.client.Get(ctx, stamp).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, stamp, false, nil
	}
	if err != nil {
		return nil, "", false, fmt.Errorf("feed cache get: %w", err)
	}

	feed := []domain.Post{}
	if err := json.Unmarshal(data, &feed); err != nil {
		// Undecodable entries count as a miss and are overwritten by Set.
		return nil, stamp, false, nil
	}
	return feed, stamp, true, nil
}

// Set stores feed under stamp as returned by Get.
func (c *FeedCache) Set(ctx context.Context, stamp string, feed []domain.Post) error {
	if stamp == "" {
		return errors.New("feed cache set: empty stamp")
	}
	data, err := json.Marshal(feed)
	if err != nil {
		return fmt.Errorf("feed cache encode: %w", err)
	}
	return c.client.Set(ctx, stamp, data, c.ttl).Err()
}

func (c *FeedCache) Invalidate(ctx context.Context, viewer string) error {
	return c.client.Incr(ctx, c.versionKey(viewer)).Err()
}

func (c *FeedCache) InvalidateAll(ctx context.Context) error {
	return c.client.Incr(ctx, c.generationKey()).Err()
}

// Ping lets the readiness check ping the cache.
func (c *FeedCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *FeedCache) Close() error {
	return c.client.Close()
}

func (c *FeedCache) generationKey() string {
	return c.prefix + "feed:generation"
}

func (c *FeedCache) versionKey(viewer string) string {
	return c.prefix + "feed:version:" + viewer
}

// stamp reads the generation and the viewer's version in one round trip.
func (c *FeedCache) stamp(ctx context.Context, viewer string) (string, error) {
	vals, err := c.client.MGet(ctx, c.generationKey(), c.versionKey(viewer)).Result()
	if err != nil {
		return "", fmt.Errorf("feed cache stamp: %w", err)
	}
	gen, err := counter(vals[0])
	if err != nil {
		return "", fmt.Errorf("feed cache generation: %w", err)
	}
	ver, err := counter(vals[1])
	if err != nil {
		return "", fmt.Errorf("feed cache version: %w", err)
	}
	return c.feedKey(gen, ver, viewer), nil
}

func (c *FeedCache) feedKey(generation, version int64, viewer string) string {
	return fmt.Sprintf("%sfeed:%d:%d:%s", c.prefix, generation, version, viewer)
}

// counter decodes an MGET value; a missing key counts as zero.
func counter(v any) (int64, error) {
	switch s := v.(type) {
	case nil:
		return 0, nil
	case string:
		return strconv.ParseInt(s, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected value %T", v)
	}
}
