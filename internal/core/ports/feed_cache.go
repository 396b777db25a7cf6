package ports

import (
	"context"

	"github.com/minisocial/socialnet/internal/core/domain"
)

// FeedCache stores composed feeds per viewer.
type FeedCache interface {
	// Get returns ok=false on a miss. stamp identifies the cache state that
	// was read; a feed composed after the miss must be stored with Set under
	// that stamp, so an invalidation in between leaves it unreachable.
	Get(ctx context.Context, viewer string) (feed []domain.Post, stamp string, ok bool, err error)
	Set(ctx context.Context, stamp string, feed []domain.Post) error
	// Invalidate drops the cached feed of one viewer.
	Invalidate(ctx context.Context, viewer string) error
	// InvalidateAll drops every cached feed.
	InvalidateAll(ctx context.Context) error
}
