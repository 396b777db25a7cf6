package ports

import (
	"context"

	"github.com/minisocial/socialnet/internal/core/domain"
)

// FeedService composes the ranked feed for a viewer.
type FeedService interface {
	Feed(ctx context.Context, viewer string) ([]domain.Post, error)
}
