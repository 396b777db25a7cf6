package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/minisocial/socialnet/internal/core/domain"
	"github.com/minisocial/socialnet/internal/core/ports"
	"github.com/minisocial/socialnet/internal/pkg/metrics"
)

// FeedService composes a viewer's feed from the post log and follow graph.
type FeedService struct {
	posts   ports.PostRepository
	follows ports.FollowRepository
	cache   ports.FeedCache // optional
	log     zerolog.Logger
}

// NewFeedService returns a FeedService. cache may be nil.
func NewFeedService(posts ports.PostRepository, follows ports.FollowRepository, cache ports.FeedCache, log zerolog.Logger) *FeedService {
	return &FeedService{posts: posts, follows: follows, cache: cache, log: log}
}

// Feed returns the viewer's ranked feed. Cache failures are logged and
// otherwise ignored.
func (s *FeedService) Feed(ctx context.Context, viewer string) ([]domain.Post, error) {
	cacheLabel := "disabled"
	var stamp string
	if s.cache != nil {
		cached, st, ok, err := s.cache.Get(ctx, viewer)
		switch {
		case err != nil:
			metrics.StorageErrorsTotal.WithLabelValues("cache", "get").Inc()
			s.log.Warn().Err(err).Str("viewer", viewer).Msg("feed cache read failed, composing from storage")
		case ok:
			metrics.FeedCompositionsTotal.WithLabelValues("hit").Inc()
			return cached, nil
		default:
			stamp = st
		}
		cacheLabel = "miss"
	}
	metrics.FeedCompositionsTotal.WithLabelValues(cacheLabel).Inc()

	start := time.Now()
	feed, err := s.compose(ctx, viewer)
	if err != nil {
		return nil, err
	}
	metrics.FeedCompositionDuration.Observe(time.Since(start).Seconds())

	// Only store under the stamp of the miss; after a failed read there is none.
	if stamp != "" {
		if err := s.cache.Set(ctx, stamp, feed); err != nil {
			metrics.StorageErrorsTotal.WithLabelValues("cache", "set").Inc()
			s.log.Warn().Err(err).Str("viewer", viewer).Msg("feed cache write failed")
		}
	}

	s.log.Debug().Str("viewer", viewer).Int("posts", len(feed)).Msg("feed composed")
	return feed, nil
}

func (s *FeedService) compose(ctx context.Context, viewer string) ([]domain.Post, error) {
	posts, err := s.posts.All(ctx)
	if err != nil {
		metrics.StorageErrorsTotal.WithLabelValues("posts", "all").Inc()
		return nil, fmt.Errorf("feed: %w", err)
	}
	followed, err := s.follows.FollowedBy(ctx, viewer)
	if err != nil {
		metrics.StorageErrorsTotal.WithLabelValues("follows", "followed_by").Inc()
		return nil, fmt.Errorf("feed: %w", err)
	}
	return RankFeed(viewer, followed, posts), nil
}

// RankFeed places posts by viewer and the accounts viewer follows ahead of
// everyone else's. Each group is ordered newest first; posts with equal
// timestamps keep their storage order.
func RankFeed(viewer string, followed []string, posts []domain.Post) []domain.Post {
	network := make(map[string]struct{}, len(followed)+1)
	network[viewer] = struct{}{}
	for _, f := range followed {
		network[f] = struct{}{}
	}

	inNetwork := make([]domain.Post, 0, len(posts))
	var outOfNetwork []domain.Post
	for _, p := range posts {
		if p.AuthoredBy(network) {
			inNetwork = append(inNetwork, p)
		} else {
			outOfNetwork = append(outOfNetwork, p)
		}
	}

	slices.SortStableFunc(inNetwork, newestFirst)
	slices.SortStableFunc(outOfNetwork, newestFirst)
	return append(inNetwork, outOfNetwork...)
}

func newestFirst(a, b domain.Post) int {
	return b.CreatedAt.Compare(a.CreatedAt)
}
