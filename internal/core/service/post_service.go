package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/minisocial/socialnet/internal/core/domain"
	"github.com/minisocial/socialnet/internal/core/ports"
	"github.com/minisocial/socialnet/internal/pkg/metrics"
)

// PostService creates posts after checking that the author exists.
type PostService struct {
	posts ports.PostRepository
	users ports.UserRepository
	cache ports.FeedCache // optional
	log   zerolog.Logger
	now   func() time.Time
}

// NewPostService returns a PostService. cache may be nil.
func NewPostService(posts ports.PostRepository, users ports.UserRepository, cache ports.FeedCache, log zerolog.Logger) *PostService {
	return &PostService{posts: posts, users: users, cache: cache, log: log, now: time.Now}
}

func (s *PostService) Create(ctx context.Context, in ports.CreatePostInput) (*domain.Post, error) {
	exists, err := s.users.Exists(ctx, in.Username)
	if err != nil {
		metrics.StorageErrorsTotal.WithLabelValues("users", "exists").Inc()
		return nil, fmt.Errorf("create post: %w", err)
	}
	if !exists {
		return nil, domain.NewValidationError("username", "references an unknown user")
	}

	post := &domain.Post{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(in.Title),
		Content:   strings.TrimSpace(in.Content),
		Username:  in.Username,
		CreatedAt: s.now().UTC(),
	}
	if err := s.posts.Append(ctx, post); err != nil {
		if isDomainError(err) {
			return nil, err
		}
		metrics.StorageErrorsTotal.WithLabelValues("posts", "append").Inc()
		s.log.Error().Err(err).Str("username", in.Username).Msg("failed to create post")
		return nil, fmt.Errorf("create post: %w", err)
	}
	metrics.PostsCreatedTotal.Inc()

	// Every feed ranks every post, so a new one stales all cached feeds.
	if s.cache != nil {
		if err := s.cache.InvalidateAll(ctx); err != nil {
			metrics.StorageErrorsTotal.WithLabelValues("cache", "invalidate_all").Inc()
			s.log.Warn().Err(err).Msg("failed to invalidate feed cache")
		}
	}

	s.log.Info().Str("username", post.Username).Str("post_id", post.ID).Msg("post created")
	return post, nil
}
