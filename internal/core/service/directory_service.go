package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/minisocial/socialnet/internal/core/domain"
	"github.com/minisocial/socialnet/internal/core/ports"
	"github.com/minisocial/socialnet/internal/pkg/metrics"
)

const defaultRecentPosts = 5

const (
	actionFollow   = "follow"
	actionUnfollow = "unfollow"
)

// DirectoryService looks up profiles and changes follow state between accounts.
type DirectoryService struct {
	users       ports.UserRepository
	posts       ports.PostRepository
	follows     ports.FollowRepository
	cache       ports.FeedCache // optional
	recentPosts int
	log         zerolog.Logger
}

// NewDirectoryService returns a DirectoryService. recentPosts bounds the posts
// shown on a profile (defaultRecentPosts when <= 0); cache may be nil.
func NewDirectoryService(
	users ports.UserRepository,
	posts ports.PostRepository,
	follows ports.FollowRepository,
	cache ports.FeedCache,
	recentPosts int,
	log zerolog.Logger,
) *DirectoryService {
	if recentPosts <= 0 {
		recentPosts = defaultRecentPosts
	}
	return &DirectoryService{
		users:       users,
		posts:       posts,
		follows:     follows,
		cache:       cache,
		recentPosts: recentPosts,
		log:         log,
	}
}

func (s *DirectoryService) Search(ctx context.Context, username string) (*domain.User, error) {
	return s.users.FindByUsername(ctx, username)
}

// Profile returns username's account, its most recent posts, and whether
// viewer follows it.
func (s *DirectoryService) Profile(ctx context.Context, viewer, username string) (*ports.Profile, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	posts, err := s.posts.ByAuthor(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	slices.SortStableFunc(posts, newestFirst)
	if len(posts) > s.recentPosts {
		posts = posts[:s.recentPosts]
	}

	profile := &ports.Profile{
		User:        *user,
		RecentPosts: posts,
		IsSelf:      viewer == username,
	}
	if !profile.IsSelf {
		profile.Following, err = s.follows.IsFollowing(ctx, viewer, username)
		if err != nil {
			return nil, fmt.Errorf("profile: %w", err)
		}
	}
	return profile, nil
}

// ToggleFollow unfollows target when viewer already follows it, and follows
// it otherwise. It returns the resulting state.
func (s *DirectoryService) ToggleFollow(ctx context.Context, viewer, target string) (bool, error) {
	if err := s.checkTarget(ctx, viewer, target); err != nil {
		metrics.FollowActionsTotal.WithLabelValues(actionFollow, resultLabel(err)).Inc()
		return false, err
	}

	following, err := s.follows.IsFollowing(ctx, viewer, target)
	if err != nil {
		return false, fmt.Errorf("toggle follow: %w", err)
	}
	action := actionFollow
	if following {
		action = actionUnfollow
	}
	// On failure the stored state is unchanged.
	if err := s.apply(ctx, action, viewer, target); err != nil {
		return following, err
	}
	return !following, nil
}

func (s *DirectoryService) Follow(ctx context.Context, viewer, target string) error {
	return s.mutate(ctx, actionFollow, viewer, target)
}

func (s *DirectoryService) Unfollow(ctx context.Context, viewer, target string) error {
	return s.mutate(ctx, actionUnfollow, viewer, target)
}

func (s *DirectoryService) mutate(ctx context.Context, action, viewer, target string) error {
	if err := s.checkTarget(ctx, viewer, target); err != nil {
		metrics.FollowActionsTotal.WithLabelValues(action, resultLabel(err)).Inc()
		return err
	}
	return s.apply(ctx, action, viewer, target)
}

// checkTarget rejects self-follows and targets that are not registered.
func (s *DirectoryService) checkTarget(ctx context.Context, viewer, target string) error {
	if err := domain.CheckFollowTarget(viewer, target); err != nil {
		return err
	}
	exists, err := s.users.Exists(ctx, target)
	if err != nil {
		return fmt.Errorf("check follow target: %w", err)
	}
	if !exists {
		return domain.ErrUserNotFound
	}
	return nil
}

func (s *DirectoryService) apply(ctx context.Context, action, viewer, target string) error {
	var err error
	if action == actionFollow {
		err = s.follows.Follow(ctx, viewer, target)
	} else {
		err = s.follows.Unfollow(ctx, viewer, target)
	}
	metrics.FollowActionsTotal.WithLabelValues(action, resultLabel(err)).Inc()
	if err != nil {
		if domain.IsRejected(err) {
			return err
		}
		metrics.StorageErrorsTotal.WithLabelValues("follows", action).Inc()
		s.log.Error().Err(err).Str("viewer", viewer).Str("target", target).Str("action", action).Msg("follow graph update failed")
		return fmt.Errorf("%s: %w", action, err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, viewer); err != nil {
			metrics.StorageErrorsTotal.WithLabelValues("cache", "invalidate").Inc()
			s.log.Warn().Err(err).Str("viewer", viewer).Msg("failed to invalidate feed cache")
		}
	}

	s.log.Info().Str("viewer", viewer).Str("target", target).Str("action", action).Msg("follow graph updated")
	return nil
}
