package ports

import "context"

// FollowRepository persists the directed "follows" relation as an adjacency list.
type FollowRepository interface {
	// EnsureEntry creates an empty list for username if none exists.
	EnsureEntry(ctx context.Context, username string) error
	// Follow returns domain.ErrSelfFollow or domain.ErrAlreadyFollowing without mutating anything.
	Follow(ctx context.Context, follower, target string) error
	// Unfollow returns domain.ErrNotFollowing when target is not followed.
	Unfollow(ctx context.Context, follower, target string) error
	IsFollowing(ctx context.Context, follower, target string) (bool, error)
	// FollowedBy returns the accounts username follows, in the order they were followed.
	FollowedBy(ctx context.Context, username string) ([]string, error)
}
