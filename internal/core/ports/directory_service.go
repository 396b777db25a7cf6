package ports

import (
	"context"

	"github.com/minisocial/socialnet/internal/core/domain"
)

// Profile is the public view of an account as seen by a viewer.
type Profile struct {
	User        domain.User
	RecentPosts []domain.Post // newest first
	Following   bool          // viewer follows User
	IsSelf      bool
}

// DirectoryService answers "who is this account" and drives follow state changes.
type DirectoryService interface {
	Search(ctx context.Context, username string) (*domain.User, error)
	Profile(ctx context.Context, viewer, username string) (*Profile, error)
	// ToggleFollow flips the follow state and returns the new one.
	ToggleFollow(ctx context.Context, viewer, target string) (bool, error)
	Follow(ctx context.Context, viewer, target string) error
	Unfollow(ctx context.Context, viewer, target string) error
}
