package ports

import (
	"context"

	"github.com/minisocial/socialnet/internal/core/domain"
)

// UserRepository is the credential store: a durable registry of accounts.
type UserRepository interface {
	Exists(ctx context.Context, username string) (bool, error)
	// FindByUsername returns domain.ErrUserNotFound when no record matches.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// Create validates and persists user. An existing username yields domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) error
}
