package ports

import (
	"context"

	"github.com/minisocial/socialnet/internal/core/domain"
)

// RegisterInput carries the raw registration form.
type RegisterInput struct {
	Username string
	Password string
	Age      int
	Bio      string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	// Authenticate returns domain.ErrInvalidCredentials for an unknown user or a wrong password.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	Exists(ctx context.Context, username string) (bool, error)
}
