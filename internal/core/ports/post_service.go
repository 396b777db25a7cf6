package ports

import (
	"context"

	"github.com/minisocial/socialnet/internal/core/domain"
)

// CreatePostInput is the DTO passed from the CLI to PostService.
type CreatePostInput struct {
	Username string
	Title    string // optional
	Content  string
}

type PostService interface {
	Create(ctx context.Context, in CreatePostInput) (*domain.Post, error)
}
