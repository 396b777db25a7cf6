package ports

import (
	"context"

	"github.com/minisocial/socialnet/internal/core/domain"
)

// PostRepository is the append-only post log.
type PostRepository interface {
	// Append validates post and adds it to the end of the log.
	Append(ctx context.Context, post *domain.Post) error
	// All returns every post in storage order (oldest first).
	All(ctx context.Context) ([]domain.Post, error)
	// ByAuthor returns the posts written by username, in storage order.
	ByAuthor(ctx context.Context, username string) ([]domain.Post, error)
}
