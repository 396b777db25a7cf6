package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/minisocial/socialnet/internal/core/domain"
	"github.com/minisocial/socialnet/internal/pkg/validate"
)

// PostRepository implements ports.PostRepository; seq preserves append order.
type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Append(ctx context.Context, post *domain.Post) error {
	if err := validate.Struct(post); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (id, title, content, username, created_at) VALUES (?, ?, ?, ?, ?)`,
		post.ID, post.Title, post.Content, post.Username, post.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *PostRepository) All(ctx context.Context) ([]domain.Post, error) {
	return r.query(ctx, `SELECT id, title, content, username, created_at FROM posts ORDER BY seq`)
}

func (r *PostRepository) ByAuthor(ctx context.Context, username string) ([]domain.Post, error) {
	return r.query(ctx,
		`SELECT id, title, content, username, created_at FROM posts WHERE username = ? ORDER BY seq`, username)
}

func (r *PostRepository) query(ctx context.Context, q string, args ...any) ([]domain.Post, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		var (
			p       domain.Post
			created int64
		)
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.Username, &created); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		p.CreatedAt = time.Unix(0, created).UTC()
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, nil
}
