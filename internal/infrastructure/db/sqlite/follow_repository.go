package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/minisocial/socialnet/internal/core/domain"
)

// FollowRepository implements ports.FollowRepository on the follow_entries
// and follows tables.
type FollowRepository struct {
	db *sql.DB
}

func NewFollowRepository(db *sql.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

func (r *FollowRepository) EnsureEntry(ctx context.Context, username string) error {
	if _, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO follow_entries (username) VALUES (?)`, username); err != nil {
		return fmt.Errorf("ensure follow entry: %w", err)
	}
	return nil
}

func (r *FollowRepository) Follow(ctx context.Context, follower, target string) error {
	if err := domain.CheckFollowTarget(follower, target); err != nil {
		return err
	}
	if err := r.EnsureEntry(ctx, follower); err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO follows (follower, target) VALUES (?, ?)`, follower, target)
	if err != nil {
		return fmt.Errorf("follow: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("follow: %w", err)
	}
	if n == 0 {
		return domain.ErrAlreadyFollowing
	}
	return nil
}

func (r *FollowRepository) Unfollow(ctx context.Context, follower, target string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower = ? AND target = ?`, follower, target)
	if err != nil {
		return fmt.Errorf("unfollow: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("unfollow: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFollowing
	}
	return nil
}

func (r *FollowRepository) IsFollowing(ctx context.Context, follower, target string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM follows WHERE follower = ? AND target = ?`, follower, target).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("is following: %w", err)
	}
	return n > 0, nil
}

func (r *FollowRepository) FollowedBy(ctx context.Context, username string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT target FROM follows WHERE follower = ? ORDER BY seq`, username)
	if err != nil {
		return nil, fmt.Errorf("followed by: %w", err)
	}
	defer rows.Close()

	targets := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan follow: %w", err)
		}
		targets = append(targets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate follows: %w", err)
	}
	return targets, nil
}
