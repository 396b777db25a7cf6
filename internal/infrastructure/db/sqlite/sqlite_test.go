package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/minisocial/socialnet/internal/core/domain"
	"github.com/minisocial/socialnet/internal/core/ports"
)

func openTemp(t *testing.T) ports.Storage {
	t.Helper()
	st, err := Open(context.Background(), filepath.Join(t.TempDir(), "data", "socialnet.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })
	return st
}

func TestUserRepository_CreateFindDuplicate(t *testing.T) {
	ctx := context.Background()
	st := openTemp(t)

	created := time.Date(2025, 9, 10, 14, 32, 1, 500, time.UTC)
	u := &domain.User{Username: "alice", PasswordHash: "h", Age: 30, Bio: "hi", CreatedAt: created}
	if err := st.Users.Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := st.Users.Create(ctx, u); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	got, err := st.Users.FindByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Bio != "hi" || got.Age != 30 || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected user: %+v", got)
	}

	if _, err := st.Users.FindByUsername(ctx, "Alice"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if ok, _ := st.Users.Exists(ctx, "bob"); ok {
		t.Fatalf("bob must not exist")
	}
}

func TestUserRepository_RejectsInvalid(t *testing.T) {
	st := openTemp(t)
	err := st.Users.Create(context.Background(), &domain.User{Username: "", PasswordHash: "h", CreatedAt: time.Now()})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPostRepository_PreservesAppendOrder(t *testing.T) {
	ctx := context.Background()
	st := openTemp(t)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, author := range []string{"bob", "alice", "bob"} {
		p := &domain.Post{ID: string(rune('a' + i)), Content: "c", Username: author, CreatedAt: base.Add(-time.Duration(i) * time.Hour)}
		if err := st.Posts.Append(ctx, p); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := st.Posts.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 3 || all[0].ID != "a" || all[2].ID != "c" {
		t.Fatalf("unexpected order: %+v", all)
	}

	bobs, err := st.Posts.ByAuthor(ctx, "bob")
	if err != nil || len(bobs) != 2 {
		t.Fatalf("expected two bob posts, got %d, %v", len(bobs), err)
	}

	none, err := st.Posts.ByAuthor(ctx, "carol")
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v, %v", none, err)
	}
}

func TestFollowRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	st := openTemp(t)

	if err := st.Follows.EnsureEntry(ctx, "alice"); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := st.Follows.EnsureEntry(ctx, "alice"); err != nil {
		t.Fatalf("ensure twice: %v", err)
	}

	if err := st.Follows.Follow(ctx, "alice", "bob"); err != nil {
		t.Fatalf("follow bob: %v", err)
	}
	if err := st.Follows.Follow(ctx, "alice", "carol"); err != nil {
		t.Fatalf("follow carol: %v", err)
	}
	if err := st.Follows.Follow(ctx, "alice", "bob"); !errors.Is(err, domain.ErrAlreadyFollowing) {
		t.Fatalf("expected ErrAlreadyFollowing, got %v", err)
	}
	if err := st.Follows.Follow(ctx, "alice", "alice"); !errors.Is(err, domain.ErrSelfFollow) {
		t.Fatalf("expected ErrSelfFollow, got %v", err)
	}

	got, err := st.Follows.FollowedBy(ctx, "alice")
	if err != nil {
		t.Fatalf("followed by: %v", err)
	}
	if len(got) != 2 || got[0] != "bob" || got[1] != "carol" {
		t.Fatalf("unexpected following list: %v", got)
	}

	if err := st.Follows.Unfollow(ctx, "alice", "bob"); err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	if err := st.Follows.Unfollow(ctx, "alice", "bob"); !errors.Is(err, domain.ErrNotFollowing) {
		t.Fatalf("expected ErrNotFollowing, got %v", err)
	}
	if ok, _ := st.Follows.IsFollowing(ctx, "alice", "bob"); ok {
		t.Fatalf("alice must no longer follow bob")
	}

	empty, err := st.Follows.FollowedBy(ctx, "nobody")
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil list, got %v, %v", empty, err)
	}
}

func TestApplyMigrations_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "socialnet.db")
	db, err := Connect(context.Background(), path)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer db.Close()

	if err := ApplyMigrations(db); err != nil {
		t.Fatalf("second migration run: %v", err)
	}
}
