package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/minisocial/socialnet/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users     []*domain.User
	createErr error
	findErr   error
}

func newStubUserRepo(names ...string) *stubUserRepo {
	r := &stubUserRepo{}
	for _, n := range names {
		r.users = append(r.users, &domain.User{Username: n, PasswordHash: "hashed:" + n, Age: 20, CreatedAt: time.Now()})
	}
	return r
}

func (r *stubUserRepo) Exists(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, u := range r.users {
		if u.Username == user.Username {
			return domain.ErrUserExists
		}
	}
	clone := *user
	r.users = append(r.users, &clone)
	return nil
}

type stubPostRepo struct {
	posts     []domain.Post
	appendErr error
	allErr    error
}

func (r *stubPostRepo) Append(_ context.Context, post *domain.Post) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	if post.Content == "" {
		return domain.NewValidationError("content", "is required")
	}
	r.posts = append(r.posts, *post)
	return nil
}

func (r *stubPostRepo) All(_ context.Context) ([]domain.Post, error) {
	if r.allErr != nil {
		return nil, r.allErr
	}
	return slices.Clone(r.posts), nil
}

func (r *stubPostRepo) ByAuthor(ctx context.Context, username string) ([]domain.Post, error) {
	all, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.Post
	for _, p := range all {
		if p.Username == username {
			out = append(out, p)
		}
	}
	return out, nil
}

type stubFollowRepo struct {
	graph       map[string]domain.Following
	followErr   error
	unfollowErr error
	mutations   int
}

func newStubFollowRepo() *stubFollowRepo {
	return &stubFollowRepo{graph: make(map[string]domain.Following)}
}

func (r *stubFollowRepo) EnsureEntry(_ context.Context, username string) error {
	if _, ok := r.graph[username]; !ok {
		r.graph[username] = domain.Following{}
	}
	return nil
}

func (r *stubFollowRepo) Follow(_ context.Context, follower, target string) error {
	if r.followErr != nil {
		return r.followErr
	}
	next, err := r.graph[follower].Add(follower, target)
	if err != nil {
		return err
	}
	r.graph[follower] = next
	r.mutations++
	return nil
}

func (r *stubFollowRepo) Unfollow(_ context.Context, follower, target string) error {
	if r.unfollowErr != nil {
		return r.unfollowErr
	}
	next, err := r.graph[follower].Remove(target)
	if err != nil {
		return err
	}
	r.graph[follower] = next
	r.mutations++
	return nil
}

func (r *stubFollowRepo) IsFollowing(_ context.Context, follower, target string) (bool, error) {
	return r.graph[follower].Contains(target), nil
}

func (r *stubFollowRepo) FollowedBy(_ context.Context, username string) ([]string, error) {
	return slices.Clone(r.graph[username]), nil
}

// ---------------------------------------------------------------------------
// Stub collaborators
// ---------------------------------------------------------------------------

// stubHasher is deterministic so stored digests are easy to assert on.
type stubHasher struct{}

func (stubHasher) Hash(plaintext string) (string, error) { return "hashed:" + plaintext, nil }

func (stubHasher) Verify(digest, plaintext string) bool { return digest == "hashed:"+plaintext }

// stubFeedCache mirrors the stamp scheme of the redis adapter: a global
// generation plus a per-viewer version.
type stubFeedCache struct {
	feeds            map[string][]domain.Post // by stamp
	generation       int
	versions         map[string]int
	getErr           error
	afterGet         func() // runs between a miss and the caller's Set
	invalidated      []string
	invalidatedAll   int
	invalidateAllErr error
}

func newStubFeedCache() *stubFeedCache {
	return &stubFeedCache{feeds: make(map[string][]domain.Post), versions: make(map[string]int)}
}

func (c *stubFeedCache) stamp(viewer string) string {
	return fmt.Sprintf("%d:%d:%s", c.generation, c.versions[viewer], viewer)
}

// cached returns what a Get for viewer would serve.
func (c *stubFeedCache) cached(viewer string) ([]domain.Post, bool) {
	feed, ok := c.feeds[c.stamp(viewer)]
	return feed, ok
}

func (c *stubFeedCache) Get(_ context.Context, viewer string) ([]domain.Post, string, bool, error) {
	if c.getErr != nil {
		return nil, "", false, c.getErr
	}
	stamp := c.stamp(viewer)
	feed, ok := c.feeds[stamp]
	if !ok && c.afterGet != nil {
		c.afterGet()
	}
	return feed, stamp, ok, nil
}

func (c *stubFeedCache) Set(_ context.Context, stamp string, feed []domain.Post) error {
	c.feeds[stamp] = feed
	return nil
}

func (c *stubFeedCache) Invalidate(_ context.Context, viewer string) error {
	c.versions[viewer]++
	c.invalidated = append(c.invalidated, viewer)
	return nil
}

func (c *stubFeedCache) InvalidateAll(_ context.Context) error {
	if c.invalidateAllErr != nil {
		return c.invalidateAllErr
	}
	c.generation++
	c.invalidatedAll++
	return nil
}

// fixedClock returns a clock that advances by one minute per call.
func fixedClock(start time.Time) func() time.Time {
	next := start
	return func() time.Time {
		t := next
		next = next.Add(time.Minute)
		return t
	}
}
