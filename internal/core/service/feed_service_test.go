package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/minisocial/socialnet/internal/core/domain"
)

var t0 = time.Date(2025, 9, 10, 12, 0, 0, 0, time.UTC)

func post(id, author string, at time.Duration) domain.Post {
	return domain.Post{ID: id, Title: id, Content: "c", Username: author, CreatedAt: t0.Add(at)}
}

func ids(posts []domain.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func assertIDs(t *testing.T, got []domain.Post, want ...string) {
	t.Helper()
	g := ids(got)
	if len(g) != len(want) {
		t.Fatalf("expected %v, got %v", want, g)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, g)
		}
	}
}

func TestRankFeed_InNetworkFirstRegardlessOfRecency(t *testing.T) {
	posts := []domain.Post{
		post("stranger-new", "zed", 10*time.Hour),
		post("alice-old", "alice", time.Hour),
		post("bob-mid", "bob", 2*time.Hour),
		post("stranger-old", "zed", 0),
	}

	feed := RankFeed("bob", []string{"alice"}, posts)
	assertIDs(t, feed, "bob-mid", "alice-old", "stranger-new", "stranger-old")
}

func TestRankFeed_StableForEqualTimestamps(t *testing.T) {
	posts := []domain.Post{
		post("a1", "alice", time.Hour),
		post("a2", "alice", time.Hour),
		post("z1", "zed", time.Hour),
		post("a3", "alice", time.Hour),
		post("z2", "zed", time.Hour),
	}
	feed := RankFeed("alice", nil, posts)
	assertIDs(t, feed, "a1", "a2", "a3", "z1", "z2")
}

func TestRankFeed_Properties(t *testing.T) {
	authors := []string{"alice", "bob", "carol", "dave", "erin"}
	var posts []domain.Post
	for i := 0; i < 40; i++ {
		// Scatter timestamps so storage order is not chronological.
		offset := time.Duration((i*37)%23) * time.Minute
		posts = append(posts, post(string(rune('A'+i)), authors[i%len(authors)], offset))
	}
	followed := []string{"carol", "erin"}
	network := map[string]bool{"bob": true, "carol": true, "erin": true}

	feed := RankFeed("bob", followed, posts)
	if len(feed) != len(posts) {
		t.Fatalf("feed must contain every post, got %d of %d", len(feed), len(posts))
	}

	seenOutside := false
	for i, p := range feed {
		if network[p.Username] {
			if seenOutside {
				t.Fatalf("in-network post %s at %d follows an out-of-network post", p.ID, i)
			}
		} else {
			seenOutside = true
		}
		if i > 0 && network[feed[i-1].Username] == network[p.Username] && feed[i-1].CreatedAt.Before(p.CreatedAt) {
			t.Fatalf("posts %s and %s are not newest first within their group", feed[i-1].ID, p.ID)
		}
	}
}

// bob follows alice; both posted, so both are in-network and ordered newest first.
func TestFeedService_BobFollowsAlice(t *testing.T) {
	posts := &stubPostRepo{posts: []domain.Post{
		{ID: "hello", Title: "Hello", Content: "World", Username: "alice", CreatedAt: t0},
		{ID: "hi", Title: "Hi", Content: "There", Username: "bob", CreatedAt: t0.Add(time.Minute)},
	}}
	follows := newStubFollowRepo()
	_ = follows.Follow(context.Background(), "bob", "alice")

	svc := NewFeedService(posts, follows, nil, zerolog.Nop())
	feed, err := svc.Feed(context.Background(), "bob")
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	assertIDs(t, feed, "hi", "hello")
}

func TestFeedService_ViewerWithoutFollows(t *testing.T) {
	ctx := context.Background()
	follows := newStubFollowRepo()

	empty := NewFeedService(&stubPostRepo{}, follows, nil, zerolog.Nop())
	feed, err := empty.Feed(ctx, "carol")
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if feed == nil || len(feed) != 0 {
		t.Fatalf("expected empty non-nil feed, got %#v", feed)
	}

	posts := &stubPostRepo{posts: []domain.Post{
		post("a", "alice", 0),
		post("b", "bob", time.Hour),
		post("c", "alice", 2*time.Hour),
	}}
	svc := NewFeedService(posts, follows, nil, zerolog.Nop())
	feed, err = svc.Feed(ctx, "carol")
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	assertIDs(t, feed, "c", "b", "a")
}

func TestFeedService_StorageErrorPropagates(t *testing.T) {
	posts := &stubPostRepo{allErr: domain.ErrStorageCorrupt}
	svc := NewFeedService(posts, newStubFollowRepo(), nil, zerolog.Nop())

	if _, err := svc.Feed(context.Background(), "bob"); !errors.Is(err, domain.ErrStorageCorrupt) {
		t.Fatalf("expected ErrStorageCorrupt, got %v", err)
	}
}

func TestFeedService_UsesCache(t *testing.T) {
	ctx := context.Background()
	posts := &stubPostRepo{posts: []domain.Post{post("a", "alice", 0)}}
	cache := newStubFeedCache()
	svc := NewFeedService(posts, newStubFollowRepo(), cache, zerolog.Nop())

	if _, err := svc.Feed(ctx, "bob"); err != nil {
		t.Fatalf("feed: %v", err)
	}
	if _, ok := cache.cached("bob"); !ok {
		t.Fatalf("expected composed feed to be cached")
	}

	// A hit must not touch storage.
	posts.allErr = errors.New("storage should not be read")
	feed, err := svc.Feed(ctx, "bob")
	if err != nil {
		t.Fatalf("expected cache hit, got %v", err)
	}
	assertIDs(t, feed, "a")
}

func TestFeedService_CacheErrorFallsBackToStorage(t *testing.T) {
	posts := &stubPostRepo{posts: []domain.Post{post("a", "alice", 0)}}
	cache := newStubFeedCache()
	cache.getErr = errors.New("connection refused")
	svc := NewFeedService(posts, newStubFollowRepo(), cache, zerolog.Nop())

	feed, err := svc.Feed(context.Background(), "bob")
	if err != nil {
		t.Fatalf("cache failure must not fail the feed: %v", err)
	}
	assertIDs(t, feed, "a")
	if len(cache.feeds) != 0 {
		t.Fatalf("nothing must be cached after a failed read, got %v", cache.feeds)
	}
}

func TestFeedService_InvalidationDuringCompositionIsNotCached(t *testing.T) {
	ctx := context.Background()
	posts := &stubPostRepo{posts: []domain.Post{post("a", "alice", 0)}}
	cache := newStubFeedCache()
	svc := NewFeedService(posts, newStubFollowRepo(), cache, zerolog.Nop())

	// A post created by another process lands while bob's feed is composed.
	cache.afterGet = func() {
		posts.posts = append(posts.posts, post("b", "carol", time.Minute))
		_ = cache.InvalidateAll(ctx)
	}
	if _, err := svc.Feed(ctx, "bob"); err != nil {
		t.Fatalf("feed: %v", err)
	}
	if stale, ok := cache.cached("bob"); ok {
		t.Fatalf("feed composed before the invalidation must not be served, got %v", ids(stale))
	}

	cache.afterGet = nil
	feed, err := svc.Feed(ctx, "bob")
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	assertIDs(t, feed, "b", "a")
}
