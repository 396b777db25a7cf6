package jsonfile

import (
	"context"
	"slices"

	"github.com/minisocial/socialnet/internal/core/domain"
)

// FollowStore implements ports.FollowRepository on followers.json, an object
// mapping each username to the list of usernames it follows.
type FollowStore struct {
	doc *document
}

func NewFollowStore(dir string) *FollowStore {
	return &FollowStore{doc: newDocument(dir, FollowersFile)}
}

func (s *FollowStore) load() (map[string]domain.Following, error) {
	graph := make(map[string]domain.Following)
	if _, err := s.doc.load(&graph); err != nil {
		return nil, err
	}
	// A literal null document decodes to a nil map.
	if graph == nil {
		graph = make(map[string]domain.Following)
	}
	return graph, nil
}

func (s *FollowStore) EnsureEntry(_ context.Context, username string) error {
	s.doc.mu.Lock()
	defer s.doc.mu.Unlock()

	graph, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := graph[username]; ok {
		return nil
	}
	graph[username] = domain.Following{}
	return s.doc.save(graph)
}

func (s *FollowStore) Follow(_ context.Context, follower, target string) error {
	if err := domain.CheckFollowTarget(follower, target); err != nil {
		return err
	}

	s.doc.mu.Lock()
	defer s.doc.mu.Unlock()

	graph, err := s.load()
	if err != nil {
		return err
	}
	next, err := graph[follower].Add(follower, target)
	if err != nil {
		return err
	}
	graph[follower] = next
	return s.doc.save(graph)
}

func (s *FollowStore) Unfollow(_ context.Context, follower, target string) error {
	s.doc.mu.Lock()
	defer s.doc.mu.Unlock()

	graph, err := s.load()
	if err != nil {
		return err
	}
	next, err := graph[follower].Remove(target)
	if err != nil {
		return err
	}
	graph[follower] = next
	return s.doc.save(graph)
}

func (s *FollowStore) IsFollowing(_ context.Context, follower, target string) (bool, error) {
	s.doc.mu.Lock()
	defer s.doc.mu.Unlock()

	graph, err := s.load()
	if err != nil {
		return false, err
	}
	return graph[follower].Contains(target), nil
}

func (s *FollowStore) FollowedBy(_ context.Context, username string) ([]string, error) {
	s.doc.mu.Lock()
	defer s.doc.mu.Unlock()

	graph, err := s.load()
	if err != nil {
		return nil, err
	}
	out := slices.Clone(graph[username])
	if out == nil {
		out = []string{}
	}
	return out, nil
}
