package jsonfile

import (
	"context"
	"time"

	"github.com/minisocial/socialnet/internal/core/domain"
	"github.com/minisocial/socialnet/internal/pkg/validate"
)

// PostStore implements ports.PostRepository on posts.json.
type PostStore struct {
	doc *document
}

func NewPostStore(dir string) *PostStore {
	return &PostStore{doc: newDocument(dir, PostsFile)}
}

type postRecord struct {
	ID        string    `json:"id,omitempty"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Username  string    `json:"username"`
	CreatedAt timestamp `json:"created_at"`
}

func (r postRecord) toDomain() domain.Post {
	return domain.Post{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		Username:  r.Username,
		CreatedAt: time.Time(r.CreatedAt),
	}
}

func (s *PostStore) load() ([]postRecord, error) {
	var records []postRecord
	if _, err := s.doc.load(&records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *PostStore) Append(_ context.Context, post *domain.Post) error {
	if err := validate.Struct(post); err != nil {
		return err
	}

	s.doc.mu.Lock()
	defer s.doc.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	records = append(records, postRecord{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		Username:  post.Username,
		CreatedAt: timestamp(post.CreatedAt),
	})
	return s.doc.save(records)
}

func (s *PostStore) All(_ context.Context) ([]domain.Post, error) {
	s.doc.mu.Lock()
	defer s.doc.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}
	posts := make([]domain.Post, len(records))
	for i, r := range records {
		posts[i] = r.toDomain()
	}
	return posts, nil
}

func (s *PostStore) ByAuthor(ctx context.Context, username string) ([]domain.Post, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	posts := make([]domain.Post, 0)
	for _, p := range all {
		if p.Username == username {
			posts = append(posts, p)
		}
	}
	return posts, nil
}
