package jsonfile

import (
	"context"
	"errors"
	"time"

	"github.com/minisocial/socialnet/internal/core/domain"
	"github.com/minisocial/socialnet/internal/pkg/validate"
)

// UserStore implements ports.UserRepository on users.json.
type UserStore struct {
	doc *document
}

func NewUserStore(dir string) *UserStore {
	return &UserStore{doc: newDocument(dir, UsersFile)}
}

type userRecord struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	Password     string    `json:"password,omitempty"` // legacy key, read only
	Age          int       `json:"age"`
	Bio          string    `json:"bio"`
	CreatedAt    timestamp `json:"created_at"`
}

func toUserRecord(u *domain.User) userRecord {
	return userRecord{
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Age:          u.Age,
		Bio:          u.Bio,
		CreatedAt:    timestamp(u.CreatedAt),
	}
}

func (r userRecord) toDomain() *domain.User {
	hash := r.PasswordHash
	if hash == "" {
		hash = r.Password
	}
	return &domain.User{
		Username:     r.Username,
		PasswordHash: hash,
		Age:          r.Age,
		Bio:          r.Bio,
		CreatedAt:    time.Time(r.CreatedAt),
	}
}

// load must be called with doc.mu held.
func (s *UserStore) load() ([]userRecord, error) {
	var records []userRecord
	if _, err := s.doc.load(&records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *UserStore) Exists(ctx context.Context, username string) (bool, error) {
	_, err := s.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrUserNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (s *UserStore) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	s.doc.mu.Lock()
	defer s.doc.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if r.Username == username {
			return r.toDomain(), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *UserStore) Create(_ context.Context, user *domain.User) error {
	if err := validate.Struct(user); err != nil {
		return err
	}

	s.doc.mu.Lock()
	defer s.doc.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	for _, r := range records {
		if r.Username == user.Username {
			return domain.ErrUserExists
		}
	}

	// Rewrite legacy records under the current key.
	out := make([]userRecord, 0, len(records)+1)
	for _, r := range records {
		out = append(out, toUserRecord(r.toDomain()))
	}
	out = append(out, toUserRecord(user))
	return s.doc.save(out)
}
