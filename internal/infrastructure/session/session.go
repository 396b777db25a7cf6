package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrNoSession means no token has been saved, or it was cleared.
	ErrNoSession = errors.New("not logged in")
	// ErrInvalidSession covers expired, tampered and malformed tokens.
	ErrInvalidSession = errors.New("session expired or invalid")
	// ErrNoSecret is returned when the store was built without a signing key.
	ErrNoSecret = errors.New("SESSION_SECRET is not set")
)

// Store persists a signed HS256 token naming the logged-in user.
type Store struct {
	path   string
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewStore(path, secret string, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{path: path, secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for username and writes it with owner-only permissions.
func (s *Store) Issue(username string) error {
	if len(s.secret) == 0 {
		return ErrNoSecret
	}

	now := s.now()
	claims := jwt.MapClaims{
		"username": username,
		"iat":      now.Unix(),
		"exp":      now.Add(s.ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("session dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Current returns the username of the saved session.
func (s *Store) Current() (string, error) {
	if len(s.secret) == 0 {
		return "", ErrNoSecret
	}

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("read session: %w", err)
	}
	tokenString := strings.TrimSpace(string(raw))
	if tokenString == "" {
		return "", ErrNoSession
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !tkn.Valid {
		return "", ErrInvalidSession
	}

	username, _ := claims["username"].(string)
	if username == "" {
		return "", ErrInvalidSession
	}
	return username, nil
}

// Clear removes the saved session. Clearing an absent session is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
