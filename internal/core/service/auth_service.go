package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/minisocial/socialnet/internal/core/domain"
	"github.com/minisocial/socialnet/internal/core/ports"
	"github.com/minisocial/socialnet/internal/pkg/metrics"
)

// AuthService implements registration and login on top of the credential store.
type AuthService struct {
	users   ports.UserRepository
	follows ports.FollowRepository
	hasher  ports.PasswordHasher
	log     zerolog.Logger
	now     func() time.Time
}

func NewAuthService(users ports.UserRepository, follows ports.FollowRepository, hasher ports.PasswordHasher, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, follows: follows, hasher: hasher, log: log, now: time.Now}
}

func (s *AuthService) Exists(ctx context.Context, username string) (bool, error) {
	return s.users.Exists(ctx, username)
}

// Register validates the form, stores the account, and creates its empty
// follow list.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	user, err := s.register(ctx, in)
	metrics.RegistrationsTotal.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		if !isDomainError(err) {
			metrics.StorageErrorsTotal.WithLabelValues("users", "create").Inc()
			s.log.Error().Err(err).Str("username", in.Username).Msg("registration failed")
		}
		return nil, err
	}
	s.log.Info().Str("username", user.Username).Msg("user registered")
	return user, nil
}

func (s *AuthService) register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if err := checkRegisterInput(in); err != nil {
		return nil, err
	}

	exists, err := s.users.Exists(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if exists {
		return nil, domain.ErrUserExists
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	user := &domain.User{
		Username:     in.Username,
		PasswordHash: hash,
		Age:          in.Age,
		Bio:          in.Bio,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if isDomainError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	if err := s.follows.EnsureEntry(ctx, user.Username); err != nil {
		return nil, fmt.Errorf("register: follow entry: %w", err)
	}
	return user, nil
}

func checkRegisterInput(in ports.RegisterInput) error {
	switch {
	case strings.TrimSpace(in.Username) == "":
		return domain.NewValidationError("username", "is required")
	case strings.TrimSpace(in.Username) != in.Username:
		return domain.NewValidationError("username", "must not start or end with whitespace")
	case in.Password == "":
		return domain.NewValidationError("password", "is required")
	case in.Age < domain.MinRegistrationAge:
		return domain.NewValidationError("age", fmt.Sprintf("must be at least %d", domain.MinRegistrationAge))
	}
	return nil
}

// Authenticate checks password against the stored hash. Unknown usernames
// and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.authenticate(ctx, username, password)
	metrics.LoginsTotal.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			s.log.Debug().Str("username", username).Msg("authentication failed")
		} else {
			metrics.StorageErrorsTotal.WithLabelValues("users", "find").Inc()
			s.log.Error().Err(err).Str("username", username).Msg("authentication error")
		}
		return nil, err
	}
	s.log.Info().Str("username", user.Username).Msg("user logged in")
	return user, nil
}

func (s *AuthService) authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}
