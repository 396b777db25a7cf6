package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/minisocial/socialnet/internal/core/domain"
	"github.com/minisocial/socialnet/internal/core/ports"
)

func newAuthSvc(users *stubUserRepo, follows *stubFollowRepo) *AuthService {
	return NewAuthService(users, follows, stubHasher{}, zerolog.Nop())
}

func TestAuthService_Register_Success(t *testing.T) {
	users, follows := newStubUserRepo(), newStubFollowRepo()
	svc := newAuthSvc(users, follows)
	svc.now = func() time.Time { return time.Date(2025, 9, 10, 14, 32, 1, 0, time.UTC) }

	user, err := svc.Register(context.Background(), ports.RegisterInput{Username: "alice", Password: "pass123", Age: 20, Bio: "hi"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.PasswordHash != "hashed:pass123" {
		t.Fatalf("expected password to be hashed, got %q", user.PasswordHash)
	}
	if !user.CreatedAt.Equal(time.Date(2025, 9, 10, 14, 32, 1, 0, time.UTC)) {
		t.Fatalf("unexpected created_at: %v", user.CreatedAt)
	}
	if len(users.users) != 1 {
		t.Fatalf("expected one stored user, got %d", len(users.users))
	}
	if list, ok := follows.graph["alice"]; !ok || len(list) != 0 {
		t.Fatalf("expected empty follow entry for alice, got %v (present=%v)", list, ok)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo(), newStubFollowRepo())

	cases := []struct {
		name  string
		in    ports.RegisterInput
		field string
	}{
		{"empty username", ports.RegisterInput{Password: "p", Age: 20}, "username"},
		{"padded username", ports.RegisterInput{Username: " bob ", Password: "p", Age: 20}, "username"},
		{"empty password", ports.RegisterInput{Username: "bob", Age: 20}, "password"},
		{"zero age", ports.RegisterInput{Username: "bob", Password: "p"}, "age"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.in)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) || ve.Field != tc.field {
				t.Fatalf("expected ValidationError on %s, got %v", tc.field, err)
			}
		})
	}
}

// Registering an existing username is rejected before anything is persisted.
func TestAuthService_Register_Duplicate(t *testing.T) {
	users := newStubUserRepo()
	svc := newAuthSvc(users, newStubFollowRepo())
	ctx := context.Background()

	_, _ = svc.Register(ctx, ports.RegisterInput{Username: "bob", Password: "pass", Age: 25})
	if _, err := svc.Register(ctx, ports.RegisterInput{Username: "bob", Password: "pass2", Age: 30}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if len(users.users) != 1 {
		t.Fatalf("expected one stored bob, got %d users", len(users.users))
	}
}

func TestAuthService_Register_StorageFailure(t *testing.T) {
	users := newStubUserRepo()
	users.createErr = errors.New("disk full")
	follows := newStubFollowRepo()
	svc := newAuthSvc(users, follows)

	_, err := svc.Register(context.Background(), ports.RegisterInput{Username: "dave", Password: "p", Age: 40})
	if err == nil || errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected wrapped storage error, got %v", err)
	}
	if _, ok := follows.graph["dave"]; ok {
		t.Fatalf("follow entry must not be created when the user was not stored")
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo(), newStubFollowRepo())
	ctx := context.Background()
	if _, err := svc.Register(ctx, ports.RegisterInput{Username: "carol", Password: "s3cret", Age: 33}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, err := svc.Authenticate(ctx, "carol", "s3cret")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if user.Username != "carol" {
		t.Fatalf("unexpected user: %+v", user)
	}

	for _, pw := range []string{"s3cres", "S3cret", "s3cret ", ""} {
		if _, err := svc.Authenticate(ctx, "carol", pw); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("password %q: expected ErrInvalidCredentials, got %v", pw, err)
		}
	}
}

func TestAuthService_Authenticate_UnknownUserLooksLikeBadPassword(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo(), newStubFollowRepo())
	if _, err := svc.Authenticate(context.Background(), "ghost", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Authenticate_StorageError(t *testing.T) {
	users := newStubUserRepo()
	users.findErr = domain.ErrStorageCorrupt
	svc := newAuthSvc(users, newStubFollowRepo())

	_, err := svc.Authenticate(context.Background(), "alice", "pass")
	if !errors.Is(err, domain.ErrStorageCorrupt) {
		t.Fatalf("expected storage error to propagate, got %v", err)
	}
}
