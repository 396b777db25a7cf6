package cli

import (
	"errors"
	"strings"

	"github.com/minisocial/socialnet/internal/core/domain"
	"github.com/minisocial/socialnet/internal/infrastructure/session"
)

// ErrUsage is returned for an unknown command or bad flags.
var ErrUsage = errors.New("usage error")

// Message turns an error from the services into a line fit for the user.
func Message(err error) string {
	var ve *domain.ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return capitalize(ve.Error()) + "."
	case errors.Is(err, domain.ErrUserExists):
		return "Username already exists."
	case errors.Is(err, domain.ErrUserNotFound):
		return "User not found."
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "Login failed! Wrong username or password."
	case errors.Is(err, domain.ErrSelfFollow):
		return "You can't follow yourself."
	case errors.Is(err, domain.ErrAlreadyFollowing):
		return "Already following this user."
	case errors.Is(err, domain.ErrNotFollowing):
		return "You are not following this user."
	case errors.Is(err, domain.ErrStorageCorrupt):
		return "Stored data could not be read; nothing was changed."
	case errors.Is(err, session.ErrNoSession):
		return "Not logged in. Run `socialnet login -username <name>` first."
	case errors.Is(err, session.ErrInvalidSession):
		return "Your session has expired or is invalid. Log in again."
	case errors.Is(err, session.ErrNoSecret):
		return "SESSION_SECRET must be set to use one-shot commands."
	case errors.Is(err, ErrUsage):
		return err.Error()
	default:
		return "Something went wrong: " + err.Error()
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
