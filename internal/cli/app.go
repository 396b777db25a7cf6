// Package cli is the terminal front end: an interactive menu-driven shell and
// one-shot subcommands that resume a saved session.
package cli

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/minisocial/socialnet/internal/core/ports"
)

// Sessions persists the logged-in user between one-shot commands.
type Sessions interface {
	Issue(username string) error
	Current() (string, error)
	Clear() error
}

type Deps struct {
	Auth      ports.AuthService
	Posts     ports.PostService
	Feed      ports.FeedService
	Directory ports.DirectoryService
	Sessions  Sessions
	Log       zerolog.Logger
}

type App struct {
	auth      ports.AuthService
	posts     ports.PostService
	feed      ports.FeedService
	directory ports.DirectoryService
	sessions  Sessions
	log       zerolog.Logger

	prompt *prompter
	out    io.Writer
	st     styles
}

func New(deps Deps, in io.Reader, out io.Writer) *App {
	return &App{
		auth:      deps.Auth,
		posts:     deps.Posts,
		feed:      deps.Feed,
		directory: deps.Directory,
		sessions:  deps.Sessions,
		log:       deps.Log,
		prompt:    newPrompter(in, out),
		out:       out,
		st:        newStyles(out),
	}
}
