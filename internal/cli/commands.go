package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/minisocial/socialnet/internal/core/domain"
	"github.com/minisocial/socialnet/internal/core/ports"
	"github.com/minisocial/socialnet/internal/infrastructure/session"
)

const usage = `usage: socialnet [command] [flags]

commands:
  shell                          interactive menu (default)
  register -username U [-age N] [-bio B]
  login    -username U
  logout
  feed
  post     -content C [-title T]
  search   USERNAME
  profile  [USERNAME]
  follow   USERNAME
  unfollow USERNAME`

// IsShell reports whether args select the interactive shell.
func IsShell(args []string) bool {
	return len(args) == 0 || args[0] == "shell"
}

// Run dispatches args (without the program name).
func (a *App) Run(ctx context.Context, args []string) error {
	if IsShell(args) {
		return a.Shell(ctx)
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "register":
		return a.cmdRegister(ctx, rest)
	case "login":
		return a.cmdLogin(ctx, rest)
	case "logout":
		return a.cmdLogout()
	case "feed":
		return a.cmdFeed(ctx)
	case "post":
		return a.cmdPost(ctx, rest)
	case "search":
		return a.cmdSearch(ctx, rest)
	case "profile":
		return a.cmdProfile(ctx, rest)
	case "follow", "unfollow":
		return a.cmdFollow(ctx, cmd, rest)
	case "help", "-h", "-help", "--help":
		fmt.Fprintln(a.out, usage)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q\n%s", ErrUsage, cmd, usage)
	}
}

func (a *App) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUsage, fs.Name(), err)
	}
	return nil
}

// oneArg returns the single positional argument of fs.
func oneArg(fs *flag.FlagSet) (string, error) {
	if fs.NArg() != 1 {
		return "", fmt.Errorf("%w: %s expects exactly one USERNAME", ErrUsage, fs.Name())
	}
	return strings.TrimSpace(fs.Arg(0)), nil
}

// currentUser resumes the saved session and checks the account still exists.
func (a *App) currentUser(ctx context.Context) (string, error) {
	username, err := a.sessions.Current()
	if err != nil {
		return "", err
	}
	ok, err := a.auth.Exists(ctx, username)
	if err != nil {
		return "", err
	}
	if !ok {
		a.log.Warn().Str("username", username).Msg("session names an unknown user")
		return "", session.ErrInvalidSession
	}
	return username, nil
}

func (a *App) cmdRegister(ctx context.Context, args []string) error {
	fs := a.flags("register")
	username := fs.String("username", "", "account name")
	age := fs.Int("age", 0, "age in years")
	bio := fs.String("bio", "", "optional bio")
	if err := parse(fs, args); err != nil {
		return err
	}

	password, err := a.prompt.password("Password: ")
	if err != nil {
		return err
	}
	confirm, err := a.prompt.password("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return domain.NewValidationError("password", "confirmation does not match")
	}

	user, err := a.auth.Register(ctx, ports.RegisterInput{
		Username: strings.TrimSpace(*username),
		Password: password,
		Age:      *age,
		Bio:      *bio,
	})
	if err != nil {
		return err
	}
	a.success("Account %s created (%s)", user.Username, formatTime(user.CreatedAt))
	return nil
}

func (a *App) cmdLogin(ctx context.Context, args []string) error {
	fs := a.flags("login")
	username := fs.String("username", "", "account name")
	if err := parse(fs, args); err != nil {
		return err
	}

	password, err := a.prompt.password("Password: ")
	if err != nil {
		return err
	}
	user, err := a.auth.Authenticate(ctx, strings.TrimSpace(*username), password)
	if err != nil {
		return err
	}
	if err := a.sessions.Issue(user.Username); err != nil {
		return err
	}
	a.success("Logged in as %s", user.Username)
	return nil
}

func (a *App) cmdLogout() error {
	if err := a.sessions.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) cmdFeed(ctx context.Context) error {
	viewer, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	feed, err := a.feed.Feed(ctx, viewer)
	if err != nil {
		return err
	}
	a.renderFeed(feed)
	return nil
}

func (a *App) cmdPost(ctx context.Context, args []string) error {
	fs := a.flags("post")
	title := fs.String("title", "", "optional title")
	content := fs.String("content", "", "post body")
	if err := parse(fs, args); err != nil {
		return err
	}

	viewer, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	post, err := a.posts.Create(ctx, ports.CreatePostInput{Username: viewer, Title: *title, Content: *content})
	if err != nil {
		return err
	}
	a.success("Post %s created", post.ID)
	return nil
}

func (a *App) cmdSearch(ctx context.Context, args []string) error {
	fs := a.flags("search")
	if err := parse(fs, args); err != nil {
		return err
	}
	name, err := oneArg(fs)
	if err != nil {
		return err
	}

	viewer, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	if _, err := a.directory.Search(ctx, name); err != nil {
		return err
	}
	a.success("User found!")
	return a.showProfile(ctx, viewer, name)
}

func (a *App) cmdProfile(ctx context.Context, args []string) error {
	fs := a.flags("profile")
	if err := parse(fs, args); err != nil {
		return err
	}

	viewer, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	name := viewer
	if fs.NArg() > 0 {
		if name, err = oneArg(fs); err != nil {
			return err
		}
	}
	return a.showProfile(ctx, viewer, name)
}

func (a *App) showProfile(ctx context.Context, viewer, name string) error {
	profile, err := a.directory.Profile(ctx, viewer, name)
	if err != nil {
		return err
	}
	a.renderProfile(profile)
	return nil
}

func (a *App) cmdFollow(ctx context.Context, action string, args []string) error {
	fs := a.flags(action)
	if err := parse(fs, args); err != nil {
		return err
	}
	target, err := oneArg(fs)
	if err != nil {
		return err
	}

	viewer, err := a.currentUser(ctx)
	if err != nil {
		return err
	}

	if action == "follow" {
		err = a.directory.Follow(ctx, viewer, target)
	} else {
		err = a.directory.Unfollow(ctx, viewer, target)
	}
	if err != nil {
		return err
	}
	a.success("You have %sed %s", action, target)
	return nil
}

// IsUsage reports whether err came from bad command-line input.
func IsUsage(err error) bool {
	return errors.Is(err, ErrUsage)
}
