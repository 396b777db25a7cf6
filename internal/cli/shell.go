package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/minisocial/socialnet/internal/core/domain"
	"github.com/minisocial/socialnet/internal/core/ports"
)

// errQuit ends the shell cleanly; it is returned when input runs out.
var errQuit = errors.New("quit")

// Shell runs the interactive menu until the user exits or input ends.
func (a *App) Shell(ctx context.Context) error {
	a.banner("WELCOME TO MINI SOCIAL NETWORK")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		a.menu("MINI SOCIAL NETWORK", "Register", "Login", "Exit")
		choice, err := a.choice("Enter your choice: ", 3)
		if err != nil {
			return quiet(err)
		}

		var user *domain.User
		switch choice {
		case 1:
			user, err = a.registerFlow(ctx)
		case 2:
			user, err = a.loginFlow(ctx)
		case 3:
			fmt.Fprintln(a.out, "Thanks for using MINI SOCIAL NETWORK! Goodbye!")
			return nil
		}
		if err != nil {
			return quiet(err)
		}
		if user == nil {
			continue
		}
		if err := a.mainMenu(ctx, user); err != nil {
			return quiet(err)
		}
	}
}

func quiet(err error) error {
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

// choice reads a menu selection in [1, max], re-prompting on bad input.
func (a *App) choice(label string, max int) (int, error) {
	for {
		s, err := a.ask(label)
		if err != nil {
			return 0, err
		}
		n, convErr := strconv.Atoi(s)
		switch {
		case convErr != nil:
			a.warning("Invalid input! Please enter a number.")
		case n < 1 || n > max:
			a.warning("Please enter a number between 1 and %d!", max)
		default:
			return n, nil
		}
	}
}

// ask is prompter.trimmed with end of input mapped to errQuit.
func (a *App) ask(label string) (string, error) {
	s, err := a.prompt.trimmed(label)
	if errors.Is(err, io.EOF) {
		return "", errQuit
	}
	return s, err
}

func (a *App) askPassword(label string) (string, error) {
	s, err := a.prompt.password(label)
	if errors.Is(err, io.EOF) {
		return "", errQuit
	}
	return s, err
}

// registerFlow collects the registration form. A nil user with a nil error
// means the attempt failed and was reported.
func (a *App) registerFlow(ctx context.Context) (*domain.User, error) {
	a.banner("Registration")

	username, err := a.ask("Enter your username for the account: ")
	if err != nil {
		return nil, err
	}
	for {
		if username == "" {
			username, err = a.ask("Username is required. Please enter a username: ")
			if err != nil {
				return nil, err
			}
			continue
		}
		taken, err := a.auth.Exists(ctx, username)
		if err != nil {
			a.failure(err)
			return nil, nil
		}
		if !taken {
			break
		}
		username, err = a.ask("Username already exists. Please enter another username: ")
		if err != nil {
			return nil, err
		}
	}

	var password string
	for {
		password, err = a.askPassword("Please enter your password for the account: ")
		if err != nil {
			return nil, err
		}
		confirm, err := a.askPassword("Confirm your password: ")
		if err != nil {
			return nil, err
		}
		if password == "" {
			a.warning("Password must not be empty!")
			continue
		}
		if password != confirm {
			a.warning("Passwords do not match!")
			continue
		}
		break
	}
	a.success("Password created successfully!")

	var age int
	for {
		s, err := a.ask("Please enter your age: ")
		if err != nil {
			return nil, err
		}
		n, convErr := strconv.Atoi(s)
		if convErr != nil {
			a.warning("Enter a valid age")
			continue
		}
		if n < domain.MinRegistrationAge {
			a.warning("Age must be greater than 0")
			continue
		}
		age = n
		break
	}

	bio, err := a.ask("Please enter your bio (press Enter to skip): ")
	if err != nil {
		return nil, err
	}

	user, err := a.auth.Register(ctx, ports.RegisterInput{Username: username, Password: password, Age: age, Bio: bio})
	if err != nil {
		a.failure(err)
		return nil, nil
	}
	a.success("Your account was created successfully! (%s)", formatTime(user.CreatedAt))
	return user, nil
}

func (a *App) loginFlow(ctx context.Context) (*domain.User, error) {
	a.banner("Login")

	username, err := a.ask("Please enter your username for login: ")
	if err != nil {
		return nil, err
	}
	password, err := a.askPassword("Please enter your password for login: ")
	if err != nil {
		return nil, err
	}

	user, err := a.auth.Authenticate(ctx, username, password)
	if err != nil {
		a.failure(err)
		return nil, nil
	}
	a.success("Login successful")
	return user, nil
}

func (a *App) mainMenu(ctx context.Context, user *domain.User) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		a.menu("MAIN MENU", "View Feed", "Create Post", "Search User", "View Profile", "Logout")
		choice, err := a.choice("Enter your choice: ", 5)
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			feed, err := a.feed.Feed(ctx, user.Username)
			if err != nil {
				a.failure(err)
				continue
			}
			a.renderFeed(feed)
		case 2:
			err = a.createPostFlow(ctx, user.Username)
		case 3:
			err = a.searchFlow(ctx, user.Username)
		case 4:
			err = a.profileFlow(ctx, user.Username, user.Username)
		case 5:
			fmt.Fprintln(a.out, "Logging out...")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (a *App) createPostFlow(ctx context.Context, username string) error {
	a.banner("Create a New Post")

	title, err := a.ask("Title: ")
	if err != nil {
		return err
	}
	content, err := a.ask("Content: ")
	if err != nil {
		return err
	}

	if _, err := a.posts.Create(ctx, ports.CreatePostInput{Username: username, Title: title, Content: content}); err != nil {
		a.failure(err)
		return nil
	}
	a.success("Post created successfully!")
	return nil
}

func (a *App) searchFlow(ctx context.Context, viewer string) error {
	a.banner("Search for a User")

	name, err := a.ask("Enter the username to search: ")
	if err != nil {
		return err
	}
	if _, err := a.directory.Search(ctx, name); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			a.warning("User not found, try again")
			return nil
		}
		a.failure(err)
		return nil
	}
	a.success("User found!")
	return a.profileFlow(ctx, viewer, name)
}

// profileFlow shows username's profile to viewer and, for someone else's
// profile, offers to toggle the follow state.
func (a *App) profileFlow(ctx context.Context, viewer, username string) error {
	profile, err := a.directory.Profile(ctx, viewer, username)
	if err != nil {
		a.failure(err)
		return nil
	}
	a.renderProfile(profile)

	if profile.IsSelf {
		_, err := a.ask("Press Enter to go back...")
		return err
	}

	action := "Follow"
	if profile.Following {
		action = "Unfollow"
	}
	fmt.Fprintf(a.out, "[1] %s this user\n[0] Go Back\n", action)
	s, err := a.ask("Enter your choice (1 or 0): ")
	if err != nil {
		return err
	}
	if s != "1" {
		return nil
	}

	following, err := a.directory.ToggleFollow(ctx, viewer, username)
	if err != nil {
		a.failure(err)
		return nil
	}
	if following {
		a.success("You have followed %s", username)
	} else {
		a.success("You have unfollowed %s", username)
	}
	return nil
}
