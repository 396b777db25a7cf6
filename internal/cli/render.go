package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/minisocial/socialnet/internal/core/domain"
	"github.com/minisocial/socialnet/internal/core/ports"
)

const (
	ruleWidth = 60
	// displayTime matches the classic C locale date format.
	displayTime = "Mon Jan _2 15:04:05 2006"
)

// styles are bound to the renderer of the output writer so colour is only
// emitted to terminals.
type styles struct {
	heading lipgloss.Style
	author  lipgloss.Style
	when    lipgloss.Style
	index   lipgloss.Style
	ok      lipgloss.Style
	warn    lipgloss.Style
	fail    lipgloss.Style
	faint   lipgloss.Style
}

func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		author:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575")),
		when:    r.NewStyle().Foreground(lipgloss.Color("#FF5FD2")),
		index:   r.NewStyle().Foreground(lipgloss.Color("#45f")),
		ok:      r.NewStyle().Foreground(lipgloss.Color("#04B575")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("#ff8")),
		fail:    r.NewStyle().Foreground(lipgloss.Color("#FF4672")),
		faint:   r.NewStyle().Faint(true),
	}
}

func formatTime(t time.Time) string {
	return t.Local().Format(displayTime)
}

func rule(ch string) string {
	return strings.Repeat(ch, ruleWidth)
}

func (a *App) banner(title string) {
	fmt.Fprintln(a.out, rule("="))
	fmt.Fprintln(a.out, a.st.heading.Render(title))
	fmt.Fprintln(a.out, rule("="))
}

func (a *App) menu(title string, items ...string) {
	a.banner(title)
	for i, item := range items {
		fmt.Fprintf(a.out, "  %s %s\n", a.st.index.Render(fmt.Sprintf("%d.", i+1)), item)
	}
	fmt.Fprintln(a.out, rule("="))
}

func (a *App) success(format string, args ...any) {
	fmt.Fprintln(a.out, a.st.ok.Render(fmt.Sprintf(format, args...)))
}

func (a *App) warning(format string, args ...any) {
	fmt.Fprintln(a.out, a.st.warn.Render(fmt.Sprintf(format, args...)))
}

func (a *App) failure(err error) {
	fmt.Fprintln(a.out, a.st.fail.Render(Message(err)))
}

func (a *App) renderFeed(feed []domain.Post) {
	a.banner("SOCIAL FEED")
	if len(feed) == 0 {
		fmt.Fprintln(a.out, a.st.faint.Render("No posts to show yet..."))
		fmt.Fprintln(a.out, rule("="))
		return
	}
	for i, p := range feed {
		fmt.Fprintf(a.out, "   %s   |   %s\n", a.st.author.Render(p.Username), a.st.when.Render(formatTime(p.CreatedAt)))
		fmt.Fprintf(a.out, "%s %s\n", a.st.index.Render(fmt.Sprintf("%d.", i+1)), postLine(p))
		fmt.Fprintln(a.out, rule("-"))
	}
}

func (a *App) renderProfile(p *ports.Profile) {
	a.banner("PROFILE: " + p.User.Username)
	fmt.Fprintf(a.out, "Age: %d\n", p.User.Age)
	bio := p.User.Bio
	if bio == "" {
		bio = "No bio added yet."
	}
	fmt.Fprintf(a.out, "Bio: %s\n", bio)
	fmt.Fprintf(a.out, "Joined: %s\n", formatTime(p.User.CreatedAt))
	if !p.IsSelf {
		state := "not following"
		if p.Following {
			state = "following"
		}
		fmt.Fprintf(a.out, "You are %s %s\n", state, p.User.Username)
	}
	fmt.Fprintln(a.out, rule("-"))

	if len(p.RecentPosts) == 0 {
		fmt.Fprintln(a.out, "No posts yet.")
	} else {
		fmt.Fprintln(a.out, a.st.heading.Render("Recent Posts:"))
		for i, post := range p.RecentPosts {
			fmt.Fprintf(a.out, "%d. %s (Posted on: %s)\n", i+1, postLine(post), formatTime(post.CreatedAt))
		}
	}
	fmt.Fprintln(a.out, rule("-"))
}

func postLine(p domain.Post) string {
	if p.Title == "" {
		return p.Content
	}
	return p.Title + " - " + p.Content
}
