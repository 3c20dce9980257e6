package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/beefboard/boardclient/internal/client/client"
	"github.com/beefboard/boardclient/internal/client/models"
	"github.com/beefboard/boardclient/internal/client/services"
)

func (a *App) onAuth(ev services.AuthEvent) {
	switch {
	case ev.Kind == services.AuthFailed:
		a.log.Debug(context.Background(), "auth event", "error", ev.Err)
	case ev.Provisional:
		if ev.User != nil {
			fmt.Fprintf(a.out, "Welcome back, %s. Checking your session...\n", ev.User.Username)
		}
	case ev.State == services.AuthLoggedIn:
		fmt.Fprintf(a.out, "Logged in as %s (%s).\n", ev.User.Username, ev.User.FullName())
	case ev.State == services.AuthLoggedOut:
		fmt.Fprintln(a.out, "Logged out.")
	}
}

func (a *App) onPosts(ev services.PostsEvent) {
	switch ev.Kind {
	case services.FeedReceived:
		a.setFeed(ev.Feed)
		printFeed(a.out, ev.Feed, ev.FromCache)
	case services.CreateProgress:
		if step := int(ev.Progress * 4); a.advanceProgress(step) {
			fmt.Fprintf(a.out, "Uploading... %d%%\n", step*25)
		}
	case services.PostCreated:
		fmt.Fprintf(a.out, "Created post %q (%s).\n", ev.Post.Title, ev.Post.ID)
	case services.PinChanged:
		if ev.Pinned {
			fmt.Fprintf(a.out, "Pinned %s.\n", ev.ID)
		} else {
			fmt.Fprintf(a.out, "Unpinned %s.\n", ev.ID)
		}
	case services.PostDeleted:
		fmt.Fprintf(a.out, "Deleted %s.\n", ev.ID)
	default:
		// failures reach the user through the command's error
		a.log.Debug(context.Background(), "posts event", "kind", ev.Kind.String(), "error", ev.Err)
	}
}

func (a *App) resetProgress() {
	a.mu.Lock()
	a.progress = -1
	a.mu.Unlock()
}

// advanceProgress reports whether step is new.
func (a *App) advanceProgress(step int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if step <= a.progress {
		return false
	}
	a.progress = step
	return true
}

func printFeed(w io.Writer, f models.Feed, fromCache bool) {
	title := "Feed"
	if fromCache {
		title += " (cached)"
	}
	fmt.Fprintf(w, "== %s: %d posts ==\n", title, f.Len())

	n := 0
	section := func(name string, posts []models.Post) {
		if len(posts) == 0 {
			return
		}
		fmt.Fprintln(w, name)
		for _, p := range posts {
			n++
			fmt.Fprintf(w, "%3d. %s\n", n, formatPost(p))
		}
	}
	section("Pinned:", f.Pinned)
	section("Latest:", f.Regular)
}

func formatPost(p models.Post) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  by %s, %s [%s]", p.Title, p.Author, p.CreatedAt.Local().Format("2006-01-02 15:04"), p.ID)
	fmt.Fprintf(&b, " votes %+d", p.Votes.Grade)
	if p.Votes.UserGrade != nil {
		fmt.Fprintf(&b, " (you %+d)", *p.Votes.UserGrade)
	}
	if p.ImageCount > 0 {
		fmt.Fprintf(&b, ", %d image(s)", p.ImageCount)
	}
	if !p.Approved {
		b.WriteString(", awaiting approval")
	}
	return b.String()
}

func printUser(w io.Writer, u *models.User) {
	role := "member"
	if u.Admin {
		role = "admin"
	}
	fmt.Fprintf(w, "%s (%s), %s, %s\n", u.Username, u.FullName(), u.Email, role)
}

// describe turns err into a message for the user.
func describe(err error) string {
	if errors.Is(err, services.ErrRegistrationRejected) {
		return "That username is already taken"
	}

	var problems []string
	for _, e := range []error{models.ErrMissingUsername, models.ErrMissingPassword, models.ErrInvalidEmail} {
		if errors.Is(err, e) {
			problems = append(problems, e.Error())
		}
	}
	if len(problems) > 0 {
		return strings.Join(problems, "; ")
	}
	return client.Describe(err)
}
