package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/beefboard/boardclient/internal/client/models"
)

func (a *App) Feed(ctx context.Context) error {
	_, err := a.posts.RefreshFeed(ctx, false)
	return err
}

func (a *App) Refresh(ctx context.Context) error {
	_, err := a.posts.RefreshFeed(ctx, true)
	return err
}

// Post asks for the body and optional image paths, then uploads the post.
func (a *App) Post(ctx context.Context, title string) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "You need to log in first.")
		return nil
	}

	content, err := GetMultiline(a.lines, "Content")
	if err != nil {
		return err
	}
	paths, err := GetList(a.lines, "Image paths (comma separated, optional)")
	if err != nil {
		return err
	}

	images := make([]models.Image, 0, len(paths))
	for _, p := range paths {
		img, err := models.LoadImage(p)
		if err != nil {
			return err
		}
		images = append(images, img)
	}

	a.resetProgress()
	_, err = a.posts.CreatePost(ctx, title, content, images)
	return err
}

func (a *App) SetPinned(ctx context.Context, ref string, pinned bool) error {
	return a.posts.SetPinned(ctx, a.resolve(ref), pinned)
}

func (a *App) Delete(ctx context.Context, ref string) error {
	return a.posts.DeletePost(ctx, a.resolve(ref))
}

// resolve accepts a post id or the 1-based number shown in the last feed.
func (a *App) resolve(ref string) string {
	feed := a.lastFeed()
	if _, ok := feed.Find(ref); ok {
		return ref
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if all := feed.All(); n >= 1 && n <= len(all) {
			return all[n-1].ID
		}
	}
	return ref
}

func (a *App) User(ctx context.Context, username string) error {
	u, err := a.profiles.Fetch(ctx, username)
	if err != nil {
		return err
	}
	if u == nil {
		fmt.Fprintf(a.out, "No such user: %s\n", username)
		return nil
	}
	printUser(a.out, u)
	return nil
}

// Register walks through the signup form. The username is checked for
// availability before the rest is asked for.
func (a *App) Register(ctx context.Context) error {
	var reg models.Registration
	var err error

	if reg.Username, err = GetSimpleText(a.lines, "Username"); err != nil {
		return err
	}
	if reg.Username != "" {
		free, err := a.profiles.IsUsernameAvailable(ctx, reg.Username)
		if err != nil {
			return err
		}
		if !free {
			fmt.Fprintf(a.out, "Username %s is already taken.\n", reg.Username)
			return nil
		}
	}

	pw, err := GetPassword(a.lines, "Password")
	if err != nil {
		return err
	}
	defer wipe(pw)
	reg.Password = string(pw)

	if reg.Email, err = GetSimpleText(a.lines, "Email"); err != nil {
		return err
	}
	if reg.FirstName, err = GetSimpleText(a.lines, "First name"); err != nil {
		return err
	}
	if reg.LastName, err = GetSimpleText(a.lines, "Last name"); err != nil {
		return err
	}

	if err := a.registration.Register(ctx, reg); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Account created. Type 'login' to sign in.")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	username, err := GetSimpleText(a.lines, "Username")
	if err != nil {
		return err
	}
	pw, err := GetPassword(a.lines, "Password")
	if err != nil {
		return err
	}
	defer wipe(pw)

	return a.auth.Login(ctx, username, string(pw))
}

func (a *App) Logout(ctx context.Context) error {
	a.auth.Logout(ctx)
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	state, u := a.auth.Current()
	if u == nil {
		fmt.Fprintf(a.out, "Not logged in (%s).\n", state)
		return nil
	}
	printUser(a.out, u)
	if exp, ok := a.store.TokenExpiry(ctx); ok {
		fmt.Fprintf(a.out, "Session expires %s\n", exp.Local().Format("2006-01-02 15:04"))
	}
	return nil
}
