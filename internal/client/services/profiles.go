package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/beefboard/boardclient/internal/client/client"
	"github.com/beefboard/boardclient/internal/client/models"
)

var errEmptyUsername = errors.New("username is empty")

// ProfileLookup resolves public account details.
type ProfileLookup struct {
	client client.Client
}

func NewProfileLookup(c client.Client) *ProfileLookup {
	return &ProfileLookup{client: c}
}

// Fetch returns the account, or (nil, nil) if the server does not know it.
func (l *ProfileLookup) Fetch(ctx context.Context, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: %w", client.ErrInvalidRequest, errEmptyUsername)
	}

	u, err := l.client.GetUser(ctx, username)
	if errors.Is(err, client.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// IsUsernameAvailable reports whether no account uses the name yet.
func (l *ProfileLookup) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	u, err := l.Fetch(ctx, username)
	if err != nil {
		return false, err
	}
	return u == nil, nil
}
