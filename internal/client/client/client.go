package client

import (
	"context"

	"github.com/beefboard/boardclient/internal/client/models"
)

// ProgressFunc receives upload progress as a fraction in [0, 1].
type ProgressFunc func(fraction float64)

// Client is the beefboard REST API.
type Client interface {
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
	GetAuth(ctx context.Context) (*models.User, error)
	GetUser(ctx context.Context, username string) (*models.User, error)
	GetPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	Register(ctx context.Context, reg models.Registration) (bool, error)
	CreatePost(ctx context.Context, title, content string, images []models.Image, progress ProgressFunc) (string, error)
	SetPinned(ctx context.Context, id string, pinned bool) error
	DeletePost(ctx context.Context, id string) error
	FetchImage(ctx context.Context, postID string, n int) ([]byte, error)
	ImageURL(postID string, n int) string
}

// TokenStore holds the session token between calls. An empty token means
// there is none.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}
