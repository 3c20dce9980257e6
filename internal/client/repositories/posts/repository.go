// Package posts is the local snapshot of the feed, shown before the network
// answers.
package posts

import (
	"context"

	"github.com/beefboard/boardclient/internal/client/models"
)

// Repository stores the flat post list in server order.
//
// ReplaceAll swaps the whole snapshot. GetAll on an empty cache returns an
// empty slice. Update and Delete patch a single cached post and are no-ops
// when the id is not cached.
type Repository interface {
	ReplaceAll(ctx context.Context, posts []models.Post) error
	GetAll(ctx context.Context) ([]models.Post, error)
	Update(ctx context.Context, post models.Post) error
	Delete(ctx context.Context, id string) error
}
