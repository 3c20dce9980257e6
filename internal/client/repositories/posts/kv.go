package posts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/beefboard/boardclient/internal/client/models"
	"github.com/beefboard/boardclient/internal/client/repositories/metadata"
)

// SnapshotKey is the key the whole post list is stored under.
const SnapshotKey = "posts"

// KVRepository stores the snapshot as a single JSON document in a
// key/value repository.
type KVRepository struct {
	kv metadata.Repository
}

func NewKVRepository(kv metadata.Repository) *KVRepository {
	return &KVRepository{kv: kv}
}

func (r *KVRepository) ReplaceAll(ctx context.Context, posts []models.Post) error {
	if posts == nil {
		posts = []models.Post{}
	}
	b, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("failed to encode posts: %w", err)
	}
	if err := r.kv.Set(ctx, SnapshotKey, b); err != nil {
		return fmt.Errorf("failed to replace posts: %w", err)
	}
	return nil
}

func (r *KVRepository) GetAll(ctx context.Context) ([]models.Post, error) {
	b, err := r.kv.Get(ctx, SnapshotKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get posts: %w", err)
	}
	out := []models.Post{}
	if len(b) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}
	return out, nil
}

func (r *KVRepository) Update(ctx context.Context, post models.Post) error {
	return r.modify(ctx, func(posts []models.Post) []models.Post {
		for i := range posts {
			if posts[i].ID == post.ID {
				posts[i] = post
			}
		}
		return posts
	})
}

func (r *KVRepository) Delete(ctx context.Context, id string) error {
	return r.modify(ctx, func(posts []models.Post) []models.Post {
		kept := posts[:0]
		for _, p := range posts {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		return kept
	})
}

// modify is a read-modify-write without locking; concurrent writers are
// last-write-wins.
func (r *KVRepository) modify(ctx context.Context, fn func([]models.Post) []models.Post) error {
	posts, err := r.GetAll(ctx)
	if err != nil {
		return err
	}
	return r.ReplaceAll(ctx, fn(posts))
}
