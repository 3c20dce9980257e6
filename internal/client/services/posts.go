package services

import (
	"context"
	"errors"

	"golang.org/x/sync/singleflight"

	"github.com/beefboard/boardclient/internal/client/client"
	"github.com/beefboard/boardclient/internal/client/models"
	"github.com/beefboard/boardclient/internal/client/repositories/posts"
	"github.com/beefboard/boardclient/internal/events"
	"github.com/beefboard/boardclient/internal/logging"
)

// PostsCoordinator keeps the local feed cache in step with the server and
// publishes PostsEvent values. For any single call the cached feed is
// published before the network result.
type PostsCoordinator struct {
	client  client.Client
	cache   posts.Repository
	log     logging.Logger
	events  *events.Broker[PostsEvent]
	group   singleflight.Group
	session SessionInvalidator
}

// NewPostsCoordinator wires the coordinator. session may be nil; when set it
// is invalidated whenever the server rejects the credentials.
func NewPostsCoordinator(c client.Client, cache posts.Repository, session SessionInvalidator, log logging.Logger) *PostsCoordinator {
	if log == nil {
		log = logging.Nop()
	}
	return &PostsCoordinator{
		client:  c,
		cache:   cache,
		log:     log.With("component", "posts"),
		events:  events.NewBroker[PostsEvent](log),
		session: session,
	}
}

func (p *PostsCoordinator) Subscribe(fn func(PostsEvent)) *events.Subscription {
	return p.events.Subscribe(fn)
}

// RefreshFeed publishes the cached feed (unless excludingCache is set or the
// cache is empty), then fetches the feed from the server, replaces the cache
// and publishes the fresh feed. Concurrent refreshes share one request.
// On failure FeedFailed is published and the cache is left alone.
func (p *PostsCoordinator) RefreshFeed(ctx context.Context, excludingCache bool) (models.Feed, error) {
	if !excludingCache {
		if cached := p.cached(ctx); len(cached) > 0 {
			p.events.Publish(PostsEvent{Kind: FeedReceived, Feed: models.Partition(cached), FromCache: true})
		}
	}

	v, err, _ := p.group.Do("feed", func() (any, error) {
		list, err := p.client.GetPosts(ctx)
		if err != nil {
			p.fail(ctx, PostsEvent{Kind: FeedFailed, Err: err})
			return models.Feed{}, err
		}
		if err := p.cache.ReplaceAll(ctx, list); err != nil {
			p.log.Error(ctx, "failed to cache feed", "error", err)
		}
		feed := models.Partition(list)
		p.log.Debug(ctx, "feed refreshed", "pinned", len(feed.Pinned), "regular", len(feed.Regular))
		p.events.Publish(PostsEvent{Kind: FeedReceived, Feed: feed})
		return feed, nil
	})
	if err != nil {
		return models.Feed{}, err
	}
	return v.(models.Feed), nil
}

// CreatePost uploads a new post, reporting progress as CreateProgress
// events, then loads the stored post. Exactly one of PostCreated or
// CreateFailed is published.
func (p *PostsCoordinator) CreatePost(ctx context.Context, title, content string, images []models.Image) (*models.Post, error) {
	id, err := p.client.CreatePost(ctx, title, content, images, func(f float64) {
		p.events.Publish(PostsEvent{Kind: CreateProgress, Progress: f})
	})
	if err != nil {
		p.fail(ctx, PostsEvent{Kind: CreateFailed, Err: err})
		return nil, err
	}

	post, err := p.client.GetPost(ctx, id)
	if err != nil {
		p.fail(ctx, PostsEvent{Kind: CreateFailed, ID: id, Err: err})
		return nil, err
	}

	p.log.Info(ctx, "post created", "id", id)
	p.events.Publish(PostsEvent{Kind: PostCreated, Post: post, ID: id})
	return post, nil
}

// SetPinned changes the pinned flag on the server. On success the cached
// post is updated in place and the re-partitioned cached feed published.
func (p *PostsCoordinator) SetPinned(ctx context.Context, id string, pinned bool) error {
	if err := p.client.SetPinned(ctx, id, pinned); err != nil {
		p.fail(ctx, PostsEvent{Kind: PinFailed, ID: id, Pinned: pinned, Err: err})
		return err
	}

	if post, ok := p.find(ctx, id); ok {
		if err := p.cache.Update(ctx, post.WithPinned(pinned)); err != nil {
			p.log.Error(ctx, "failed to update cached post", "id", id, "error", err)
		}
	}
	p.events.Publish(PostsEvent{Kind: PinChanged, ID: id, Pinned: pinned})
	p.publishCached(ctx)
	return nil
}

// DeletePost removes the post on the server and from the cache.
func (p *PostsCoordinator) DeletePost(ctx context.Context, id string) error {
	if err := p.client.DeletePost(ctx, id); err != nil {
		p.fail(ctx, PostsEvent{Kind: DeleteFailed, ID: id, Err: err})
		return err
	}

	if err := p.cache.Delete(ctx, id); err != nil {
		p.log.Error(ctx, "failed to delete cached post", "id", id, "error", err)
	}
	p.events.Publish(PostsEvent{Kind: PostDeleted, ID: id})
	p.publishCached(ctx)
	return nil
}

// cached reads the cache. Read errors count as an empty cache.
func (p *PostsCoordinator) cached(ctx context.Context) []models.Post {
	list, err := p.cache.GetAll(ctx)
	if err != nil {
		p.log.Warn(ctx, "failed to read cached feed", "error", err)
		return nil
	}
	return list
}

func (p *PostsCoordinator) find(ctx context.Context, id string) (models.Post, bool) {
	for _, post := range p.cached(ctx) {
		if post.ID == id {
			return post, true
		}
	}
	return models.Post{}, false
}

func (p *PostsCoordinator) publishCached(ctx context.Context) {
	p.events.Publish(PostsEvent{Kind: FeedReceived, Feed: models.Partition(p.cached(ctx)), FromCache: true})
}

func (p *PostsCoordinator) fail(ctx context.Context, ev PostsEvent) {
	p.log.Warn(ctx, "posts request failed", "kind", ev.Kind.String(), "id", ev.ID, "error", ev.Err)
	if p.session != nil && errors.Is(ev.Err, client.ErrInvalidCredentials) {
		p.session.Invalidate(ctx)
	}
	p.events.Publish(ev)
}
