// Package services holds the coordinators that reconcile local state with
// the beefboard API and notify observers, plus the thin profile and
// registration services.
package services

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/beefboard/boardclient/internal/client/client"
	"github.com/beefboard/boardclient/internal/client/models"
	"github.com/beefboard/boardclient/internal/events"
	"github.com/beefboard/boardclient/internal/logging"
)

// CredentialStore persists the identity between runs. Saving nil also
// drops the session token.
type CredentialStore interface {
	Load(ctx context.Context) (*models.User, error)
	Save(ctx context.Context, u *models.User) error
	HasToken(ctx context.Context) bool
}

// SessionInvalidator is told when any call was rejected for bad credentials.
type SessionInvalidator interface {
	Invalidate(ctx context.Context)
}

// AuthCoordinator owns the in-memory identity. Operations block until the
// network answers and publish every state change to subscribers before
// returning.
type AuthCoordinator struct {
	client client.Client
	store  CredentialStore
	log    logging.Logger
	events *events.Broker[AuthEvent]
	group  singleflight.Group

	mu    sync.Mutex
	state AuthState
	user  *models.User
	// gen advances on every login, logout and invalidation; refresh
	// results tagged with an older gen are discarded.
	gen uint64
}

// NewAuthCoordinator loads the cached identity. When one exists the
// coordinator starts provisionally logged in; otherwise the state is
// unknown until RetrieveAuth resolves.
func NewAuthCoordinator(ctx context.Context, c client.Client, store CredentialStore, log logging.Logger) *AuthCoordinator {
	if log == nil {
		log = logging.Nop()
	}
	a := &AuthCoordinator{
		client: c,
		store:  store,
		log:    log.With("component", "auth"),
		events: events.NewBroker[AuthEvent](log),
		state:  AuthUnknown,
	}

	u, err := store.Load(ctx)
	if err != nil {
		a.log.Warn(ctx, "cached identity unavailable", "error", err)
	}
	if u != nil {
		a.state, a.user = AuthLoggedIn, u
	}
	return a
}

// Subscribe attaches an observer. Detach it with the returned handle.
func (a *AuthCoordinator) Subscribe(fn func(AuthEvent)) *events.Subscription {
	return a.events.Subscribe(fn)
}

// Current returns the state and a copy of the identity.
func (a *AuthCoordinator) Current() (AuthState, *models.User) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state, copyUser(a.user)
}

// RetrieveAuth publishes the cached identity right away, then asks the
// server who is logged in. Concurrent calls share one request.
//
// Bad credentials are not an error: the identity is cleared and (nil, nil)
// returned. Other failures leave the identity untouched, publish AuthFailed
// and are returned.
func (a *AuthCoordinator) RetrieveAuth(ctx context.Context) (*models.User, error) {
	state, user := a.Current()
	a.events.Publish(AuthEvent{Kind: AuthChanged, State: state, User: user, Provisional: true})

	v, err, _ := a.group.Do("auth", func() (any, error) {
		return a.refresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	return copyUser(v.(*models.User)), nil
}

func (a *AuthCoordinator) refresh(ctx context.Context) (*models.User, error) {
	gen := a.generation()
	u, err := a.client.GetAuth(ctx)
	switch {
	case err == nil:
		if !a.setFrom(ctx, u, gen) {
			return a.outdated(ctx)
		}
		a.log.Info(ctx, "session confirmed", "user", u.Username)
		return u, nil
	case errors.Is(err, client.ErrInvalidCredentials):
		if !a.setFrom(ctx, nil, gen) {
			return a.outdated(ctx)
		}
		a.log.Info(ctx, "session rejected by server")
		return nil, nil
	default:
		a.fail(ctx, err)
		return nil, err
	}
}

// outdated answers a refresh that lost to a newer login or logout with the
// identity that won.
func (a *AuthCoordinator) outdated(ctx context.Context) (*models.User, error) {
	a.log.Debug(ctx, "discarding outdated session check")
	_, u := a.Current()
	return u, nil
}

// Login authenticates and then refreshes the identity. A login failure is
// published as AuthFailed and leaves the identity as it was.
//
// Session checks still in flight were sent with the old token; their
// results are dropped.
func (a *AuthCoordinator) Login(ctx context.Context, username, password string) error {
	a.advance()
	if err := a.client.Login(ctx, username, password); err != nil {
		a.fail(ctx, err)
		return err
	}

	a.advance()
	a.group.Forget("auth")
	_, err := a.RetrieveAuth(ctx)
	return err
}

// Logout always succeeds locally: the server call is best effort, the
// identity and token are cleared and LoggedOut is published.
func (a *AuthCoordinator) Logout(ctx context.Context) {
	if err := a.client.Logout(ctx); err != nil {
		a.log.Warn(ctx, "server logout failed", "error", err)
	}
	a.set(ctx, nil)
}

// Invalidate moves to LoggedOut after another component saw the server
// reject the session.
func (a *AuthCoordinator) Invalidate(ctx context.Context) {
	a.log.Info(ctx, "session invalidated")
	a.set(ctx, nil)
}

// set replaces the identity, persists it and publishes AuthChanged. It
// starts a new generation, so pending refreshes cannot undo it. A
// persistence failure is logged; the in-memory identity still changes.
func (a *AuthCoordinator) set(ctx context.Context, u *models.User) {
	a.mu.Lock()
	a.gen++
	state, user := a.assign(u)
	a.mu.Unlock()

	a.commit(ctx, state, user)
}

// setFrom is set for a refresh started at gen. It reports false, changing
// nothing, when the identity moved on in the meantime.
func (a *AuthCoordinator) setFrom(ctx context.Context, u *models.User, gen uint64) bool {
	a.mu.Lock()
	if gen != a.gen {
		a.mu.Unlock()
		return false
	}
	state, user := a.assign(u)
	a.mu.Unlock()

	a.commit(ctx, state, user)
	return true
}

// assign must hold mu.
func (a *AuthCoordinator) assign(u *models.User) (AuthState, *models.User) {
	a.user = copyUser(u)
	if u == nil {
		a.state = AuthLoggedOut
	} else {
		a.state = AuthLoggedIn
	}
	return a.state, copyUser(a.user)
}

func (a *AuthCoordinator) commit(ctx context.Context, state AuthState, user *models.User) {
	if err := a.store.Save(ctx, user); err != nil {
		a.log.Error(ctx, "failed to persist identity", "error", err)
	}
	a.events.Publish(AuthEvent{Kind: AuthChanged, State: state, User: user})
}

func (a *AuthCoordinator) generation() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gen
}

func (a *AuthCoordinator) advance() {
	a.mu.Lock()
	a.gen++
	a.mu.Unlock()
}

func (a *AuthCoordinator) fail(ctx context.Context, err error) {
	a.log.Warn(ctx, "auth request failed", "error", err)
	state, user := a.Current()
	a.events.Publish(AuthEvent{Kind: AuthFailed, State: state, User: user, Err: err})
}

func copyUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
