package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/chzyer/readline"

	"github.com/beefboard/boardclient/internal/client/client"
	"github.com/beefboard/boardclient/internal/client/config"
	"github.com/beefboard/boardclient/internal/client/credentials"
	"github.com/beefboard/boardclient/internal/client/models"
	"github.com/beefboard/boardclient/internal/client/services"
	"github.com/beefboard/boardclient/internal/events"
	"github.com/beefboard/boardclient/internal/filex"
	"github.com/beefboard/boardclient/internal/logging"
)

// App wires storage, the API client and the coordinators behind the REPL.
type App struct {
	config *config.Config
	log    logging.Logger
	out    io.Writer
	lines  lineReader

	repos        *client.Repositories
	store        *credentials.Store
	api          client.Client
	auth         *services.AuthCoordinator
	posts        *services.PostsCoordinator
	profiles     *services.ProfileLookup
	registration *services.Registration

	subs []*events.Subscription
	obs  *observability

	mu       sync.Mutex
	feed     models.Feed
	progress int
}

// NewApp opens the configured storage, builds the API client and subscribes
// the printer to both coordinators. Call Close when done.
func NewApp(ctx context.Context, c *config.Config, out io.Writer, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Nop()
	}

	obs, err := startObservability(c, out, log)
	if err != nil {
		return nil, err
	}

	repos, err := openRepositories(ctx, c)
	if err != nil {
		_ = obs.Close(ctx)
		return nil, err
	}

	store := credentials.New(repos.Metadata, c.CredentialSecret)
	api, err := client.NewHTTPClient(c.APIBaseURL, store,
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(log.With("component", "api")),
		client.WithMetrics(obs.metrics),
	)
	if err != nil {
		_ = repos.Close()
		_ = obs.Close(ctx)
		return nil, err
	}

	a := &App{
		config:       c,
		log:          log,
		out:          out,
		repos:        repos,
		store:        store,
		api:          api,
		profiles:     services.NewProfileLookup(api),
		registration: services.NewRegistration(api),
		obs:          obs,
	}
	a.auth = services.NewAuthCoordinator(ctx, api, store, log)
	a.posts = services.NewPostsCoordinator(api, repos.Posts, a.auth, log)
	a.subs = append(a.subs,
		a.auth.Subscribe(a.onAuth),
		a.posts.Subscribe(a.onPosts),
	)
	return a, nil
}

func openRepositories(ctx context.Context, c *config.Config) (*client.Repositories, error) {
	switch c.StorageBackend {
	case config.StorageRedis:
		return client.OpenRedis(ctx, c.RedisAddr)
	case config.StorageSQLite:
		path, err := filex.EnsureParentDir(c.DatabasePath)
		if err != nil {
			return nil, err
		}
		return client.OpenSQLite(ctx, path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
}

// Close detaches the printer and releases storage and exporters.
func (a *App) Close(ctx context.Context) error {
	for _, s := range a.subs {
		s.Unsubscribe()
	}
	return errors.Join(a.repos.Close(), a.obs.Close(ctx))
}

// Run checks the session, shows the feed and then blocks in the REPL until
// the user exits.
func (a *App) Run(ctx context.Context) error {
	if a.lines == nil {
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          a.prompt(),
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
			Stdout:          a.out,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize readline: %w", err)
		}
		defer rl.Close()
		a.lines = rl
	}

	fmt.Fprintln(a.out, "beefboard CLI (type 'help' for commands)")
	if _, err := a.auth.RetrieveAuth(ctx); err != nil {
		a.log.Warn(ctx, "could not check session", "error", err)
	}
	if _, err := a.posts.RefreshFeed(ctx, false); err != nil {
		a.log.Warn(ctx, "could not load feed", "error", err)
	}

	runREPL(ctx, a, a.prompt, a.lines)
	return nil
}

func (a *App) isLoggedIn() bool {
	state, _ := a.auth.Current()
	return state == services.AuthLoggedIn
}

func (a *App) prompt() string {
	state, u := a.auth.Current()
	if state == services.AuthLoggedIn && u != nil {
		return fmt.Sprintf("beefboard (%s)> ", u.Username)
	}
	return "beefboard> "
}

func (a *App) setFeed(f models.Feed) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.feed = f
}

func (a *App) lastFeed() models.Feed {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.feed
}
