package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/beefboard/boardclient/internal/client/client"
	"github.com/beefboard/boardclient/internal/client/models"
	"github.com/beefboard/boardclient/internal/client/repositories/metadata"
	"github.com/beefboard/boardclient/internal/client/repositories/posts"
)

// ---- helpers ----

func setupRepos(t *testing.T) (metadata.Repository, posts.Repository) {
	t.Helper()
	repos, err := client.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })
	return repos.Metadata, repos.Posts
}

// recorder collects published events.
type recorder[T any] struct {
	mu     sync.Mutex
	events []T
}

func (r *recorder[T]) add(ev T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder[T]) all() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]T(nil), r.events...)
}

func postKinds(evs []PostsEvent) []PostsEventKind {
	out := make([]PostsEventKind, len(evs))
	for i, ev := range evs {
		out[i] = ev.Kind
	}
	return out
}

// ---- fake credential store ----

type memStore struct {
	mu      sync.Mutex
	user    *models.User
	token   bool
	LoadErr error
	SaveErr error
	saves   int
}

func (s *memStore) Load(context.Context) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyUser(s.user), s.LoadErr
}

func (s *memStore) Save(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.user = copyUser(u)
	if u == nil {
		s.token = false
	}
	return nil
}

func (s *memStore) HasToken(context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// ---- fake client ----

// fakeClient implements client.Client with canned results. Block, when set,
// holds GetAuth and GetPosts until it is closed.
type fakeClient struct {
	mu sync.Mutex

	LoginErr     error
	LogoutErr    error
	GetAuthRet   *models.User
	GetAuthErr   error
	GetUserRet   *models.User
	GetUserErr   error
	GetPostsRet  []models.Post
	GetPostsErr  error
	GetPostRet   *models.Post
	GetPostErr   error
	RegisterOK   bool
	RegisterErr  error
	CreateID     string
	CreateErr    error
	CreateSteps  []float64
	SetPinnedErr error
	DeleteErr    error

	Block chan struct{}

	LastLoginUser string
	LastLoginPass string
	LastGetUser   string
	LastGetPost   string
	LastRegister  models.Registration
	LastCreate    string
	LastPinned    string
	LastPinnedVal bool
	LastDelete    string

	calls map[string]int
}

func (f *fakeClient) hit(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
}

func (f *fakeClient) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeClient) wait(ctx context.Context) error {
	if f.Block == nil {
		return nil
	}
	select {
	case <-f.Block:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeClient) Login(_ context.Context, username, password string) error {
	f.hit("Login")
	f.LastLoginUser, f.LastLoginPass = username, password
	return f.LoginErr
}

func (f *fakeClient) Logout(context.Context) error {
	f.hit("Logout")
	return f.LogoutErr
}

func (f *fakeClient) GetAuth(ctx context.Context) (*models.User, error) {
	f.hit("GetAuth")
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return copyUser(f.GetAuthRet), f.GetAuthErr
}

func (f *fakeClient) GetUser(_ context.Context, username string) (*models.User, error) {
	f.hit("GetUser")
	f.LastGetUser = username
	return copyUser(f.GetUserRet), f.GetUserErr
}

func (f *fakeClient) GetPosts(ctx context.Context) ([]models.Post, error) {
	f.hit("GetPosts")
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return append([]models.Post(nil), f.GetPostsRet...), f.GetPostsErr
}

func (f *fakeClient) GetPost(_ context.Context, id string) (*models.Post, error) {
	f.hit("GetPost")
	f.LastGetPost = id
	return f.GetPostRet, f.GetPostErr
}

func (f *fakeClient) Register(_ context.Context, reg models.Registration) (bool, error) {
	f.hit("Register")
	f.LastRegister = reg
	return f.RegisterOK, f.RegisterErr
}

func (f *fakeClient) CreatePost(_ context.Context, title, _ string, _ []models.Image, progress client.ProgressFunc) (string, error) {
	f.hit("CreatePost")
	f.LastCreate = title
	for _, s := range f.CreateSteps {
		if progress != nil {
			progress(s)
		}
	}
	return f.CreateID, f.CreateErr
}

func (f *fakeClient) SetPinned(_ context.Context, id string, pinned bool) error {
	f.hit("SetPinned")
	f.LastPinned, f.LastPinnedVal = id, pinned
	return f.SetPinnedErr
}

func (f *fakeClient) DeletePost(_ context.Context, id string) error {
	f.hit("DeletePost")
	f.LastDelete = id
	return f.DeleteErr
}

func (f *fakeClient) FetchImage(context.Context, string, int) ([]byte, error) {
	return nil, nil
}

func (f *fakeClient) ImageURL(postID string, n int) string { return "" }

var _ client.Client = (*fakeClient)(nil)
