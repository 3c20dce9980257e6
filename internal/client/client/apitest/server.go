// Package apitest runs an in-process beefboard API for tests.
package apitest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/beefboard/boardclient/internal/client/models"
)

const dateLayout = "2006-01-02T15:04:05.000Z07:00"

// Request is a recorded call.
type Request struct {
	Method    string
	Path      string
	Token     string
	RequestID string
	Header    http.Header
}

type override struct {
	status int
	body   string
}

type account struct {
	user     models.User
	password string
}

// Server is a fake API. Its zero state has no accounts and no posts.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	accounts  map[string]account
	sessions  map[string]string
	posts     []models.Post
	images    map[string][][]byte
	overrides map[string]override
	requests  []Request
	delay     time.Duration
	gate      chan struct{}

	// RotatePinToken makes PUT /posts/{id} answer with a fresh token, as
	// the production API does.
	RotatePinToken bool
}

// New starts a server; call Close when done.
func New() *Server {
	s := &Server{
		accounts:       map[string]account{},
		sessions:       map[string]string{},
		images:         map[string][][]byte{},
		overrides:      map[string]override{},
		RotatePinToken: true,
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

// BaseURL is the versioned API root.
func (s *Server) BaseURL() string { return s.URL + "/v1" }

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.record)

	r.Route("/v1", func(r chi.Router) {
		r.Put("/me", s.login)
		r.Delete("/me", s.logout)
		r.Get("/me", s.me)
		r.Get("/accounts/{username}", s.getAccount)
		r.Post("/accounts", s.register)
		r.Get("/posts", s.listPosts)
		r.Post("/posts", s.createPost)
		r.Get("/posts/{id}", s.getPost)
		r.Put("/posts/{id}", s.pinPost)
		r.Delete("/posts/{id}", s.deletePost)
		r.Get("/posts/{id}/images/{n}", s.getImage)
	})
	return r
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:    r.Method,
			Path:      r.URL.Path,
			Token:     r.Header.Get("x-access-token"),
			RequestID: r.Header.Get("X-Request-Id"),
			Header:    r.Header.Clone(),
		})
		ov, hasOverride := s.overrides[key]
		delay, gate := s.delay, s.gate
		s.mu.Unlock()

		if gate != nil {
			select {
			case <-gate:
			case <-r.Context().Done():
				return
			}
		}
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}

		if hasOverride {
			// drain so uploads complete before answering
			_, _ = io.Copy(io.Discard, r.Body)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(ov.status)
			_, _ = io.WriteString(w, ov.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Override answers method+path (e.g. "GET", "/v1/posts") with a canned
// response until cleared with Reset.
func (s *Server) Override(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[method+" "+path] = override{status: status, body: body}
}

// Reset removes overrides, the delay, the gate and the request log.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides = map[string]override{}
	s.requests = nil
	s.delay = 0
	s.gate = nil
}

// SetDelay makes every response wait d.
func (s *Server) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// Hold blocks every request until the returned release func is called.
func (s *Server) Hold() (release func()) {
	gate := make(chan struct{})
	s.mu.Lock()
	s.gate = gate
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.gate = nil
			s.mu.Unlock()
			close(gate)
		})
	}
}

// Requests returns a copy of the request log.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Hits counts recorded requests for method+path.
func (s *Server) Hits(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// AddAccount registers a user with a password.
func (s *Server) AddAccount(u models.User, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[u.Username] = account{user: u, password: password}
}

// IssueToken starts a session for username without a login call.
func (s *Server) IssueToken(username string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.newSession(username)
}

// RevokeAll ends every session, so stored tokens turn stale.
func (s *Server) RevokeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = map[string]string{}
}

// SetPosts replaces the post list, in server order.
func (s *Server) SetPosts(posts []models.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = append([]models.Post(nil), posts...)
}

// Posts returns the current post list.
func (s *Server) Posts() []models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Post(nil), s.posts...)
}

// Images returns the stored images of a post.
func (s *Server) Images(id string) [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.images[id]
}

func (s *Server) newSession(username string) string {
	token := "tok-" + uuid.NewString()
	s.sessions[token] = username
	return token
}

// caller resolves the session user; ok is false when the token is missing
// or unknown. Must hold mu.
func (s *Server) caller(r *http.Request) (models.User, bool) {
	name, ok := s.sessions[r.Header.Get("x-access-token")]
	if !ok {
		return models.User{}, false
	}
	acc, ok := s.accounts[name]
	return acc.user, ok
}

func (s *Server) findPost(id string) int {
	for i, p := range s.posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func encodePost(p models.Post) map[string]any {
	votes := map[string]any{"grade": p.Votes.Grade}
	if p.Votes.UserGrade != nil {
		votes["user"] = *p.Votes.UserGrade
	}
	return map[string]any{
		"id":        p.ID,
		"title":     p.Title,
		"content":   p.Content,
		"author":    p.Author,
		"date":      p.CreatedAt.Format(dateLayout),
		"numImages": p.ImageCount,
		"approved":  p.Approved,
		"pinned":    p.Pinned,
		"votes":     votes,
	}
}

func imageIndex(r *http.Request) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	return n, err == nil && n >= 0
}
