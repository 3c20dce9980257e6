package apitest

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/beefboard/boardclient/internal/client/models"
)

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Username == "" {
		writeError(w, http.StatusBadRequest, "username and password required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[body.Username]
	if !ok || acc.password != body.Password {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": s.newSession(body.Username)})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	delete(s.sessions, r.Header.Get("x-access-token"))
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	u, ok := s.caller(r)
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusUnauthorized, "not logged in")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	acc, ok := s.accounts[chi.URLParam(r, "username")]
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "no such user")
		return
	}
	writeJSON(w, http.StatusOK, acc.user)
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var reg models.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil || reg.Username == "" || reg.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid registration")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.accounts[reg.Username]; taken {
		writeJSON(w, http.StatusOK, map[string]bool{"success": false})
		return
	}
	s.accounts[reg.Username] = account{
		user: models.User{
			Username:  reg.Username,
			FirstName: reg.FirstName,
			LastName:  reg.LastName,
			Email:     reg.Email,
		},
		password: reg.Password,
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) listPosts(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	out := make([]map[string]any, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, encodePost(p))
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"posts": out})
}

func (s *Server) getPost(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findPost(chi.URLParam(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "no such post")
		return
	}
	writeJSON(w, http.StatusOK, encodePost(s.posts[i]))
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "multipart form required")
		return
	}

	title, content := r.FormValue("title"), r.FormValue("content")
	if title == "" || content == "" {
		writeError(w, http.StatusBadRequest, "title and content required")
		return
	}

	var images [][]byte
	for _, fh := range r.MultipartForm.File["images"] {
		f, err := fh.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "unreadable image")
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, "unreadable image")
			return
		}
		images = append(images, data)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.caller(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	p := models.Post{
		ID:         uuid.NewString(),
		Title:      title,
		Content:    content,
		Author:     u.Username,
		CreatedAt:  time.Now().UTC().Truncate(time.Millisecond),
		ImageCount: len(images),
		Approved:   u.Admin,
	}
	s.posts = append(s.posts, p)
	s.images[p.ID] = images

	writeJSON(w, http.StatusOK, map[string]string{"id": p.ID})
}

func (s *Server) pinPost(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Pinned *bool `json:"pinned"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Pinned == nil {
		writeError(w, http.StatusBadRequest, "pinned required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.caller(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "not logged in")
		return
	}
	if !u.Admin {
		writeError(w, http.StatusForbidden, "admin only")
		return
	}
	i := s.findPost(chi.URLParam(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "no such post")
		return
	}
	s.posts[i].Pinned = *body.Pinned

	if !s.RotatePinToken {
		writeJSON(w, http.StatusOK, map[string]any{})
		return
	}
	delete(s.sessions, r.Header.Get("x-access-token"))
	writeJSON(w, http.StatusOK, map[string]string{"token": s.newSession(u.Username)})
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.caller(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "not logged in")
		return
	}
	i := s.findPost(chi.URLParam(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "no such post")
		return
	}
	if !u.Admin && s.posts[i].Author != u.Username {
		writeError(w, http.StatusForbidden, "not your post")
		return
	}
	delete(s.images, s.posts[i].ID)
	s.posts = append(s.posts[:i], s.posts[i+1:]...)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) getImage(w http.ResponseWriter, r *http.Request) {
	n, ok := imageIndex(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad image index")
		return
	}

	s.mu.Lock()
	imgs := s.images[chi.URLParam(r, "id")]
	s.mu.Unlock()

	if n >= len(imgs) {
		writeError(w, http.StatusNotFound, "no such image")
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(imgs[n]))
	_, _ = w.Write(imgs[n])
}
