package client

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/beefboard/boardclient/internal/client/models"
)

type credentialsBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenBody struct {
	Token *string `json:"token"`
}

type successBody struct {
	Success *bool `json:"success"`
}

type idBody struct {
	ID *string `json:"id"`
}

type pinBody struct {
	Pinned bool `json:"pinned"`
}

type postsBody struct {
	Posts *[]wirePost `json:"posts"`
}

type wireVotes struct {
	Grade *int `json:"grade"`
	User  *int `json:"user"`
}

type wirePost struct {
	ID        *string    `json:"id"`
	Title     *string    `json:"title"`
	Content   *string    `json:"content"`
	Author    *string    `json:"author"`
	Date      *string    `json:"date"`
	NumImages *int       `json:"numImages"`
	Approved  *bool      `json:"approved"`
	Pinned    *bool      `json:"pinned"`
	Votes     *wireVotes `json:"votes"`
}

type wireUser struct {
	Username  *string `json:"username"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Admin     *bool   `json:"admin"`
	Email     *string `json:"email"`
}

var errMissingField = errors.New("missing field")

func missing(name string) error {
	return fmt.Errorf("%w %q", errMissingField, name)
}

func (w wirePost) model() (models.Post, error) {
	switch {
	case w.ID == nil:
		return models.Post{}, missing("id")
	case w.Title == nil:
		return models.Post{}, missing("title")
	case w.Content == nil:
		return models.Post{}, missing("content")
	case w.Author == nil:
		return models.Post{}, missing("author")
	case w.Date == nil:
		return models.Post{}, missing("date")
	case w.NumImages == nil:
		return models.Post{}, missing("numImages")
	case w.Approved == nil:
		return models.Post{}, missing("approved")
	case w.Pinned == nil:
		return models.Post{}, missing("pinned")
	case w.Votes == nil || w.Votes.Grade == nil:
		return models.Post{}, missing("votes.grade")
	}

	created, err := parseDate(*w.Date)
	if err != nil {
		return models.Post{}, err
	}

	return models.Post{
		ID:         *w.ID,
		Title:      *w.Title,
		Content:    *w.Content,
		Author:     *w.Author,
		CreatedAt:  created,
		ImageCount: *w.NumImages,
		Approved:   *w.Approved,
		Pinned:     *w.Pinned,
		Votes:      models.Votes{Grade: *w.Votes.Grade, UserGrade: w.Votes.User},
	}, nil
}

func (w wireUser) model() (models.User, error) {
	switch {
	case w.Username == nil:
		return models.User{}, missing("username")
	case w.FirstName == nil:
		return models.User{}, missing("firstName")
	case w.LastName == nil:
		return models.User{}, missing("lastName")
	case w.Admin == nil:
		return models.User{}, missing("admin")
	case w.Email == nil:
		return models.User{}, missing("email")
	}
	return models.User{
		Username:  *w.Username,
		FirstName: *w.FirstName,
		LastName:  *w.LastName,
		Admin:     *w.Admin,
		Email:     *w.Email,
	}, nil
}

// EncodePost renders p the way the API sends it.
func EncodePost(p models.Post) ([]byte, error) {
	date := formatDate(p.CreatedAt)
	return json.Marshal(wirePost{
		ID:        &p.ID,
		Title:     &p.Title,
		Content:   &p.Content,
		Author:    &p.Author,
		Date:      &date,
		NumImages: &p.ImageCount,
		Approved:  &p.Approved,
		Pinned:    &p.Pinned,
		Votes:     &wireVotes{Grade: &p.Votes.Grade, User: p.Votes.UserGrade},
	})
}

func decodeUser(b []byte) (*models.User, error) {
	var w wireUser
	if err := json.Unmarshal(b, &w); err != nil {
		return nil, invalidResponse(err)
	}
	u, err := w.model()
	if err != nil {
		return nil, invalidResponse(err)
	}
	return &u, nil
}

func decodePost(b []byte) (*models.Post, error) {
	var w wirePost
	if err := json.Unmarshal(b, &w); err != nil {
		return nil, invalidResponse(err)
	}
	p, err := w.model()
	if err != nil {
		return nil, invalidResponse(err)
	}
	return &p, nil
}

func decodePosts(b []byte) ([]models.Post, error) {
	var body postsBody
	if err := json.Unmarshal(b, &body); err != nil {
		return nil, invalidResponse(err)
	}
	if body.Posts == nil {
		return nil, invalidResponse(missing("posts"))
	}

	out := make([]models.Post, 0, len(*body.Posts))
	for i, w := range *body.Posts {
		p, err := w.model()
		if err != nil {
			return nil, invalidResponse(fmt.Errorf("posts[%d]: %w", i, err))
		}
		out = append(out, p)
	}
	return out, nil
}
