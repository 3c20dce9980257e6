package models

import "time"

// Votes is the vote tally of a post. UserGrade is the caller's own vote and
// is nil when the caller has not voted or is anonymous.
type Votes struct {
	Grade     int  `json:"grade"`
	UserGrade *int `json:"user,omitempty"`
}

// Post is a server snapshot of a board post. Author is a username only.
type Post struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Author     string    `json:"author"`
	CreatedAt  time.Time `json:"date"`
	ImageCount int       `json:"numImages"`
	Approved   bool      `json:"approved"`
	Pinned     bool      `json:"pinned"`
	Votes      Votes     `json:"votes"`
}

// WithPinned returns a copy of p with the pinned flag set.
func (p Post) WithPinned(pinned bool) Post {
	p.Pinned = pinned
	if p.Votes.UserGrade != nil {
		g := *p.Votes.UserGrade
		p.Votes.UserGrade = &g
	}
	return p
}
