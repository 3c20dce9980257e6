// Package fixtures generates deterministic model values for tests.
package fixtures

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/beefboard/boardclient/internal/client/models"
)

var epoch = time.Date(2019, 1, 1, 10, 0, 0, 0, time.UTC)

// Faker returns a seeded generator.
func Faker(seed int64) *gofakeit.Faker {
	return gofakeit.New(seed)
}

// Post returns a random post created at epoch plus offset minutes. Timestamps
// are whole milliseconds so they survive the wire date format.
func Post(f *gofakeit.Faker, offset int) models.Post {
	p := models.Post{
		ID:         f.UUID(),
		Title:      f.Sentence(4),
		Content:    f.Paragraph(1, 2, 8, " "),
		Author:     f.Username(),
		CreatedAt:  epoch.Add(time.Duration(offset) * time.Minute),
		ImageCount: f.Number(0, 3),
		Approved:   true,
		Pinned:     f.Bool(),
		Votes:      models.Votes{Grade: f.Number(-5, 20)},
	}
	if f.Bool() {
		g := f.RandomInt([]int{-1, 1})
		p.Votes.UserGrade = &g
	}
	return p
}

// Posts returns n random posts in shuffled time order.
func Posts(seed int64, n int) []models.Post {
	f := Faker(seed)
	offsets := make([]int, n)
	for i := range offsets {
		offsets[i] = i
	}
	f.ShuffleInts(offsets)

	out := make([]models.Post, n)
	for i, off := range offsets {
		out[i] = Post(f, off)
	}
	return out
}

// User returns a random non-admin profile.
func User(seed int64) models.User {
	f := Faker(seed)
	return models.User{
		Username:  f.Username(),
		FirstName: f.FirstName(),
		LastName:  f.LastName(),
		Email:     f.Email(),
	}
}
