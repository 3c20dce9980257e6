package models_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beefboard/boardclient/internal/client/models"
	"github.com/beefboard/boardclient/internal/client/models/fixtures"
)

func at(min int) time.Time {
	return time.Date(2019, 1, 1, 10, min, 0, 0, time.UTC)
}

func TestPartition_SplitsAndSorts(t *testing.T) {
	posts := []models.Post{
		{ID: "a", CreatedAt: at(1)},
		{ID: "b", CreatedAt: at(5), Pinned: true},
		{ID: "c", CreatedAt: at(3)},
		{ID: "d", CreatedAt: at(2), Pinned: true},
	}

	feed := models.Partition(posts)

	ids := func(ps []models.Post) []string {
		var out []string
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}
	assert.Equal(t, []string{"b", "d"}, ids(feed.Pinned))
	assert.Equal(t, []string{"c", "a"}, ids(feed.Regular))
	assert.Equal(t, []string{"b", "d", "c", "a"}, ids(feed.All()))
	assert.Equal(t, "a", posts[0].ID, "input must not be reordered")
}

func TestPartition_StableTies(t *testing.T) {
	posts := []models.Post{
		{ID: "first", CreatedAt: at(1)},
		{ID: "second", CreatedAt: at(1)},
		{ID: "third", CreatedAt: at(1)},
	}

	feed := models.Partition(posts)
	require.Len(t, feed.Regular, 3)
	assert.Equal(t, "first", feed.Regular[0].ID)
	assert.Equal(t, "second", feed.Regular[1].ID)
	assert.Equal(t, "third", feed.Regular[2].ID)
}

func TestPartition_Empty(t *testing.T) {
	feed := models.Partition(nil)
	assert.Equal(t, 0, feed.Len())
	assert.NotNil(t, feed.Pinned)
	assert.NotNil(t, feed.Regular)
	assert.Empty(t, feed.All())
}

func TestPartition_Properties(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		posts := fixtures.Posts(seed, 25)
		feed := models.Partition(posts)

		require.Equal(t, len(posts), feed.Len())
		for _, p := range feed.Pinned {
			require.True(t, p.Pinned)
		}
		for _, p := range feed.Regular {
			require.False(t, p.Pinned)
		}
		for _, half := range [][]models.Post{feed.Pinned, feed.Regular} {
			for i := 1; i < len(half); i++ {
				require.False(t, half[i].CreatedAt.After(half[i-1].CreatedAt))
			}
		}

		again := models.Partition(feed.All())
		if diff := cmp.Diff(feed, again); diff != "" {
			t.Fatalf("partition not idempotent (-first +second):\n%s", diff)
		}
	}
}

func TestFeed_Find(t *testing.T) {
	feed := models.Partition([]models.Post{{ID: "x", Pinned: true}, {ID: "y"}})

	p, ok := feed.Find("y")
	require.True(t, ok)
	assert.Equal(t, "y", p.ID)

	_, ok = feed.Find("z")
	assert.False(t, ok)
}
