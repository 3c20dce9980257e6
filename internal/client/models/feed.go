package models

import "sort"

// Feed is a post list split for display: pinned posts first, then the rest.
// Both halves are ordered newest first.
type Feed struct {
	Pinned  []Post
	Regular []Post
}

// Partition builds a Feed from posts in server order. Posts with equal
// timestamps keep their relative server order. The input is not modified.
func Partition(posts []Post) Feed {
	sorted := make([]Post, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	feed := Feed{Pinned: []Post{}, Regular: []Post{}}
	for _, p := range sorted {
		if p.Pinned {
			feed.Pinned = append(feed.Pinned, p)
		} else {
			feed.Regular = append(feed.Regular, p)
		}
	}
	return feed
}

// All returns Pinned followed by Regular.
func (f Feed) All() []Post {
	out := make([]Post, 0, f.Len())
	out = append(out, f.Pinned...)
	return append(out, f.Regular...)
}

func (f Feed) Len() int { return len(f.Pinned) + len(f.Regular) }

// Find returns the post with the given id.
func (f Feed) Find(id string) (Post, bool) {
	for _, p := range f.All() {
		if p.ID == id {
			return p, true
		}
	}
	return Post{}, false
}
