package services

import (
	"github.com/beefboard/boardclient/internal/client/models"
)

// AuthState is the coordinator's view of the session.
type AuthState int

const (
	AuthUnknown AuthState = iota
	AuthLoggedOut
	AuthLoggedIn
)

func (s AuthState) String() string {
	switch s {
	case AuthLoggedOut:
		return "logged out"
	case AuthLoggedIn:
		return "logged in"
	default:
		return "unknown"
	}
}

type AuthEventKind int

const (
	// AuthChanged carries the current identity, possibly nil.
	AuthChanged AuthEventKind = iota + 1
	// AuthFailed carries an error; the identity is unchanged.
	AuthFailed
)

// AuthEvent is published by AuthCoordinator. Provisional marks an identity
// read from the local cache that the server has not confirmed yet.
type AuthEvent struct {
	Kind        AuthEventKind
	State       AuthState
	User        *models.User
	Provisional bool
	Err         error
}

type PostsEventKind int

const (
	FeedReceived PostsEventKind = iota + 1
	FeedFailed
	CreateProgress
	PostCreated
	CreateFailed
	PinChanged
	PinFailed
	PostDeleted
	DeleteFailed
)

var postsEventNames = map[PostsEventKind]string{
	FeedReceived:   "feed_received",
	FeedFailed:     "feed_failed",
	CreateProgress: "create_progress",
	PostCreated:    "post_created",
	CreateFailed:   "create_failed",
	PinChanged:     "pin_changed",
	PinFailed:      "pin_failed",
	PostDeleted:    "post_deleted",
	DeleteFailed:   "delete_failed",
}

func (k PostsEventKind) String() string {
	if s, ok := postsEventNames[k]; ok {
		return s
	}
	return "unknown"
}

// PostsEvent is published by PostsCoordinator. Which fields are set depends
// on Kind:
//
//	FeedReceived              Feed, FromCache
//	CreateProgress            Progress
//	PostCreated               Post
//	PinChanged                ID, Pinned
//	PostDeleted               ID
//	*Failed                   Err (ID and Pinned for pin/delete)
type PostsEvent struct {
	Kind      PostsEventKind
	Feed      models.Feed
	FromCache bool
	Post      *models.Post
	Progress  float64
	ID        string
	Pinned    bool
	Err       error
}
