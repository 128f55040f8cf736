package app

import (
	"context"
	"time"

	"github.com/volunteerhub/hubterm/domain"
)

// TargetType selects what a like mutation points at.
type TargetType string

const (
	TargetPost    TargetType = "POST"
	TargetComment TargetType = "COMMENT"
)

// Created is the server's answer to a create mutation: the authoritative
// id (possibly numeric on the wire) and timestamp for an entity the client
// already holds under a temporary id.
type Created struct {
	ID        string
	CreatedAt time.Time
}

// FeedService talks to the event-wall side of the platform.
type FeedService interface {
	// EventWall returns an event and its posts (with nested comments),
	// newest post first.
	EventWall(ctx context.Context, eventID string) (domain.Event, []domain.Post, error)

	// CreatePost publishes a post on an event wall.
	CreatePost(ctx context.Context, eventID, title, body string) (Created, error)

	// DeletePost removes a post by id.
	DeletePost(ctx context.Context, postID string) error

	// CreateComment adds a comment to a post.
	CreateComment(ctx context.Context, postID, content string) (Created, error)

	// DeleteComment removes a comment by id.
	DeleteComment(ctx context.Context, commentID string) error

	// ToggleLike flips the viewer's like on a post or comment.
	ToggleLike(ctx context.Context, targetID string, target TargetType) error
}
