package domain

import "time"

// Post is a single post on an event wall.
//
// Liked and LikeCount are viewer-relative and must stay mutually
// consistent: a liked post's count includes the viewer's like exactly once.
type Post struct {
	ID        string
	EventID   string
	AuthorID  string
	Author    string
	Title     string
	Body      string
	CreatedAt time.Time
	LikeCount int
	Liked     bool
	Comments  []Comment // Arrival order.
	IsOwn     bool      // True if this post belongs to the authenticated user.
}

// Comment belongs to exactly one Post and is removed with it.
type Comment struct {
	ID        string
	PostID    string
	AuthorID  string
	Author    string
	Content   string
	CreatedAt time.Time
	IsOwn     bool
}

// IsLocal reports whether the entity id is a client-generated temporary id
// for an optimistic create that has not been confirmed yet.
func IsLocal(id string) bool {
	return len(id) > 6 && id[:6] == "local-"
}
