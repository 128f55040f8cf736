// Package store holds the client's in-memory social-interaction state as
// plain values with pure transformation operations. Callers never mutate a
// store in place; every operation returns a new value, which is what makes
// rollback exact: reverting is applying the inverse transformation, never
// re-fetching.
package store

import (
	"github.com/volunteerhub/hubterm/domain"
)

// Interactions is the ordered set of posts (with nested comments) for one
// event wall. The zero value is an empty, usable store.
type Interactions struct {
	posts []domain.Post
}

// NewInteractions builds a store from already-fetched posts. The slice is
// copied; the caller keeps ownership of its argument.
func NewInteractions(posts []domain.Post) Interactions {
	return Interactions{posts: clonePosts(posts)}
}

// Posts returns the posts newest-first. The returned slice is shared;
// callers must treat it as read-only.
func (s Interactions) Posts() []domain.Post {
	return s.posts
}

// Len returns the number of posts.
func (s Interactions) Len() int {
	return len(s.posts)
}

// Post returns the post with the given id, matching by normalized id.
func (s Interactions) Post(postID string) (domain.Post, bool) {
	if i := s.indexOf(postID); i >= 0 {
		return s.posts[i], true
	}
	return domain.Post{}, false
}

// Comment returns one comment of a post, matching both ids normalized.
func (s Interactions) Comment(postID, commentID string) (domain.Comment, bool) {
	i := s.indexOf(postID)
	if i < 0 {
		return domain.Comment{}, false
	}
	key := domain.NormalizeID(commentID)
	for _, c := range s.posts[i].Comments {
		if domain.NormalizeID(c.ID) == key {
			return c, true
		}
	}
	return domain.Comment{}, false
}

// WithPostAdded prepends a post (newest-first ordering).
func (s Interactions) WithPostAdded(post domain.Post) Interactions {
	out := make([]domain.Post, 0, len(s.posts)+1)
	out = append(out, post)
	out = append(out, s.posts...)
	return Interactions{posts: out}
}

// WithPostRemoved removes the post with the given id. Removing an absent
// post returns the store unchanged.
func (s Interactions) WithPostRemoved(postID string) Interactions {
	i := s.indexOf(postID)
	if i < 0 {
		return s
	}
	out := make([]domain.Post, 0, len(s.posts)-1)
	out = append(out, s.posts[:i]...)
	out = append(out, s.posts[i+1:]...)
	return Interactions{posts: out}
}

// WithPostInserted re-inserts a post at the given position, clamped to the
// current bounds. Used to roll back an optimistic delete exactly.
func (s Interactions) WithPostInserted(index int, post domain.Post) Interactions {
	if index < 0 {
		index = 0
	}
	if index > len(s.posts) {
		index = len(s.posts)
	}
	out := make([]domain.Post, 0, len(s.posts)+1)
	out = append(out, s.posts[:index]...)
	out = append(out, post)
	out = append(out, s.posts[index:]...)
	return Interactions{posts: out}
}

// WithPostReplaced swaps the post with the given id for the server-confirmed
// version, keeping its position. Comments already attached locally are kept
// when the replacement carries none.
func (s Interactions) WithPostReplaced(postID string, post domain.Post) Interactions {
	i := s.indexOf(postID)
	if i < 0 {
		return s
	}
	if post.Comments == nil {
		post.Comments = s.posts[i].Comments
	}
	out := clonePosts(s.posts)
	out[i] = post
	return Interactions{posts: out}
}

// WithLikeToggled flips the viewer's like on a post and adjusts the count
// by one in the matching direction. A miss is a no-op. The count never goes
// below zero even if the server state drifted.
func (s Interactions) WithLikeToggled(postID string) Interactions {
	i := s.indexOf(postID)
	if i < 0 {
		return s
	}
	out := clonePosts(s.posts)
	p := &out[i]
	if p.Liked {
		p.Liked = false
		if p.LikeCount > 0 {
			p.LikeCount--
		}
	} else {
		p.Liked = true
		p.LikeCount++
	}
	return Interactions{posts: out}
}

// WithCommentAdded appends a comment to its post (arrival order). A miss on
// the post is a no-op.
func (s Interactions) WithCommentAdded(postID string, comment domain.Comment) Interactions {
	i := s.indexOf(postID)
	if i < 0 {
		return s
	}
	out := clonePosts(s.posts)
	comments := make([]domain.Comment, 0, len(out[i].Comments)+1)
	comments = append(comments, out[i].Comments...)
	comments = append(comments, comment)
	out[i].Comments = comments
	return Interactions{posts: out}
}

// WithCommentInserted re-inserts a comment at the given position within a
// post, clamped to bounds. Used to roll back an optimistic comment delete
// without disturbing arrival order.
func (s Interactions) WithCommentInserted(postID string, index int, comment domain.Comment) Interactions {
	i := s.indexOf(postID)
	if i < 0 {
		return s
	}
	if index < 0 {
		index = 0
	}
	if index > len(s.posts[i].Comments) {
		index = len(s.posts[i].Comments)
	}
	out := clonePosts(s.posts)
	comments := make([]domain.Comment, 0, len(out[i].Comments)+1)
	comments = append(comments, out[i].Comments[:index]...)
	comments = append(comments, comment)
	comments = append(comments, out[i].Comments[index:]...)
	out[i].Comments = comments
	return Interactions{posts: out}
}

// CommentIndex returns the position of a comment within its post, or -1.
func (s Interactions) CommentIndex(postID, commentID string) int {
	i := s.indexOf(postID)
	if i < 0 {
		return -1
	}
	key := domain.NormalizeID(commentID)
	for j, c := range s.posts[i].Comments {
		if domain.NormalizeID(c.ID) == key {
			return j
		}
	}
	return -1
}

// WithCommentRemoved removes one comment from a post. Absent post or
// comment is a no-op.
func (s Interactions) WithCommentRemoved(postID, commentID string) Interactions {
	i := s.indexOf(postID)
	if i < 0 {
		return s
	}
	key := domain.NormalizeID(commentID)
	at := -1
	for j, c := range s.posts[i].Comments {
		if domain.NormalizeID(c.ID) == key {
			at = j
			break
		}
	}
	if at < 0 {
		return s
	}
	out := clonePosts(s.posts)
	comments := make([]domain.Comment, 0, len(out[i].Comments)-1)
	comments = append(comments, out[i].Comments[:at]...)
	comments = append(comments, out[i].Comments[at+1:]...)
	out[i].Comments = comments
	return Interactions{posts: out}
}

// WithCommentReplaced swaps a comment for its server-confirmed version,
// keeping its position within the post.
func (s Interactions) WithCommentReplaced(postID, commentID string, comment domain.Comment) Interactions {
	i := s.indexOf(postID)
	if i < 0 {
		return s
	}
	key := domain.NormalizeID(commentID)
	at := -1
	for j, c := range s.posts[i].Comments {
		if domain.NormalizeID(c.ID) == key {
			at = j
			break
		}
	}
	if at < 0 {
		return s
	}
	out := clonePosts(s.posts)
	comments := append([]domain.Comment{}, out[i].Comments...)
	comments[at] = comment
	out[i].Comments = comments
	return Interactions{posts: out}
}

// PostIndex returns the position of a post, or -1.
func (s Interactions) PostIndex(postID string) int {
	return s.indexOf(postID)
}

func (s Interactions) indexOf(postID string) int {
	key := domain.NormalizeID(postID)
	if key == "" {
		return -1
	}
	for i, p := range s.posts {
		if domain.NormalizeID(p.ID) == key {
			return i
		}
	}
	return -1
}

func clonePosts(posts []domain.Post) []domain.Post {
	out := make([]domain.Post, len(posts))
	copy(out, posts)
	return out
}
