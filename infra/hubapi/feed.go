package hubapi

import (
	"context"
	"time"

	"github.com/volunteerhub/hubterm/app"
	"github.com/volunteerhub/hubterm/domain"
)

// feedService implements app.FeedService on top of the GraphQL API.
// viewerID marks which posts and comments belong to the authenticated user.
type feedService struct {
	client   *Client
	viewerID string
}

// NewFeedService wraps a client as an event-wall service for the given
// viewer.
func NewFeedService(c *Client, viewerID string) app.FeedService {
	return &feedService{client: c, viewerID: domain.NormalizeID(viewerID)}
}

const eventWallQuery = `
query GetEvent($eventId: ID!) {
  getEvent(eventId: $eventId) {
    eventId
    eventName
    eventDescription
    eventLocation
    startAt
    endAt
    memberCount
    postCount
    listPosts(page: 0, size: 50) {
      content {
        postId
        eventId
        title
        content
        createdAt
        likeCount
        isLiked
        creatorInfo {
          userId
          username
        }
        listComment(page: 0, size: 50) {
          content {
            commentId
            postId
            content
            createdAt
            creatorInfo {
              userId
              username
            }
          }
        }
      }
    }
  }
}`

type wireCreator struct {
	UserID   any    `json:"userId"`
	Username string `json:"username"`
}

type wireComment struct {
	CommentID   any         `json:"commentId"`
	PostID      any         `json:"postId"`
	Content     string      `json:"content"`
	CreatedAt   string      `json:"createdAt"`
	CreatorInfo wireCreator `json:"creatorInfo"`
}

type wirePost struct {
	PostID      any         `json:"postId"`
	EventID     any         `json:"eventId"`
	Title       string      `json:"title"`
	Content     string      `json:"content"`
	CreatedAt   string      `json:"createdAt"`
	LikeCount   int         `json:"likeCount"`
	IsLiked     bool        `json:"isLiked"`
	CreatorInfo wireCreator `json:"creatorInfo"`
	ListComment struct {
		Content []wireComment `json:"content"`
	} `json:"listComment"`
}

type wireEvent struct {
	EventID          any    `json:"eventId"`
	EventName        string `json:"eventName"`
	EventDescription string `json:"eventDescription"`
	EventLocation    string `json:"eventLocation"`
	StartAt          string `json:"startAt"`
	EndAt            string `json:"endAt"`
	MemberCount      int    `json:"memberCount"`
	PostCount        int    `json:"postCount"`
	ListPosts        struct {
		Content []wirePost `json:"content"`
	} `json:"listPosts"`
}

func (s *feedService) EventWall(ctx context.Context, eventID string) (domain.Event, []domain.Post, error) {
	var out struct {
		GetEvent wireEvent `json:"getEvent"`
	}
	vars := map[string]any{"eventId": eventID}
	if err := s.client.Query(ctx, eventWallQuery, vars, &out); err != nil {
		return domain.Event{}, nil, err
	}

	we := out.GetEvent
	event := domain.Event{
		ID:          domain.NormalizeID(we.EventID),
		Title:       we.EventName,
		Description: we.EventDescription,
		Location:    we.EventLocation,
		StartAt:     parseTime(we.StartAt),
		EndAt:       parseTime(we.EndAt),
		MemberCount: we.MemberCount,
		PostCount:   we.PostCount,
	}

	posts := make([]domain.Post, 0, len(we.ListPosts.Content))
	for _, wp := range we.ListPosts.Content {
		posts = append(posts, s.mapPost(wp))
	}
	return event, posts, nil
}

func (s *feedService) mapPost(wp wirePost) domain.Post {
	authorID := domain.NormalizeID(wp.CreatorInfo.UserID)
	post := domain.Post{
		ID:        domain.NormalizeID(wp.PostID),
		EventID:   domain.NormalizeID(wp.EventID),
		AuthorID:  authorID,
		Author:    wp.CreatorInfo.Username,
		Title:     wp.Title,
		Body:      wp.Content,
		CreatedAt: parseTime(wp.CreatedAt),
		LikeCount: wp.LikeCount,
		Liked:     wp.IsLiked,
		IsOwn:     authorID != "" && authorID == s.viewerID,
	}
	for _, wc := range wp.ListComment.Content {
		cAuthorID := domain.NormalizeID(wc.CreatorInfo.UserID)
		post.Comments = append(post.Comments, domain.Comment{
			ID:        domain.NormalizeID(wc.CommentID),
			PostID:    domain.NormalizeID(wc.PostID),
			AuthorID:  cAuthorID,
			Author:    wc.CreatorInfo.Username,
			Content:   wc.Content,
			CreatedAt: parseTime(wc.CreatedAt),
			IsOwn:     cAuthorID != "" && cAuthorID == s.viewerID,
		})
	}
	return post
}

// mutationResult is the API's shared mutation envelope. ok:false with a
// message is a domain-level rejection, distinct from transport failures.
type mutationResult struct {
	OK        bool   `json:"ok"`
	ID        any    `json:"id"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
}

func (r mutationResult) err() error {
	if r.OK {
		return nil
	}
	msg := r.Message
	if msg == "" {
		msg = "request rejected"
	}
	return &Error{Message: msg}
}

func (r mutationResult) created() app.Created {
	return app.Created{
		ID:        domain.NormalizeID(r.ID),
		CreatedAt: parseTime(r.CreatedAt),
	}
}

func (s *feedService) CreatePost(ctx context.Context, eventID, title, body string) (app.Created, error) {
	const mutation = `
mutation CreatePost($input: CreatePostInput!) {
  createPost(input: $input) { ok id message createdAt }
}`
	var out struct {
		CreatePost mutationResult `json:"createPost"`
	}
	vars := map[string]any{"input": map[string]any{
		"eventId": eventID,
		"title":   title,
		"content": body,
	}}
	if err := s.client.Query(ctx, mutation, vars, &out); err != nil {
		return app.Created{}, err
	}
	if err := out.CreatePost.err(); err != nil {
		return app.Created{}, err
	}
	return out.CreatePost.created(), nil
}

func (s *feedService) DeletePost(ctx context.Context, postID string) error {
	const mutation = `
mutation DeletePost($postId: ID!) {
  deletePost(postId: $postId) { ok message }
}`
	var out struct {
		DeletePost mutationResult `json:"deletePost"`
	}
	if err := s.client.Query(ctx, mutation, map[string]any{"postId": postID}, &out); err != nil {
		return err
	}
	return out.DeletePost.err()
}

func (s *feedService) CreateComment(ctx context.Context, postID, content string) (app.Created, error) {
	const mutation = `
mutation CreateComment($input: CreateCommentInput!) {
  createComment(input: $input) { ok id message createdAt }
}`
	var out struct {
		CreateComment mutationResult `json:"createComment"`
	}
	vars := map[string]any{"input": map[string]any{
		"postId":  postID,
		"content": content,
	}}
	if err := s.client.Query(ctx, mutation, vars, &out); err != nil {
		return app.Created{}, err
	}
	if err := out.CreateComment.err(); err != nil {
		return app.Created{}, err
	}
	return out.CreateComment.created(), nil
}

func (s *feedService) DeleteComment(ctx context.Context, commentID string) error {
	const mutation = `
mutation DeleteComment($commentId: ID!) {
  deleteComment(commentId: $commentId) { ok message }
}`
	var out struct {
		DeleteComment mutationResult `json:"deleteComment"`
	}
	if err := s.client.Query(ctx, mutation, map[string]any{"commentId": commentID}, &out); err != nil {
		return err
	}
	return out.DeleteComment.err()
}

func (s *feedService) ToggleLike(ctx context.Context, targetID string, target app.TargetType) error {
	const mutation = `
mutation Like($input: LikeInput!) {
  like(input: $input) { ok message }
}`
	var out struct {
		Like mutationResult `json:"like"`
	}
	vars := map[string]any{"input": map[string]any{
		"targetType": string(target),
		"targetId":   targetID,
	}}
	if err := s.client.Query(ctx, mutation, vars, &out); err != nil {
		return err
	}
	return out.Like.err()
}

// parseTime accepts the API's timestamp forms: RFC 3339 and the
// zone-less variant the server emits for entity timestamps.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
