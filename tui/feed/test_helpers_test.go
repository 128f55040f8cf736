package feed

import (
	"context"
	"errors"
	"time"

	"github.com/volunteerhub/hubterm/app"
	"github.com/volunteerhub/hubterm/domain"
	"github.com/volunteerhub/hubterm/store"
)

type stubFeed struct {
	err       error
	created   int
	deleted   []string
	likes     []string
	comments  []string
	delComms  []string
	createdID string
}

func (s *stubFeed) EventWall(context.Context, string) (domain.Event, []domain.Post, error) {
	return domain.Event{}, nil, s.err
}

func (s *stubFeed) CreatePost(context.Context, string, string, string) (app.Created, error) {
	if s.err != nil {
		return app.Created{}, s.err
	}
	s.created++
	id := s.createdID
	if id == "" {
		id = "900"
	}
	return app.Created{ID: id, CreatedAt: time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)}, nil
}

func (s *stubFeed) DeletePost(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return s.err
}

func (s *stubFeed) CreateComment(_ context.Context, postID, _ string) (app.Created, error) {
	if s.err != nil {
		return app.Created{}, s.err
	}
	s.comments = append(s.comments, postID)
	return app.Created{ID: "700"}, nil
}

func (s *stubFeed) DeleteComment(_ context.Context, id string) error {
	s.delComms = append(s.delComms, id)
	return s.err
}

func (s *stubFeed) ToggleLike(_ context.Context, id string, _ app.TargetType) error {
	s.likes = append(s.likes, id)
	return s.err
}

type stubReg struct {
	err        error
	registered []string
}

func (s *stubReg) Register(_ context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	s.registered = append(s.registered, id)
	return nil
}

func (s *stubReg) Unregister(context.Context, string) error { return s.err }

func (s *stubReg) RegisteredEventIDs(context.Context) ([]any, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]any, len(s.registered))
	for i, id := range s.registered {
		out[i] = id
	}
	return out, nil
}

type sink struct {
	levels   []app.Level
	messages []string
}

func (s *sink) Notify(level app.Level, message string) {
	s.levels = append(s.levels, level)
	s.messages = append(s.messages, message)
}

func makePost(id, authorID string, own bool) domain.Post {
	return domain.Post{
		ID:        id,
		EventID:   "e1",
		AuthorID:  authorID,
		Author:    "user" + id,
		Title:     "Post " + id,
		Body:      "body " + id,
		CreatedAt: time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
		IsOwn:     own,
	}
}

func newTestModel(posts ...domain.Post) (Model, *stubFeed, *sink) {
	feed := &stubFeed{}
	reg := &stubReg{}
	notes := &sink{}
	state := &app.State{Interactions: store.NewInteractions(posts)}
	actions := app.NewActions(state, feed, reg, notes)
	actions.SetViewer(app.Profile{ID: "u1", Username: "me"})

	m := New(actions, "e1")
	m.loading = false
	return m, feed, notes
}

var errNetwork = errors.New("network down")
