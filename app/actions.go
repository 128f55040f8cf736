package app

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/volunteerhub/hubterm/domain"
	"github.com/volunteerhub/hubterm/reconcile"
	"github.com/volunteerhub/hubterm/store"
)

// Outcome is what every settled action reports back to its caller. The
// shared State is guaranteed to be fully settled (confirmed or reverted)
// before an Outcome is returned.
type Outcome struct {
	OK      bool
	Info    bool // True when a duplicate failure was reconciled as success.
	Message string
}

// Actions is the single entry point for every mutating user interaction.
// Each Start* applies the speculative change synchronously; Settle resolves
// it against the remote response and fires exactly one notification.
// Screens never touch State directly for writes.
//
// Actions is single-goroutine like the State it owns. Only the request
// function handed out in a PendingAction may run elsewhere.
type Actions struct {
	state    *State
	feed     FeedService
	reg      RegistrationService
	mutator  *reconcile.Mutator
	notifier Notifier
	viewer   Profile

	now   func() time.Time
	newID func() string
}

// NewActions wires the facade. notifier may be nil for headless use.
func NewActions(state *State, feed FeedService, reg RegistrationService, notifier Notifier) *Actions {
	return &Actions{
		state:    state,
		feed:     feed,
		reg:      reg,
		mutator:  reconcile.NewMutator(),
		notifier: notifier,
		now:      time.Now,
		newID:    func() string { return "local-" + uuid.NewString() },
	}
}

// SetViewer records the authenticated user, used to author optimistic
// entries and mark own posts.
func (a *Actions) SetViewer(p Profile) { a.viewer = p }

// State returns the shared state the actions operate on.
func (a *Actions) State() *State { return a.state }

// PendingAction is one in-flight interaction. The TUI starts it on the
// update loop, runs Request in a command goroutine, and settles the result
// back on the update loop.
type PendingAction struct {
	pending *reconcile.Pending
	request func(context.Context) error
	confirm func() // Server-field reconciliation; runs on plain confirm.
	success string
	info    string
}

// Request performs the action's single remote call.
func (p *PendingAction) Request(ctx context.Context) error {
	if p.request == nil {
		return nil
	}
	return p.request(ctx)
}

// Settle resolves a pending action and notifies its outcome. Safe to call
// with the error (or nil) from Request exactly once per action.
func (a *Actions) Settle(p *PendingAction, err error) Outcome {
	if p.pending == nil {
		// The target state already held locally; nothing was dispatched.
		return a.report(LevelSuccess, Outcome{OK: true, Message: p.success})
	}

	res := a.mutator.Settle(p.pending, err)
	switch res.State {
	case reconcile.Confirmed:
		if res.Reclassified {
			return a.report(LevelInfo, Outcome{OK: true, Info: true, Message: p.info})
		}
		if p.confirm != nil {
			p.confirm()
		}
		return a.report(LevelSuccess, Outcome{OK: true, Message: p.success})
	default: // RolledBack or Superseded: the failure is surfaced either way.
		return a.report(LevelError, Outcome{OK: false, Message: res.Err.Error()})
	}
}

// --- Like ---

// StartToggleLike flips the viewer's like on a post.
func (a *Actions) StartToggleLike(postID string) *PendingAction {
	id := domain.NormalizeID(postID)
	kind := reconcile.KindLike
	success := "Liked."
	info := "Already liked."
	if p, ok := a.state.Interactions.Post(id); ok && p.Liked {
		kind = reconcile.KindUnlike
		success = "Like removed."
		info = "Like was already removed."
	}

	pending := a.mutator.Start(reconcile.Action{
		Kind:   kind,
		Entity: "post:" + id,
		// The flip is its own exact inverse; rapid double-toggling
		// converges instead of double-counting.
		Apply:  func() { a.state.Interactions = a.state.Interactions.WithLikeToggled(id) },
		Revert: func() { a.state.Interactions = a.state.Interactions.WithLikeToggled(id) },
	})
	return &PendingAction{
		pending: pending,
		request: func(ctx context.Context) error { return a.feed.ToggleLike(ctx, id, TargetPost) },
		success: success,
		info:    info,
	}
}

// ToggleLike is the synchronous form of StartToggleLike + Settle.
func (a *Actions) ToggleLike(ctx context.Context, postID string) Outcome {
	p := a.StartToggleLike(postID)
	return a.Settle(p, p.Request(ctx))
}

// --- Posts ---

// StartCreatePost publishes a post optimistically under a temporary id.
func (a *Actions) StartCreatePost(eventID, title, body string) (*PendingAction, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, domain.ErrEmptyContent
	}
	eventID = domain.NormalizeID(eventID)
	if eventID == "" {
		return nil, domain.ErrNoEvent
	}

	tempID := a.newID()
	post := domain.Post{
		ID:        tempID,
		EventID:   eventID,
		AuthorID:  a.viewer.ID,
		Author:    a.authorName(),
		Title:     strings.TrimSpace(title),
		Body:      body,
		CreatedAt: a.now(),
		IsOwn:     true,
	}

	pending := a.mutator.Start(reconcile.Action{
		Kind:   reconcile.KindAddPost,
		Entity: "post:" + tempID,
		Apply:  func() { a.state.Interactions = a.state.Interactions.WithPostAdded(post) },
		Revert: func() { a.state.Interactions = a.state.Interactions.WithPostRemoved(tempID) },
	})
	pa := &PendingAction{
		pending: pending,
		success: "Post published!",
		info:    "Post already exists.",
	}
	pa.request = func(ctx context.Context) error {
		created, err := a.feed.CreatePost(ctx, eventID, post.Title, post.Body)
		if err != nil {
			return err
		}
		confirmed := post
		if id := domain.NormalizeID(created.ID); id != "" {
			confirmed.ID = id
		}
		if !created.CreatedAt.IsZero() {
			confirmed.CreatedAt = created.CreatedAt
		}
		pa.confirm = func() {
			a.state.Interactions = a.state.Interactions.WithPostReplaced(tempID, confirmed)
		}
		return nil
	}
	return pa, nil
}

// CreatePost is the synchronous form.
func (a *Actions) CreatePost(ctx context.Context, eventID, title, body string) Outcome {
	p, err := a.StartCreatePost(eventID, title, body)
	if err != nil {
		return a.report(LevelError, Outcome{OK: false, Message: err.Error()})
	}
	return a.Settle(p, p.Request(ctx))
}

// StartDeletePost removes a post optimistically. Deleting a post that is
// already gone locally (e.g. removed by a concurrent rollback) is a no-op
// that settles as success without a request.
func (a *Actions) StartDeletePost(postID string) *PendingAction {
	id := domain.NormalizeID(postID)
	snapshot, ok := a.state.Interactions.Post(id)
	if !ok {
		return &PendingAction{success: "Post deleted."}
	}
	index := a.state.Interactions.PostIndex(id)

	pending := a.mutator.Start(reconcile.Action{
		Kind:   reconcile.KindDeletePost,
		Entity: "post:" + id,
		Apply:  func() { a.state.Interactions = a.state.Interactions.WithPostRemoved(id) },
		Revert: func() { a.state.Interactions = a.state.Interactions.WithPostInserted(index, snapshot) },
	})
	return &PendingAction{
		pending: pending,
		request: func(ctx context.Context) error {
			if domain.IsLocal(id) {
				// Unconfirmed optimistic post: it exists nowhere else.
				return nil
			}
			return a.feed.DeletePost(ctx, id)
		},
		success: "Post deleted.",
		info:    "Post was already deleted.",
	}
}

// DeletePost is the synchronous form.
func (a *Actions) DeletePost(ctx context.Context, postID string) Outcome {
	p := a.StartDeletePost(postID)
	return a.Settle(p, p.Request(ctx))
}

// --- Comments ---

// StartAddComment appends a comment optimistically under a temporary id.
func (a *Actions) StartAddComment(postID, content string) (*PendingAction, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.ErrEmptyContent
	}
	id := domain.NormalizeID(postID)

	tempID := a.newID()
	comment := domain.Comment{
		ID:        tempID,
		PostID:    id,
		AuthorID:  a.viewer.ID,
		Author:    a.authorName(),
		Content:   content,
		CreatedAt: a.now(),
		IsOwn:     true,
	}

	pending := a.mutator.Start(reconcile.Action{
		Kind:   reconcile.KindAddComment,
		Entity: "comment:" + tempID,
		Apply:  func() { a.state.Interactions = a.state.Interactions.WithCommentAdded(id, comment) },
		Revert: func() { a.state.Interactions = a.state.Interactions.WithCommentRemoved(id, tempID) },
	})
	pa := &PendingAction{
		pending: pending,
		success: "Comment added.",
		info:    "Comment already exists.",
	}
	pa.request = func(ctx context.Context) error {
		created, err := a.feed.CreateComment(ctx, id, content)
		if err != nil {
			return err
		}
		confirmed := comment
		if cid := domain.NormalizeID(created.ID); cid != "" {
			confirmed.ID = cid
		}
		if !created.CreatedAt.IsZero() {
			confirmed.CreatedAt = created.CreatedAt
		}
		pa.confirm = func() {
			a.state.Interactions = a.state.Interactions.WithCommentReplaced(id, tempID, confirmed)
		}
		return nil
	}
	return pa, nil
}

// AddComment is the synchronous form.
func (a *Actions) AddComment(ctx context.Context, postID, content string) Outcome {
	p, err := a.StartAddComment(postID, content)
	if err != nil {
		return a.report(LevelError, Outcome{OK: false, Message: err.Error()})
	}
	return a.Settle(p, p.Request(ctx))
}

// StartDeleteComment removes a comment optimistically. A comment already
// gone locally settles as success without a request.
func (a *Actions) StartDeleteComment(postID, commentID string) *PendingAction {
	pid := domain.NormalizeID(postID)
	cid := domain.NormalizeID(commentID)
	snapshot, ok := a.state.Interactions.Comment(pid, cid)
	if !ok {
		return &PendingAction{success: "Comment deleted."}
	}
	index := a.state.Interactions.CommentIndex(pid, cid)

	pending := a.mutator.Start(reconcile.Action{
		Kind:   reconcile.KindDeleteComment,
		Entity: "comment:" + cid,
		Apply:  func() { a.state.Interactions = a.state.Interactions.WithCommentRemoved(pid, cid) },
		Revert: func() {
			a.state.Interactions = a.state.Interactions.WithCommentInserted(pid, index, snapshot)
		},
	})
	return &PendingAction{
		pending: pending,
		request: func(ctx context.Context) error {
			if domain.IsLocal(cid) {
				return nil
			}
			return a.feed.DeleteComment(ctx, cid)
		},
		success: "Comment deleted.",
		info:    "Comment was already deleted.",
	}
}

// DeleteComment is the synchronous form.
func (a *Actions) DeleteComment(ctx context.Context, postID, commentID string) Outcome {
	p := a.StartDeleteComment(postID, commentID)
	return a.Settle(p, p.Request(ctx))
}

// --- Registration ---

// StartRegister signs the user up for an event optimistically.
func (a *Actions) StartRegister(eventID string) *PendingAction {
	id := domain.NormalizeID(eventID)
	had := a.state.Registrations.Has(id)

	pending := a.mutator.Start(reconcile.Action{
		Kind:   reconcile.KindRegister,
		Entity: "event:" + id,
		Apply:  func() { a.state.Registrations = a.state.Registrations.WithAdded(id) },
		Revert: func() {
			// Exact inverse: membership that predates the action survives
			// its rollback.
			if !had {
				a.state.Registrations = a.state.Registrations.WithRemoved(id)
			}
		},
	})
	return &PendingAction{
		pending: pending,
		request: func(ctx context.Context) error { return a.reg.Register(ctx, id) },
		success: "Registered for this event!",
		info:    "You're already registered for this event.",
	}
}

// Register is the synchronous form.
func (a *Actions) Register(ctx context.Context, eventID string) Outcome {
	p := a.StartRegister(eventID)
	return a.Settle(p, p.Request(ctx))
}

// StartUnregister withdraws the user from an event optimistically.
func (a *Actions) StartUnregister(eventID string) *PendingAction {
	id := domain.NormalizeID(eventID)
	had := a.state.Registrations.Has(id)

	pending := a.mutator.Start(reconcile.Action{
		Kind:   reconcile.KindUnregister,
		Entity: "event:" + id,
		Apply:  func() { a.state.Registrations = a.state.Registrations.WithRemoved(id) },
		Revert: func() {
			if had {
				a.state.Registrations = a.state.Registrations.WithAdded(id)
			}
		},
	})
	return &PendingAction{
		pending: pending,
		request: func(ctx context.Context) error { return a.reg.Unregister(ctx, id) },
		success: "Registration withdrawn.",
		info:    "You were not registered for this event.",
	}
}

// Unregister is the synchronous form.
func (a *Actions) Unregister(ctx context.Context, eventID string) Outcome {
	p := a.StartUnregister(eventID)
	return a.Settle(p, p.Request(ctx))
}

// --- Fetch/apply (non-optimistic reads) ---

// FetchEventWall loads an event and its posts. The caller applies the
// result on the goroutine that owns State.
func (a *Actions) FetchEventWall(ctx context.Context, eventID string) (domain.Event, store.Interactions, error) {
	event, posts, err := a.feed.EventWall(ctx, domain.NormalizeID(eventID))
	if err != nil {
		return domain.Event{}, store.Interactions{}, err
	}
	return event, store.NewInteractions(posts), nil
}

// ApplyEventWall replaces the wall state for a freshly loaded event.
func (a *Actions) ApplyEventWall(event domain.Event, interactions store.Interactions) {
	a.state.Event = event
	a.state.Interactions = interactions
}

// FetchRegistrations loads the user's registered event ids in normalized
// form. The caller applies the result on the goroutine that owns State.
func (a *Actions) FetchRegistrations(ctx context.Context) (store.Registrations, error) {
	raw, err := a.reg.RegisteredEventIDs(ctx)
	if err != nil {
		return store.Registrations{}, err
	}
	return store.RegistrationsFromRaw(raw), nil
}

// ApplyRegistrations replaces the registration set.
func (a *Actions) ApplyRegistrations(set store.Registrations) {
	a.state.Registrations = set
}

func (a *Actions) authorName() string {
	if a.viewer.Name != "" {
		return a.viewer.Name
	}
	if a.viewer.Username != "" {
		return a.viewer.Username
	}
	return "You"
}

func (a *Actions) report(level Level, o Outcome) Outcome {
	if a.notifier != nil {
		a.notifier.Notify(level, o.Message)
	}
	return o
}
