package feed

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/volunteerhub/hubterm/app"
	"github.com/volunteerhub/hubterm/domain"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// settleNow executes a pending action's command and feeds the settle
// message back, the way the program loop would.
func settleNow(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected a command to settle the action")
	}
	msg := cmd()
	settled, ok := msg.(SettledMsg)
	if !ok {
		t.Fatalf("expected SettledMsg, got %T", msg)
	}
	m, _ = m.Update(settled)
	return m
}

func TestLikeKey_FlipsImmediatelyAndConfirms(t *testing.T) {
	m, feed, notes := newTestModel(makePost("1", "u2", false))

	m, cmd := m.Update(keyRunes("l"))
	post, _ := m.Selected()
	if !post.Liked || post.LikeCount != 1 {
		t.Fatalf("expected immediate like flip, got liked=%v count=%d", post.Liked, post.LikeCount)
	}

	m = settleNow(t, m, cmd)
	post, _ = m.Selected()
	if !post.Liked || post.LikeCount != 1 {
		t.Fatalf("expected like to survive confirmation, got liked=%v count=%d", post.Liked, post.LikeCount)
	}
	if len(feed.likes) != 1 || feed.likes[0] != "1" {
		t.Fatalf("expected one like request for post 1, got %v", feed.likes)
	}
	if len(notes.levels) != 1 || notes.levels[0] != app.LevelSuccess {
		t.Fatalf("expected one success notification, got %v", notes.levels)
	}
}

func TestLikeKey_RollsBackOnFailure(t *testing.T) {
	m, feed, notes := newTestModel(makePost("1", "u2", false))
	feed.err = errNetwork

	m, cmd := m.Update(keyRunes("l"))
	m = settleNow(t, m, cmd)

	post, _ := m.Selected()
	if post.Liked || post.LikeCount != 0 {
		t.Fatalf("expected like rolled back, got liked=%v count=%d", post.Liked, post.LikeCount)
	}
	if len(notes.levels) != 1 || notes.levels[0] != app.LevelError {
		t.Fatalf("expected one error notification, got %v", notes.levels)
	}
}

func TestDeletePost_RequiresConfirmation(t *testing.T) {
	m, feed, _ := newTestModel(makePost("1", "u1", true), makePost("2", "u2", false))

	m, _ = m.Update(keyRunes("d"))
	if !m.confirmDelete {
		t.Fatalf("expected delete confirmation prompt")
	}
	if len(m.Posts()) != 2 {
		t.Fatalf("post must not be removed before confirmation")
	}

	m, _ = m.Update(keyRunes("n"))
	if m.confirmDelete || len(m.Posts()) != 2 {
		t.Fatalf("expected 'n' to cancel deletion")
	}

	m, _ = m.Update(keyRunes("d"))
	m, cmd := m.Update(keyRunes("y"))
	if len(m.Posts()) != 1 || m.Posts()[0].ID != "2" {
		t.Fatalf("expected post 1 removed immediately, got %v", m.Posts())
	}

	m = settleNow(t, m, cmd)
	if len(m.Posts()) != 1 {
		t.Fatalf("expected deletion to stick after confirmation")
	}
	if len(feed.deleted) != 1 || feed.deleted[0] != "1" {
		t.Fatalf("expected delete request for post 1, got %v", feed.deleted)
	}
}

func TestDeletePost_RollbackRestoresPosition(t *testing.T) {
	m, feed, _ := newTestModel(makePost("1", "u2", false), makePost("2", "u1", true), makePost("3", "u2", false))
	feed.err = errNetwork

	m, _ = m.Update(keyRunes("j")) // select post 2
	m, _ = m.Update(keyRunes("d"))
	m, cmd := m.Update(keyRunes("y"))
	if len(m.Posts()) != 2 {
		t.Fatalf("expected optimistic removal, got %d posts", len(m.Posts()))
	}

	m = settleNow(t, m, cmd)
	posts := m.Posts()
	if len(posts) != 3 || posts[1].ID != "2" {
		t.Fatalf("expected post 2 restored at its original position, got %v", posts)
	}
}

func TestDeleteKey_IgnoredForForeignPost(t *testing.T) {
	m, _, _ := newTestModel(makePost("1", "u2", false))

	m, _ = m.Update(keyRunes("d"))
	if m.confirmDelete {
		t.Fatalf("must not offer deletion of someone else's post")
	}
}

func TestInlineComment_AddAndReconcileServerID(t *testing.T) {
	m, feed, _ := newTestModel(makePost("1", "u2", false))

	m, _ = m.Update(keyRunes("c"))
	if !m.CapturesInput() {
		t.Fatalf("expected inline comment input to capture keys")
	}

	for _, r := range "cảm ơn!" {
		m, _ = m.Update(keyRunes(string(r)))
	}
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.CapturesInput() {
		t.Fatalf("expected input to close on enter")
	}

	post, _ := m.Selected()
	if len(post.Comments) != 1 || !domain.IsLocal(post.Comments[0].ID) {
		t.Fatalf("expected one optimistic comment with a local id, got %v", post.Comments)
	}
	if post.Comments[0].Content != "cảm ơn!" {
		t.Fatalf("expected comment content preserved, got %q", post.Comments[0].Content)
	}

	m = settleNow(t, m, cmd)
	post, _ = m.Selected()
	if len(post.Comments) != 1 || post.Comments[0].ID != "700" {
		t.Fatalf("expected server id after confirmation, got %v", post.Comments)
	}
	if len(feed.comments) != 1 || feed.comments[0] != "1" {
		t.Fatalf("expected comment request for post 1, got %v", feed.comments)
	}
}

func TestInlineComment_EscCancelsWithoutSending(t *testing.T) {
	m, feed, _ := newTestModel(makePost("1", "u2", false))

	m, _ = m.Update(keyRunes("c"))
	m, _ = m.Update(keyRunes("x"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if m.CapturesInput() {
		t.Fatalf("expected esc to close the input")
	}
	post, _ := m.Selected()
	if len(post.Comments) != 0 || len(feed.comments) != 0 {
		t.Fatalf("cancelled comment must not be added or sent")
	}
}

func TestInlineComment_BlankIsDiscarded(t *testing.T) {
	m, feed, _ := newTestModel(makePost("1", "u2", false))

	m, _ = m.Update(keyRunes("c"))
	m, _ = m.Update(keyRunes(" "))
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if cmd != nil {
		t.Fatalf("blank comment must not dispatch a request")
	}
	post, _ := m.Selected()
	if len(post.Comments) != 0 || len(feed.comments) != 0 {
		t.Fatalf("blank comment must be discarded")
	}
}

func TestDeleteComment_ViaCommentCursor(t *testing.T) {
	post := makePost("1", "u2", false)
	post.Comments = []domain.Comment{
		{ID: "c1", PostID: "1", AuthorID: "u2", Author: "user2", Content: "hi", IsOwn: false},
		{ID: "c2", PostID: "1", AuthorID: "u1", Author: "me", Content: "mine", IsOwn: true},
	}
	m, feed, _ := newTestModel(post)

	m, _ = m.Update(keyRunes("j")) // comment c1
	m, _ = m.Update(keyRunes("d"))
	if m.confirmDelete {
		t.Fatalf("must not offer deletion of someone else's comment")
	}

	m, _ = m.Update(keyRunes("j")) // comment c2
	m, _ = m.Update(keyRunes("d"))
	if !m.confirmDelete {
		t.Fatalf("expected confirmation for own comment")
	}
	m, cmd := m.Update(keyRunes("y"))

	got, _ := m.Selected()
	if len(got.Comments) != 1 || got.Comments[0].ID != "c1" {
		t.Fatalf("expected c2 removed immediately, got %v", got.Comments)
	}

	m = settleNow(t, m, cmd)
	if len(feed.delComms) != 1 || feed.delComms[0] != "c2" {
		t.Fatalf("expected delete request for c2, got %v", feed.delComms)
	}
}

func TestCreatePost_ReconcilesServerID(t *testing.T) {
	m, feed, _ := newTestModel(makePost("1", "u2", false))
	feed.createdID = "42"

	m, cmd := m.CreatePost("Need hands", "Saturday cleanup crew")
	posts := m.Posts()
	if len(posts) != 2 || !domain.IsLocal(posts[0].ID) {
		t.Fatalf("expected optimistic post at the top with a local id, got %v", posts)
	}
	if posts[0].Title != "Need hands" || posts[0].Author != "me" {
		t.Fatalf("expected composed title and viewer author, got %+v", posts[0])
	}

	m = settleNow(t, m, cmd)
	posts = m.Posts()
	if posts[0].ID != "42" {
		t.Fatalf("expected server id after confirmation, got %q", posts[0].ID)
	}
}

func TestCreatePost_RollbackRemovesDraft(t *testing.T) {
	m, feed, notes := newTestModel(makePost("1", "u2", false))
	feed.err = errNetwork

	m, cmd := m.CreatePost("Need hands", "Saturday cleanup crew")
	m = settleNow(t, m, cmd)

	posts := m.Posts()
	if len(posts) != 1 || posts[0].ID != "1" {
		t.Fatalf("expected failed post removed, got %v", posts)
	}
	if len(notes.levels) != 1 || notes.levels[0] != app.LevelError {
		t.Fatalf("expected one error notification, got %v", notes.levels)
	}
}

func TestWallLoaded_ResetsCursors(t *testing.T) {
	m, _, _ := newTestModel(makePost("1", "u2", false), makePost("2", "u2", false))
	m.cursor = 1

	m, _ = m.Update(WallLoadedMsg{
		Event:        domain.Event{ID: "e1", Title: "Beach cleanup"},
		Interactions: m.actions.State().Interactions,
	})
	if m.cursor != 0 || m.commentCursor != 0 || m.loading {
		t.Fatalf("expected cursors reset after reload, got cursor=%d commentCursor=%d", m.cursor, m.commentCursor)
	}
	if m.event.Title != "Beach cleanup" {
		t.Fatalf("expected event header updated, got %q", m.event.Title)
	}
}

func TestBackKey_EmitsBackMsg(t *testing.T) {
	m, _, _ := newTestModel(makePost("1", "u2", false))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatalf("expected a command carrying the back message")
	}
	if _, ok := cmd().(BackMsg); !ok {
		t.Fatalf("expected BackMsg")
	}
}

func TestRapidLikeToggle_Converges(t *testing.T) {
	m, _, _ := newTestModel(makePost("1", "u2", false))

	m, cmd1 := m.Update(keyRunes("l"))
	m, cmd2 := m.Update(keyRunes("l"))
	m = settleNow(t, m, cmd1)
	m = settleNow(t, m, cmd2)

	post, _ := m.Selected()
	if post.Liked || post.LikeCount != 0 {
		t.Fatalf("double toggle must converge to unliked, got liked=%v count=%d", post.Liked, post.LikeCount)
	}
}

func TestCommentNavigation_WalksIntoComments(t *testing.T) {
	post := makePost("1", "u2", false)
	post.CreatedAt = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	post.Comments = []domain.Comment{
		{ID: "c1", PostID: "1", Content: "first"},
		{ID: "c2", PostID: "1", Content: "second"},
	}
	m, _, _ := newTestModel(post, makePost("2", "u2", false))

	m, _ = m.Update(keyRunes("j"))
	if m.cursor != 0 || m.commentCursor != 1 {
		t.Fatalf("expected first comment selected, got cursor=%d commentCursor=%d", m.cursor, m.commentCursor)
	}
	m, _ = m.Update(keyRunes("j"))
	m, _ = m.Update(keyRunes("j"))
	if m.cursor != 1 || m.commentCursor != 0 {
		t.Fatalf("expected next post after last comment, got cursor=%d commentCursor=%d", m.cursor, m.commentCursor)
	}
	m, _ = m.Update(keyRunes("k"))
	if m.cursor != 0 || m.commentCursor != 0 {
		t.Fatalf("expected moving up to land on the post itself, got cursor=%d commentCursor=%d", m.cursor, m.commentCursor)
	}
}
