package feed

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/volunteerhub/hubterm/app"
	"github.com/volunteerhub/hubterm/domain"
	"github.com/volunteerhub/hubterm/store"
	"github.com/volunteerhub/hubterm/tui/common"
)

// --- Messages ---

// WallLoadedMsg is sent when the event wall fetch completes successfully.
type WallLoadedMsg struct {
	Event        domain.Event
	Interactions store.Interactions
}

// WallErrorMsg is sent when the event wall fetch fails.
type WallErrorMsg struct {
	Err error
}

// SettledMsg is sent after an optimistic action's request finishes. The
// model settles the pending action on the update loop, which is the only
// goroutine allowed to touch shared state.
type SettledMsg struct {
	Pending *app.PendingAction
	Err     error
}

// BackMsg is sent when the user leaves the wall. The root model handles
// the view switch.
type BackMsg struct{}

// --- Model ---

type wallState struct {
	eventID string
	event   domain.Event
	loading bool
	err     error
}

type cursorState struct {
	cursor        int // Selected post index
	commentCursor int // 0 for the post itself, 1...n for its comments
	startIndex    int // First visible post (for scrolling)
}

type inputState struct {
	commentInput  bool // Inline comment input active
	commentBuffer string
	confirmDelete bool // 'Are you sure?' step for post/comment deletion
}

// Model holds the state for the event wall view.
type Model struct {
	actions *app.Actions
	wallState
	cursorState
	inputState

	keys    common.KeyMap
	spinner spinner.Model
	width   int
	height  int
}

// New creates an event wall model for the given event.
func New(actions *app.Actions, eventID string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600"))

	return Model{
		actions:   actions,
		wallState: wallState{eventID: eventID, loading: true},
		keys:      common.DefaultKeyMap(),
		spinner:   s,
	}
}

// Init starts the initial wall fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.fetchWall(),
		m.spinner.Tick,
	)
}

// EventID returns the event this wall shows.
func (m Model) EventID() string {
	return m.eventID
}

// CapturesInput reports whether the wall is consuming raw key input
// (inline comment entry), so global bindings must stay out of the way.
func (m Model) CapturesInput() bool {
	return m.commentInput
}

// Posts returns the current posts from shared state.
func (m Model) Posts() []domain.Post {
	return m.actions.State().Interactions.Posts()
}

// Selected returns the currently highlighted post, if any.
func (m Model) Selected() (domain.Post, bool) {
	posts := m.Posts()
	if len(posts) == 0 || m.cursor >= len(posts) {
		return domain.Post{}, false
	}
	return posts[m.cursor], true
}

// selectedComment returns the highlighted comment of the selected post,
// when the comment cursor is on one.
func (m Model) selectedComment() (domain.Comment, bool) {
	post, ok := m.Selected()
	if !ok || m.commentCursor == 0 || m.commentCursor > len(post.Comments) {
		return domain.Comment{}, false
	}
	return post.Comments[m.commentCursor-1], true
}
