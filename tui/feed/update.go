package feed

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages for the event wall view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case WallLoadedMsg:
		m.actions.ApplyEventWall(msg.Event, msg.Interactions)
		m.event = msg.Event
		m.loading = false
		m.err = nil
		m.cursor = 0
		m.commentCursor = 0
		return m, nil

	case WallErrorMsg:
		m.err = msg.Err
		m.loading = false
		return m, nil

	case SettledMsg:
		m.actions.Settle(msg.Pending, msg.Err)
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		if m.commentInput {
			return m.handleCommentKey(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		m.confirmDelete = false
		return m, m.fetchWall()

	case key.Matches(msg, m.keys.Up):
		m.confirmDelete = false
		if m.commentCursor > 0 {
			m.commentCursor--
		} else if m.cursor > 0 {
			m.cursor--
			m.commentCursor = 0
		}

	case key.Matches(msg, m.keys.Down):
		m.confirmDelete = false
		if post, ok := m.Selected(); ok && m.commentCursor < len(post.Comments) {
			m.commentCursor++
		} else if m.cursor < len(m.Posts())-1 {
			m.cursor++
			m.commentCursor = 0
		}

	case key.Matches(msg, m.keys.Like):
		if post, ok := m.Selected(); ok {
			pending := m.actions.StartToggleLike(post.ID)
			return m, settle(pending)
		}

	case key.Matches(msg, m.keys.Comment):
		if _, ok := m.Selected(); ok {
			m.commentInput = true
			m.commentBuffer = ""
			m.confirmDelete = false
		}

	case key.Matches(msg, m.keys.Register):
		pending := m.actions.StartRegister(m.eventID)
		return m, settle(pending)

	case key.Matches(msg, m.keys.Unregister):
		pending := m.actions.StartUnregister(m.eventID)
		return m, settle(pending)

	case key.Matches(msg, m.keys.Delete):
		if m.deletable() {
			m.confirmDelete = true
		}

	case msg.String() == "y":
		if m.confirmDelete {
			m.confirmDelete = false
			return m.deleteSelected()
		}

	case msg.String() == "n":
		m.confirmDelete = false

	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Events):
		if m.confirmDelete {
			m.confirmDelete = false
			return m, nil
		}
		return m, func() tea.Msg { return BackMsg{} }
	}

	return m, nil
}

// handleCommentKey drives the inline comment input.
func (m Model) handleCommentKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.commentInput = false
		m.commentBuffer = ""
		return m, nil

	case "enter":
		content := strings.TrimSpace(m.commentBuffer)
		m.commentInput = false
		m.commentBuffer = ""
		post, ok := m.Selected()
		if !ok || content == "" {
			return m, nil
		}
		pending, err := m.actions.StartAddComment(post.ID, content)
		if err != nil {
			return m, nil
		}
		return m, settle(pending)

	case "backspace":
		if len(m.commentBuffer) > 0 {
			runes := []rune(m.commentBuffer)
			m.commentBuffer = string(runes[:len(runes)-1])
		}
		return m, nil

	default:
		if len(msg.Runes) > 0 {
			m.commentBuffer += string(msg.Runes)
		} else if msg.String() == " " {
			m.commentBuffer += " "
		}
		return m, nil
	}
}

// deletable reports whether the highlighted post or comment belongs to
// the user and may be deleted.
func (m Model) deletable() bool {
	if comment, ok := m.selectedComment(); ok {
		return comment.IsOwn
	}
	post, ok := m.Selected()
	return ok && post.IsOwn
}

func (m Model) deleteSelected() (Model, tea.Cmd) {
	if comment, ok := m.selectedComment(); ok {
		post, _ := m.Selected()
		pending := m.actions.StartDeleteComment(post.ID, comment.ID)
		m.commentCursor = 0
		return m, settle(pending)
	}
	if post, ok := m.Selected(); ok {
		pending := m.actions.StartDeletePost(post.ID)
		m.clampCursor()
		return m, settle(pending)
	}
	return m, nil
}

// CreatePost starts an optimistic post creation from composed content.
// Called by the root model when the composer finishes.
func (m Model) CreatePost(title, body string) (Model, tea.Cmd) {
	pending, err := m.actions.StartCreatePost(m.eventID, title, body)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.cursor = 0
	m.commentCursor = 0
	return m, settle(pending)
}

func (m *Model) clampCursor() {
	posts := m.Posts()
	if m.cursor >= len(posts) {
		m.cursor = len(posts) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if post, ok := m.Selected(); !ok || m.commentCursor > len(post.Comments) {
		m.commentCursor = 0
	}
}
