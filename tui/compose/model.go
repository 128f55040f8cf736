package compose

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/volunteerhub/hubterm/infra/editor"
)

// --- Mode ---

type mode int

const (
	editorMode mode = iota
	inlineMode
)

// --- Messages ---

// DoneMsg is sent when composing is complete (success or cancel).
type DoneMsg struct {
	Content string // Empty if cancelled
	Err     error
}

// editorFinishedMsg is sent after the external editor exits.
type editorFinishedMsg struct {
	tmpPath string
	err     error
}

// --- Model ---

// Model holds the state for the compose view.
type Model struct {
	mode     mode
	editor   *editor.EnvEditor
	status   string
	err      error
	textarea textarea.Model // Only used in inline mode
	tmpPath  string         // Temp file path for editor mode
}

// NewEditor creates a compose model that opens $EDITOR via tea.Exec.
func NewEditor(ed *editor.EnvEditor) Model {
	return Model{
		mode:   editorMode,
		editor: ed,
		status: "Opening editor...",
	}
}

// NewInline creates a compose model with an inline Bubble Tea textarea.
func NewInline() Model {
	ta := textarea.New()
	ta.Placeholder = "First line is the title..."
	ta.CharLimit = 2000
	ta.SetWidth(72)
	ta.SetHeight(8)
	ta.Focus()

	return Model{
		mode:     inlineMode,
		textarea: ta,
	}
}

// Init returns the initial command for the active mode.
func (m Model) Init() tea.Cmd {
	switch m.mode {
	case editorMode:
		return m.launchEditor()
	case inlineMode:
		return textarea.Blink
	}
	return nil
}

// launchEditor prepares the editor command and uses tea.Exec to properly
// suspend Bubble Tea's raw terminal mode while the editor runs.
func (m *Model) launchEditor() tea.Cmd {
	cmd, tmpPath, err := m.editor.Cmd("")
	if err != nil {
		return func() tea.Msg {
			return DoneMsg{Err: fmt.Errorf("preparing editor: %w", err)}
		}
	}
	m.tmpPath = tmpPath

	// tea.ExecProcess suspends Bubble Tea, runs the command with full terminal
	// control, then resumes Bubble Tea and delivers the callback message.
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{tmpPath: tmpPath, err: err}
	})
}

// Update handles messages for the compose view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {

	// --- Editor mode messages ---

	case editorFinishedMsg:
		if msg.err != nil {
			return m, done(DoneMsg{Err: fmt.Errorf("editor: %w", msg.err)})
		}

		content, err := m.editor.ReadContent(msg.tmpPath)
		if err != nil {
			return m, done(DoneMsg{Err: err})
		}
		return m, done(DoneMsg{Content: content})

	// --- Inline mode messages ---

	case tea.KeyMsg:
		if m.mode != inlineMode {
			break
		}

		switch msg.String() {
		case "esc":
			return m, done(DoneMsg{}) // Cancel.

		case "ctrl+d":
			return m, done(DoneMsg{Content: m.textarea.Value()})
		}

		// Delegate to textarea for normal typing.
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		return m, cmd
	}

	// Pass through any remaining messages to textarea in inline mode.
	if m.mode == inlineMode {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		return m, cmd
	}

	return m, nil
}

// done wraps a DoneMsg into a tea.Cmd for immediate delivery.
func done(msg DoneMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}
