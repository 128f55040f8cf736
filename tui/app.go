package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/volunteerhub/hubterm/app"
	"github.com/volunteerhub/hubterm/infra/config"
	"github.com/volunteerhub/hubterm/infra/editor"
	"github.com/volunteerhub/hubterm/tui/common"
	"github.com/volunteerhub/hubterm/tui/compose"
	"github.com/volunteerhub/hubterm/tui/events"
	"github.com/volunteerhub/hubterm/tui/feed"
)

// StatusSink collects action notifications for the status bar. Settle
// runs on the update loop, so Notify and Take never race.
type StatusSink struct {
	level   app.Level
	message string
	set     bool
}

// NewStatusSink creates an empty sink.
func NewStatusSink() *StatusSink {
	return &StatusSink{}
}

// Notify implements app.Notifier.
func (s *StatusSink) Notify(level app.Level, message string) {
	s.level = level
	s.message = message
	s.set = true
}

// Take returns and clears the most recent notification.
func (s *StatusSink) Take() (app.Level, string, bool) {
	if !s.set {
		return 0, "", false
	}
	s.set = false
	return s.level, s.message, true
}

// Deps holds all dependencies the TUI needs. Plain struct, not a DI container.
type Deps struct {
	Actions   *app.Actions
	Events    app.EventService
	Editor    *editor.EnvEditor
	Status    *StatusSink
	EventID   string // Event wall to open on startup, "" for the event list
	StatePath string // Where UI state is persisted
}

type activeView int

const (
	eventsView activeView = iota
	wallView
	composeView
)

// App is the root Bubble Tea model. It routes between sub-views.
type App struct {
	deps    Deps
	active  activeView
	events  events.Model
	wall    feed.Model
	compose compose.Model
	keys    common.KeyMap
	status  string // Transient status message (e.g. "Post published!")
}

// NewApp creates the root model with all dependencies wired.
func NewApp(deps Deps) App {
	a := App{
		deps:   deps,
		active: eventsView,
		events: events.New(deps.Actions, deps.Events),
		keys:   common.DefaultKeyMap(),
	}
	if deps.EventID != "" {
		a.active = wallView
		a.wall = feed.New(deps.Actions, deps.EventID)
	}
	return a
}

// Init delegates to the active sub-model.
func (a App) Init() tea.Cmd {
	switch a.active {
	case wallView:
		// Registrations feed the wall's registered badge.
		return tea.Batch(a.wall.Init(), a.events.Init())
	default:
		return a.events.Init()
	}
}

// Update handles messages and routes to the active sub-model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, a.keys.Quit) && a.canQuit() {
			a.persistState()
			return a, tea.Quit
		}

		if a.active == wallView && !a.wall.CapturesInput() {
			if key.Matches(msg, a.keys.NewEditor) {
				a.active = composeView
				a.status = ""
				a.compose = compose.NewEditor(a.deps.Editor)
				return a, a.compose.Init()
			}
			if key.Matches(msg, a.keys.NewInline) {
				a.active = composeView
				a.status = ""
				a.compose = compose.NewInline()
				return a, a.compose.Init()
			}
		}

	case events.OpenEventMsg:
		a.active = wallView
		a.status = ""
		a.wall = feed.New(a.deps.Actions, msg.Event.ID)
		a.persistState()
		return a, a.wall.Init()

	case feed.BackMsg:
		a.active = eventsView
		a.status = ""
		return a, nil

	// Settle messages are routed to the model that started the action,
	// regardless of which view is active when the request finishes.
	case events.SettledMsg:
		var cmd tea.Cmd
		a.events, cmd = a.events.Update(msg)
		a.drainStatus()
		return a, cmd

	case feed.SettledMsg:
		var cmd tea.Cmd
		a.wall, cmd = a.wall.Update(msg)
		a.drainStatus()
		return a, cmd

	case compose.DoneMsg:
		a.active = wallView
		if msg.Err != nil {
			a.status = common.ErrorStyle.Render("Error: " + msg.Err.Error())
			return a, nil
		}
		title, body := common.SplitTitleBody(msg.Content)
		if title == "" && body == "" {
			a.status = "Cancelled."
			return a, nil
		}
		if body == "" {
			// Single-line posts carry the text as the body.
			title, body = "", title
		}
		var cmd tea.Cmd
		a.wall, cmd = a.wall.CreatePost(title, body)
		a.drainStatus()
		return a, cmd
	}

	// Delegate to the active sub-model.
	var cmd tea.Cmd
	switch a.active {
	case eventsView:
		a.events, cmd = a.events.Update(msg)
	case wallView:
		a.wall, cmd = a.wall.Update(msg)
	case composeView:
		a.compose, cmd = a.compose.Update(msg)
	}
	a.drainStatus()
	return a, cmd
}

// drainStatus moves the latest action notification into the status bar.
func (a *App) drainStatus() {
	if a.deps.Status == nil {
		return
	}
	level, message, ok := a.deps.Status.Take()
	if !ok {
		return
	}
	switch level {
	case app.LevelSuccess:
		a.status = common.SuccessStyle.Render(message)
	case app.LevelInfo:
		a.status = common.InfoStyle.Render(message)
	default:
		a.status = common.ErrorStyle.Render(message)
	}
}

func (a App) canQuit() bool {
	switch a.active {
	case composeView:
		return false
	case wallView:
		return !a.wall.CapturesInput()
	}
	return true
}

// persistState remembers the open event wall for the next session.
func (a App) persistState() {
	if a.deps.StatePath == "" {
		return
	}
	st := config.UIState{}
	if a.active == wallView {
		st.EventID = a.wall.EventID()
	}
	_ = config.SaveUIState(a.deps.StatePath, st)
}

// View renders the active sub-model.
func (a App) View() string {
	var s string

	switch a.active {
	case eventsView:
		s = a.events.View()
	case wallView:
		s = a.wall.View()
	case composeView:
		s = a.compose.View()
	}

	// Append transient status if present.
	if a.status != "" {
		s += "\n" + common.StatusBarStyle.Render(a.status)
	}

	return s
}
