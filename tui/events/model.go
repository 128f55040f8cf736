package events

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/volunteerhub/hubterm/app"
	"github.com/volunteerhub/hubterm/domain"
	"github.com/volunteerhub/hubterm/store"
	"github.com/volunteerhub/hubterm/tui/common"
)

const pageSize = 20

// --- Messages ---

// LoadedMsg is sent when an event page fetch completes successfully.
type LoadedMsg struct {
	Events []domain.Event
	Page   int
}

// ErrorMsg is sent when the event fetch fails.
type ErrorMsg struct {
	Err error
}

// RegistrationsLoadedMsg carries the user's registered event ids.
type RegistrationsLoadedMsg struct {
	Set store.Registrations
	Err error
}

// OpenEventMsg is sent when the user opens an event wall. The root model
// handles the view switch.
type OpenEventMsg struct {
	Event domain.Event
}

// SettledMsg is sent after a registration request finishes. The model
// settles the pending action on the update loop.
type SettledMsg struct {
	Pending *app.PendingAction
	Err     error
}

// --- Model ---

// Model holds the state for the event list view.
type Model struct {
	actions *app.Actions
	svc     app.EventService

	events  []domain.Event
	cursor  int
	page    int
	loading bool
	err     error

	keys    common.KeyMap
	spinner spinner.Model
	height  int
}

// New creates an event list model with injected dependencies.
func New(actions *app.Actions, svc app.EventService) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600"))

	return Model{
		actions: actions,
		svc:     svc,
		loading: true,
		keys:    common.DefaultKeyMap(),
		spinner: s,
	}
}

// Init starts the initial event and registration fetches.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.fetchEvents(m.page),
		m.fetchRegistrations(),
		m.spinner.Tick,
	)
}

// Update handles messages for the event list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil

	case LoadedMsg:
		m.events = msg.Events
		m.page = msg.Page
		m.loading = false
		m.err = nil
		if m.cursor >= len(m.events) {
			m.cursor = 0
		}
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		m.loading = false
		return m, nil

	case RegistrationsLoadedMsg:
		if msg.Err == nil {
			m.actions.ApplyRegistrations(msg.Set)
		}
		return m, nil

	case SettledMsg:
		m.actions.Settle(msg.Pending, msg.Err)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, tea.Batch(m.fetchEvents(m.page), m.fetchRegistrations())

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.events)-1 {
			m.cursor++
		}

	case msg.String() == "right" || msg.String() == "n":
		if len(m.events) == pageSize {
			m.loading = true
			return m, m.fetchEvents(m.page + 1)
		}

	case msg.String() == "left":
		if m.page > 0 {
			m.loading = true
			return m, m.fetchEvents(m.page - 1)
		}

	case key.Matches(msg, m.keys.Register):
		if ev, ok := m.Selected(); ok {
			pending := m.actions.StartRegister(ev.ID)
			return m, settle(pending)
		}

	case key.Matches(msg, m.keys.Unregister):
		if ev, ok := m.Selected(); ok {
			pending := m.actions.StartUnregister(ev.ID)
			return m, settle(pending)
		}

	case key.Matches(msg, m.keys.Enter):
		if ev, ok := m.Selected(); ok {
			return m, func() tea.Msg { return OpenEventMsg{Event: ev} }
		}
	}

	return m, nil
}

// Selected returns the currently highlighted event, if any.
func (m Model) Selected() (domain.Event, bool) {
	if len(m.events) == 0 {
		return domain.Event{}, false
	}
	return m.events[m.cursor], true
}

// Registered reports whether the user is signed up for the event.
func (m Model) Registered(eventID string) bool {
	return m.actions.State().Registrations.Has(eventID)
}

func settle(pending *app.PendingAction) tea.Cmd {
	return func() tea.Msg {
		return SettledMsg{Pending: pending, Err: pending.Request(context.Background())}
	}
}

func (m Model) fetchEvents(page int) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		events, err := svc.ListEvents(context.Background(), page, pageSize)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return LoadedMsg{Events: events, Page: page}
	}
}

func (m Model) fetchRegistrations() tea.Cmd {
	actions := m.actions
	return func() tea.Msg {
		set, err := actions.FetchRegistrations(context.Background())
		return RegistrationsLoadedMsg{Set: set, Err: err}
	}
}
