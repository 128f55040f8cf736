package feed

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/volunteerhub/hubterm/app"
)

// settle runs a pending action's request off the update loop and reports
// back; the model calls Settle when the message arrives.
func settle(pending *app.PendingAction) tea.Cmd {
	return func() tea.Msg {
		return SettledMsg{Pending: pending, Err: pending.Request(context.Background())}
	}
}

func (m Model) fetchWall() tea.Cmd {
	actions := m.actions
	eventID := m.eventID
	return func() tea.Msg {
		event, interactions, err := actions.FetchEventWall(context.Background(), eventID)
		if err != nil {
			return WallErrorMsg{Err: err}
		}
		return WallLoadedMsg{Event: event, Interactions: interactions}
	}
}
