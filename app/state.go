package app

import (
	"github.com/volunteerhub/hubterm/domain"
	"github.com/volunteerhub/hubterm/store"
)

// State is the client's shared view of remote truth: the wall of the
// currently opened event plus the user's registrations. One instance is
// created at wiring time and passed by reference to every screen; all
// mutation routes through Actions, never ad hoc from a view.
//
// State is owned by a single goroutine (the Bubble Tea update loop).
type State struct {
	Event         domain.Event
	Interactions  store.Interactions
	Registrations store.Registrations
}
