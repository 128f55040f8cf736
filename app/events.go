package app

import (
	"context"

	"github.com/volunteerhub/hubterm/domain"
)

// EventService lists events the user can browse and join.
type EventService interface {
	// ListEvents returns one page of events.
	ListEvents(ctx context.Context, page, size int) ([]domain.Event, error)
}

// RegistrationService manages the user's event registrations.
type RegistrationService interface {
	// Register signs the current user up for an event. Servers may reject
	// a duplicate registration with an "already registered" failure.
	Register(ctx context.Context, eventID string) error

	// Unregister withdraws the current user from an event.
	Unregister(ctx context.Context, eventID string) error

	// RegisteredEventIDs returns the raw ids of the user's registered
	// events. Representations are heterogeneous (numbers and strings);
	// callers normalize.
	RegisteredEventIDs(ctx context.Context) ([]any, error)
}
