package hubapi

import (
	"context"

	"github.com/volunteerhub/hubterm/app"
	"github.com/volunteerhub/hubterm/domain"
)

// eventService implements app.EventService and app.RegistrationService.
type eventService struct {
	client *Client
}

// NewEventService wraps a client as an event directory and registration
// service.
func NewEventService(c *Client) *eventService {
	return &eventService{client: c}
}

const listEventsQuery = `
query FindEvents($page: Int, $size: Int) {
  findEvents(page: $page, size: $size) {
    content {
      eventId
      eventName
      eventDescription
      eventLocation
      startAt
      endAt
      memberCount
      postCount
    }
  }
}`

func (s *eventService) ListEvents(ctx context.Context, page, size int) ([]domain.Event, error) {
	var out struct {
		FindEvents struct {
			Content []wireEvent `json:"content"`
		} `json:"findEvents"`
	}
	vars := map[string]any{"page": page, "size": size}
	if err := s.client.Query(ctx, listEventsQuery, vars, &out); err != nil {
		return nil, err
	}

	events := make([]domain.Event, 0, len(out.FindEvents.Content))
	for _, we := range out.FindEvents.Content {
		events = append(events, domain.Event{
			ID:          domain.NormalizeID(we.EventID),
			Title:       we.EventName,
			Description: we.EventDescription,
			Location:    we.EventLocation,
			StartAt:     parseTime(we.StartAt),
			EndAt:       parseTime(we.EndAt),
			MemberCount: we.MemberCount,
			PostCount:   we.PostCount,
		})
	}
	return events, nil
}

func (s *eventService) Register(ctx context.Context, eventID string) error {
	const mutation = `
mutation RegisterEvent($eventId: ID!) {
  registerEvent(eventId: $eventId) { ok message }
}`
	var out struct {
		RegisterEvent mutationResult `json:"registerEvent"`
	}
	if err := s.client.Query(ctx, mutation, map[string]any{"eventId": eventID}, &out); err != nil {
		return err
	}
	return out.RegisterEvent.err()
}

func (s *eventService) Unregister(ctx context.Context, eventID string) error {
	const mutation = `
mutation UnregisterEvent($eventId: ID!) {
  unregisterEvent(eventId: $eventId) { ok message }
}`
	var out struct {
		UnregisterEvent mutationResult `json:"unregisterEvent"`
	}
	if err := s.client.Query(ctx, mutation, map[string]any{"eventId": eventID}, &out); err != nil {
		return err
	}
	return out.UnregisterEvent.err()
}

const registeredIDsQuery = `
query MyRegisteredEventIds {
  myRegisteredEventIds
}`

// RegisteredEventIDs returns the raw registered-event ids. The server is
// inconsistent about the element type (numbers vs strings), so the values
// pass through untouched for the caller to normalize.
func (s *eventService) RegisteredEventIDs(ctx context.Context) ([]any, error) {
	var out struct {
		MyRegisteredEventIds []any `json:"myRegisteredEventIds"`
	}
	if err := s.client.Query(ctx, registeredIDsQuery, nil, &out); err != nil {
		return nil, err
	}
	return out.MyRegisteredEventIds, nil
}

var _ app.EventService = (*eventService)(nil)
var _ app.RegistrationService = (*eventService)(nil)
