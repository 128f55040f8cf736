package store

import (
	"sort"

	"github.com/volunteerhub/hubterm/domain"
)

// Registrations is the set of event ids the current user is registered for,
// held in normalized form. Membership gates which call-to-action an event
// row shows, so both mutators are idempotent by contract: adding a present
// id or removing an absent one returns an equivalent set, never an error.
// The zero value is an empty, usable set.
type Registrations struct {
	ids map[string]struct{}
}

// RegistrationsFromRaw builds a set from the heterogeneous id payload of
// the registered-events query. Unnormalizable entries (nulls) are skipped.
func RegistrationsFromRaw(raw []any) Registrations {
	ids := make(map[string]struct{}, len(raw))
	for _, v := range raw {
		if key := domain.NormalizeID(v); key != "" {
			ids[key] = struct{}{}
		}
	}
	return Registrations{ids: ids}
}

// Has reports membership for any id representation.
func (r Registrations) Has(eventID any) bool {
	key := domain.NormalizeID(eventID)
	if key == "" {
		return false
	}
	_, ok := r.ids[key]
	return ok
}

// Len returns the number of registered events.
func (r Registrations) Len() int {
	return len(r.ids)
}

// WithAdded returns a set that contains the event id. Idempotent.
func (r Registrations) WithAdded(eventID any) Registrations {
	key := domain.NormalizeID(eventID)
	if key == "" || r.Has(key) {
		return r
	}
	out := r.clone(1)
	out.ids[key] = struct{}{}
	return out
}

// WithRemoved returns a set without the event id. Idempotent.
func (r Registrations) WithRemoved(eventID any) Registrations {
	key := domain.NormalizeID(eventID)
	if key == "" || !r.Has(key) {
		return r
	}
	out := r.clone(0)
	delete(out.ids, key)
	return out
}

// IDs returns the normalized ids in sorted order.
func (r Registrations) IDs() []string {
	out := make([]string, 0, len(r.ids))
	for id := range r.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (r Registrations) clone(extra int) Registrations {
	ids := make(map[string]struct{}, len(r.ids)+extra)
	for id := range r.ids {
		ids[id] = struct{}{}
	}
	return Registrations{ids: ids}
}
