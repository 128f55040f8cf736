// Package reconcile implements the optimistic apply/confirm/rollback
// protocol shared by every mutating user action, and the classification of
// failure responses that really mean "already in the target state".
//
// The package is single-goroutine by design: Start and Settle must be
// called from the same goroutine that owns the stores the action closures
// touch (in the TUI that is the Bubble Tea update loop). Only the remote
// request between them may run elsewhere.
package reconcile

// Kind identifies one mutating user action.
type Kind int

const (
	KindLike Kind = iota
	KindUnlike
	KindAddPost
	KindDeletePost
	KindAddComment
	KindDeleteComment
	KindRegister
	KindUnregister
)

func (k Kind) String() string {
	switch k {
	case KindLike:
		return "like"
	case KindUnlike:
		return "unlike"
	case KindAddPost:
		return "add-post"
	case KindDeletePost:
		return "delete-post"
	case KindAddComment:
		return "add-comment"
	case KindDeleteComment:
		return "delete-comment"
	case KindRegister:
		return "register"
	case KindUnregister:
		return "unregister"
	}
	return "unknown"
}

// Action describes one speculative mutation. Apply performs the change
// against the caller's store; Revert applies the exact inverse using
// whatever snapshot the caller captured when building the action. Both must
// be total: applying against missing state is a no-op, not a panic.
type Action struct {
	Kind   Kind
	Entity string // Normalized id of the affected entity.
	Apply  func()
	Revert func()
}

// State is the settlement outcome of a pending action.
type State int

const (
	// Confirmed means the speculative change was kept, either because the
	// server accepted it or because the failure was classified as
	// already-in-target-state.
	Confirmed State = iota

	// RolledBack means the inverse change was applied.
	RolledBack

	// Superseded means a genuine failure arrived after a newer action on
	// the same entity had already settled; the stale rollback was
	// discarded so the newer state survives.
	Superseded
)

// Result reports how one action settled. Err carries the remote failure
// for RolledBack and Superseded; Reclassified marks a failure that was
// treated as success because the target state already held server-side.
type Result struct {
	State        State
	Reclassified bool
	Err          error
}
