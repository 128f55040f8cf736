package reconcile

import "context"

// Mutator runs the per-action state machine: Pending, then
// Settled(Confirmed) or Settled(RolledBack). It tags every action with a
// per-entity sequence number so a rollback from an old action cannot
// regress state a newer action has already settled.
//
// Not safe for concurrent use; see the package comment.
type Mutator struct {
	issued  map[string]uint64
	settled map[string]uint64
}

// NewMutator creates an empty mutator.
func NewMutator() *Mutator {
	return &Mutator{
		issued:  make(map[string]uint64),
		settled: make(map[string]uint64),
	}
}

// Pending is one in-flight action awaiting settlement. It is created by
// Start, lives only in memory, and is discarded after Settle.
type Pending struct {
	action Action
	seq    uint64
	done   bool
	result Result
}

// Kind returns the action kind, for callers that route on it.
func (p *Pending) Kind() Kind { return p.action.Kind }

// Entity returns the normalized id the action targets.
func (p *Pending) Entity() string { return p.action.Entity }

// Start applies the speculative change synchronously and returns the
// pending record the caller must later Settle. The UI therefore reflects
// the action before any network round trip begins.
func (m *Mutator) Start(a Action) *Pending {
	m.issued[a.Entity]++
	if a.Apply != nil {
		a.Apply()
	}
	return &Pending{action: a, seq: m.issued[a.Entity]}
}

// Settle resolves a pending action against the remote response. A nil err
// confirms the speculative state. A non-nil err is classified: duplicate
// outcomes confirm, genuine failures revert — unless a newer action on the
// same entity already settled, in which case the stale rollback is
// discarded. Settling twice returns the first result and changes nothing.
func (m *Mutator) Settle(p *Pending, err error) Result {
	if p.done {
		return p.result
	}
	p.done = true

	switch {
	case err == nil:
		p.result = Result{State: Confirmed}
	case Classify(p.action.Kind, err) == AlreadyInTargetState:
		p.result = Result{State: Confirmed, Reclassified: true}
	case m.settled[p.action.Entity] > p.seq:
		p.result = Result{State: Superseded, Err: err}
	default:
		if p.action.Revert != nil {
			p.action.Revert()
		}
		p.result = Result{State: RolledBack, Err: err}
	}

	if p.seq > m.settled[p.action.Entity] {
		m.settled[p.action.Entity] = p.seq
	}
	return p.result
}

// Do runs the full protocol synchronously: apply, one request, settle.
// Intended for single-threaded callers; the TUI uses Start/Settle so the
// request can run off the update loop.
func (m *Mutator) Do(ctx context.Context, a Action, request func(context.Context) error) Result {
	p := m.Start(a)
	return m.Settle(p, request(ctx))
}
