package peer

import (
	"fmt"
	"sync"

	"github.com/maan2003/fync/contentstore"
	"github.com/maan2003/fync/core"
	"github.com/maan2003/fync/logging"
)

// Reconciler drives one peer's half of the two-peer reconciliation
// protocol described by spec.md §4-§5. It owns the local filesystem root,
// the local content store, and enough bookkeeping about the remote peer's
// last-known state to compute correct diffs and detect conflicts.
//
// A Reconciler is not safe for concurrent use from multiple goroutines
// except through the methods explicitly documented as such; Run serializes
// all state transitions onto a single goroutine.
type Reconciler struct {
	root  string
	store *contentstore.Store
	role  Role
	log   *logging.Logger

	mu sync.Mutex

	state State

	// local is the current on-disk truth for this peer's root.
	local core.Snapshot

	// remoteView is this peer's best knowledge of the remote peer's
	// snapshot. Per spec.md's steady-state rules, it is only advanced once
	// an outgoing Changes message has been acknowledged (never optimistically
	// on send) but is updated immediately for changes the remote peer
	// reports about itself.
	remoteView core.Snapshot

	// lastSent is the diff baseline for the next Changes message. It starts
	// out equal to local at the moment steady state begins and is advanced
	// only by the accepted part of each acknowledged Changes message.
	lastSent core.Snapshot

	// pendingDiff is the diff most recently sent but not yet acknowledged.
	// Only one Changes message may be outstanding at a time; further local
	// changes accumulate until the ack arrives.
	pendingDiff     core.Diff
	pendingInFlight bool

	conflicts []core.RelPath
}

// New creates a Reconciler for the given root, initial snapshot, content
// store, and role. The returned Reconciler is in StateAnnouncing; call
// Handshake to run the init sub-protocol before exchanging steady-state
// messages.
func New(root string, initial core.Snapshot, store *contentstore.Store, role Role, log *logging.Logger) *Reconciler {
	return &Reconciler{
		root:  root,
		store: store,
		role:  role,
		log:   log,
		state: StateAnnouncing,
		local: initial.Clone(),
	}
}

// State returns the reconciler's current lifecycle state.
func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Local returns a copy of the current local snapshot.
func (r *Reconciler) Local() core.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.local.Clone()
}

// ConflictLog returns every path at which a conflict has been detected
// since the reconciler started, in the order they were discovered. It
// supplements spec.md's conflict predicate with a durable, queryable record
// a caller can surface to a user instead of having to observe each
// ChangesResponse individually.
func (r *Reconciler) ConflictLog() []core.RelPath {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]core.RelPath, len(r.conflicts))
	copy(out, r.conflicts)
	return out
}

// IsSettled reports whether the reconciler has no outgoing changes awaiting
// acknowledgment and its local snapshot matches its view of the remote
// peer's snapshot (modulo paths recorded in ConflictLog, which by
// definition cannot settle without manual resolution).
func (r *Reconciler) IsSettled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRunning {
		return false
	}
	if r.pendingInFlight {
		return false
	}
	return core.ComputeDiff(r.remoteView, r.local).Without(r.conflicts).IsEmpty()
}

func (r *Reconciler) recordConflicts(paths []core.RelPath) {
	if len(paths) == 0 {
		return
	}
	r.conflicts = append(r.conflicts, paths...)
	if r.log != nil {
		for _, path := range paths {
			r.log.Warn(fmt.Errorf("conflict at %s", path))
		}
	}
}
