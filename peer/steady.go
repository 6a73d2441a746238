package peer

import (
	"github.com/pkg/errors"

	"github.com/maan2003/fync/core"
	"github.com/maan2003/fync/protocol"
)

// NextOutgoing returns a Changes message to send if the local snapshot has
// diverged from what was last sent and no Changes message is currently
// awaiting acknowledgment, per spec.md §5.2's one-outstanding-message rule.
// It returns (nil, false) when there's nothing to send right now.
func (r *Reconciler) NextOutgoing() (*protocol.RegularMessage, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateRunning || r.pendingInFlight {
		return nil, false
	}

	diff := core.ComputeDiff(r.lastSent, r.local)
	if diff.IsEmpty() {
		return nil, false
	}

	blobs := blobsForDiff(r.store, diff, r.store.DrainNew())
	r.pendingDiff = diff
	r.pendingInFlight = true

	return &protocol.RegularMessage{Kind: protocol.RegularChanges, Diff: diff, Blobs: blobs}, true
}

// HandleIncoming processes a steady-state message from the remote peer,
// returning a response to send back (for a Changes message) or nil (for a
// ChangesResponse, which needs no reply).
func (r *Reconciler) HandleIncoming(msg *protocol.RegularMessage) (*protocol.RegularMessage, error) {
	switch msg.Kind {
	case protocol.RegularChanges:
		return r.handleChanges(msg)
	case protocol.RegularChangesResponse:
		r.handleAck(msg)
		return nil, nil
	default:
		return nil, newProtocolError("unrecognized steady-state message kind")
	}
}

func (r *Reconciler) handleChanges(msg *protocol.RegularMessage) (*protocol.RegularMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	applyBlobs(r.store, msg.Blobs)

	conflicts, err := core.ApplyToDisk(r.root, r.local, msg.Diff, r.store)
	if err != nil {
		return nil, errors.Wrap(err, "unable to apply incoming changes")
	}
	r.recordConflicts(conflicts)

	accepted := msg.Diff.Without(conflicts)
	core.Apply(r.remoteView, accepted)

	return &protocol.RegularMessage{Kind: protocol.RegularChangesResponse, Conflicts: conflicts}, nil
}

// handleAck processes the acknowledgment of our own most recently sent
// Changes message. This is the only place remoteView advances to reflect
// changes WE sent, per spec.md's rule that the peer view is updated only on
// ack, never optimistically on send.
func (r *Reconciler) handleAck(msg *protocol.RegularMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.pendingInFlight {
		return
	}

	accepted := r.pendingDiff.Without(msg.Conflicts)
	core.Apply(r.remoteView, accepted)
	core.Apply(r.lastSent, accepted)
	r.recordConflicts(msg.Conflicts)

	r.pendingDiff = nil
	r.pendingInFlight = false
}
