package peer

import (
	"github.com/pkg/errors"

	"github.com/maan2003/fync/contentstore"
	"github.com/maan2003/fync/core"
	"github.com/maan2003/fync/protocol"
)

// Handshake runs the init sub-protocol (spec.md §5.1) over enc/dec,
// bringing the reconciler from StateAnnouncing to StateRunning. It blocks
// until the handshake completes or fails; on failure the reconciler is left
// in StateClosed and the connection should be torn down.
func (r *Reconciler) Handshake(enc *protocol.Encoder, dec *protocol.Decoder) error {
	r.mu.Lock()
	local := r.local.Clone()
	r.state = StateAwaitingAnnounce
	r.mu.Unlock()

	// Both sides announce first, and over a synchronous transport (such as
	// the in-process pipe pair) a write blocks until the other side reads it,
	// so the local Announce is sent concurrently with receiving the peer's.
	sent := make(chan error, 1)
	go func() {
		sent <- enc.Encode(&protocol.InitMessage{Kind: protocol.InitAnnounce, Announce: local})
	}()

	var announce protocol.InitMessage
	if err := dec.Decode(&announce); err != nil {
		r.fail()
		return errors.Wrap(err, "unable to receive announce")
	}
	if err := <-sent; err != nil {
		r.fail()
		return errors.Wrap(err, "unable to send announce")
	}
	if announce.Kind != protocol.InitAnnounce {
		r.fail()
		return newProtocolError("expected announce during init")
	}
	peerSnapshot := announce.Announce

	switch r.role {
	case RoleAuthoritative:
		return r.handshakeAsAuthoritative(enc, dec, local, peerSnapshot)
	case RoleSubordinate:
		return r.handshakeAsSubordinate(dec, enc)
	default:
		r.mu.Lock()
		r.remoteView = peerSnapshot
		r.lastSent = local
		r.state = StateRunning
		r.mu.Unlock()
		return nil
	}
}

func (r *Reconciler) handshakeAsAuthoritative(enc *protocol.Encoder, dec *protocol.Decoder, local, peerSnapshot core.Snapshot) error {
	r.mu.Lock()
	r.state = StateAwaitingOverrideAck
	r.mu.Unlock()

	referenced := referencedIds(peerSnapshot)
	missing := contentstore.NotIn(r.store, referenced)
	override := &protocol.InitMessage{
		Kind:             protocol.InitOverride,
		OverrideSnapshot: local,
		OverrideBlobs:    packBlobs(r.store, missing),
	}
	if err := enc.Encode(override); err != nil {
		r.fail()
		return errors.Wrap(err, "unable to send override")
	}

	var ack protocol.InitMessage
	if err := dec.Decode(&ack); err != nil {
		r.fail()
		return errors.Wrap(err, "unable to receive override ack")
	}
	if ack.Kind != protocol.InitOverrideAck {
		r.fail()
		return newProtocolError("expected override ack during init")
	}

	r.mu.Lock()
	r.remoteView = local.Clone()
	r.lastSent = local.Clone()
	r.state = StateRunning
	r.mu.Unlock()
	return nil
}

func (r *Reconciler) handshakeAsSubordinate(dec *protocol.Decoder, enc *protocol.Encoder) error {
	r.mu.Lock()
	r.state = StateAwaitingOverride
	r.mu.Unlock()

	var override protocol.InitMessage
	if err := dec.Decode(&override); err != nil {
		r.fail()
		return errors.Wrap(err, "unable to receive override")
	}
	if override.Kind != protocol.InitOverride {
		r.fail()
		return newProtocolError("expected override during init")
	}

	applyBlobs(r.store, override.OverrideBlobs)

	r.mu.Lock()
	diff := core.ComputeDiff(r.local, override.OverrideSnapshot)
	_, applyErr := core.ApplyToDisk(r.root, r.local, diff, r.store)
	r.mu.Unlock()
	if applyErr != nil {
		r.fail()
		return errors.Wrap(applyErr, "unable to apply override")
	}

	if err := enc.Encode(&protocol.InitMessage{Kind: protocol.InitOverrideAck}); err != nil {
		r.fail()
		return errors.Wrap(err, "unable to send override ack")
	}

	r.mu.Lock()
	r.remoteView = override.OverrideSnapshot.Clone()
	r.lastSent = r.local.Clone()
	r.state = StateRunning
	r.mu.Unlock()
	return nil
}

func (r *Reconciler) fail() {
	r.mu.Lock()
	r.state = StateClosed
	r.mu.Unlock()
}
