// Package protocol defines the messages exchanged between two fync peers
// and the stream codec used to frame them on the wire, per spec.md §5.
//
// A real deployment of the teacher would generate these message types from
// a .proto schema and frame them with encoding/protobuf's length-prefixed
// encoder; without a protoc toolchain available here, the payload encoding
// falls back to encoding/gob (see DESIGN.md), while the frame itself keeps
// the teacher's varint-length-prefix shape so the two are easy to compare.
package protocol

import "github.com/maan2003/fync/core"

// InitKind distinguishes the three message shapes exchanged during the
// init sub-protocol (spec.md §5.1): Announce, Override, and OverrideAck.
type InitKind uint8

const (
	// InitAnnounce is sent by both peers on connect, carrying the sender's
	// current snapshot.
	InitAnnounce InitKind = iota
	// InitOverride is sent only by the authoritative peer, carrying the
	// blob payload the subordinate needs to adopt the authoritative
	// snapshot wholesale.
	InitOverride
	// InitOverrideAck is sent by the subordinate once it has applied an
	// Override, confirming readiness to enter steady state.
	InitOverrideAck
)

// InitMessage is the envelope for the init sub-protocol. Exactly one of the
// fields relevant to Kind is populated; the others are left zero.
type InitMessage struct {
	Kind InitKind

	// Announce carries the sender's full snapshot.
	Announce core.Snapshot

	// Override carries the authoritative snapshot plus every blob the
	// subordinate is missing in order to adopt it, per spec.md §4.3.
	OverrideSnapshot core.Snapshot
	OverrideBlobs    []Blob
}

// Blob pairs a content identity with its bytes, for transmission of blob
// payloads that the receiving peer's content store doesn't already hold.
type Blob struct {
	Id   core.ContentId
	Data []byte
}

// RegularKind distinguishes the two message shapes exchanged during
// steady-state operation (spec.md §5.2).
type RegularKind uint8

const (
	// RegularChanges is sent whenever a peer's local snapshot changes,
	// carrying the diff against what it last announced and the blobs the
	// other peer will need to apply it.
	RegularChanges RegularKind = iota
	// RegularChangesResponse acknowledges a Changes message, reporting any
	// conflicts the receiver detected while applying it.
	RegularChangesResponse
)

// RegularMessage is the envelope for steady-state message exchange.
type RegularMessage struct {
	Kind RegularKind

	Diff  core.Diff
	Blobs []Blob

	// Conflicts lists the paths where the receiver's concurrent local
	// state conflicted with an incoming change, per spec.md §4.2's
	// conflict predicate. Populated only on RegularChangesResponse.
	Conflicts []core.RelPath
}
