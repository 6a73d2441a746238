// Package peer implements the two-peer reconciliation state machine
// described in spec.md §4 and §5: the init sub-protocol that brings a pair
// of peers into agreement on a starting snapshot, and the steady-state
// Changes/ChangesResponse exchange that propagates further edits.
package peer

// Role determines how a peer behaves during the init sub-protocol.
// spec.md §5.1 allows at most one peer in a pair to be configured
// authoritative; configuring two is rejected at configuration time (see
// config.ValidatePair), not here. Configuring zero is not rejected: both
// sides then run as RolePeer.
type Role uint8

const (
	// RolePeer is the symmetric case: neither side is authoritative, and
	// the init sub-protocol simply exchanges Announce messages before
	// moving to steady state.
	RolePeer Role = iota
	// RoleAuthoritative indicates this peer's snapshot should be forced
	// onto the other side during init, discarding whatever the other side
	// had.
	RoleAuthoritative
	// RoleSubordinate indicates the other peer is authoritative and this
	// peer should adopt whatever snapshot it's given during init.
	RoleSubordinate
)

func (r Role) String() string {
	switch r {
	case RoleAuthoritative:
		return "authoritative"
	case RoleSubordinate:
		return "subordinate"
	default:
		return "peer"
	}
}
