package core

// ChangeKind identifies which of the three shapes a Change takes. Avoid
// modeling this as a class hierarchy (there are no cyclic or polymorphic
// relationships here, just a closed set of three cases) — a tagged struct is
// sufficient and keeps the conflict predicate a pure function of
// (Change, *FileMeta).
type ChangeKind uint8

const (
	// ChangeCreated indicates a path that exists in the target but not the
	// base.
	ChangeCreated ChangeKind = iota
	// ChangeRemoved indicates a path that exists in the base but not the
	// target.
	ChangeRemoved
	// ChangeModified indicates a path present in both, with different
	// content.
	ChangeModified
)

// String returns a human-readable name for the change kind, used in logging.
func (k ChangeKind) String() string {
	switch k {
	case ChangeCreated:
		return "created"
	case ChangeRemoved:
		return "removed"
	case ChangeModified:
		return "modified"
	default:
		return "unknown"
	}
}

// Change describes the transformation of a single path from a base snapshot
// to a target snapshot. Exactly one of Old/New is unused depending on Kind:
// Created carries only New, Removed carries only Old, Modified carries both.
type Change struct {
	// Path is the path the change applies to.
	Path RelPath
	// Kind identifies the shape of the change.
	Kind ChangeKind
	// Old is the prior metadata. Valid for ChangeRemoved and ChangeModified.
	Old FileMeta
	// New is the resulting metadata. Valid for ChangeCreated and
	// ChangeModified.
	New FileMeta
}

// Conflicts implements the conflict predicate from the reconciliation
// algebra: given the metadata currently observed at this change's path
// (nil if the path doesn't currently exist), it reports whether applying
// this change would conflict with that observed state.
//
// A same-content Created or a matching-tail Modified is deliberately not a
// conflict — that's what lets two peers making the same concurrent edit
// converge without operator intervention. A Modified against a path that no
// longer exists is always a conflict, since the target of the modification
// has been deleted out from under it.
func (c Change) Conflicts(current *FileMeta) bool {
	switch c.Kind {
	case ChangeCreated:
		if current == nil {
			return false
		}
		return !current.Equal(c.New)
	case ChangeRemoved:
		if current == nil {
			return false
		}
		return !current.Equal(c.Old)
	case ChangeModified:
		if current == nil {
			return true
		}
		return !current.Equal(c.Old) && !current.Equal(c.New)
	default:
		return true
	}
}
