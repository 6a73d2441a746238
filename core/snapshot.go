package core

import "sort"

// Snapshot is a mapping from relative path to file metadata, reflecting what
// a peer believes is present under a tree at some observation point. Keys are
// unique by construction (it's a Go map); determinism for wire transmission
// and diffing comes from always iterating paths in sorted order rather than
// from the map's own (randomized) iteration order.
type Snapshot map[RelPath]FileMeta

// Paths returns the snapshot's paths in sorted order.
func (s Snapshot) Paths() []RelPath {
	paths := make([]RelPath, 0, len(s))
	for p := range s {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool { return Less(paths[i], paths[j]) })
	return paths
}

// Get returns the metadata for a path, if present.
func (s Snapshot) Get(path RelPath) (FileMeta, bool) {
	m, ok := s[path]
	return m, ok
}

// Clone returns a shallow copy of the snapshot, safe to mutate independently
// of the original.
func (s Snapshot) Clone() Snapshot {
	clone := make(Snapshot, len(s))
	for p, m := range s {
		clone[p] = m
	}
	return clone
}

// Equal reports whether two snapshots contain exactly the same paths mapped
// to identical content. Used to test the "settled" property: a peer's own
// snapshot equals its peer view.
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s) != len(other) {
		return false
	}
	for p, m := range s {
		if om, ok := other[p]; !ok || !m.Equal(om) {
			return false
		}
	}
	return true
}
