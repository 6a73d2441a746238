package core

import "sort"

// Diff is an ordered list of changes that, applied to a base snapshot,
// yields a target snapshot. It's represented as a slice (rather than a map)
// because wire transmission and deterministic application both want a fixed
// path order, and a slice sorted by path gives us that for free once
// produced by ComputeDiff.
type Diff []Change

// IsEmpty reports whether the diff carries no changes.
func (d Diff) IsEmpty() bool {
	return len(d) == 0
}

// Paths returns the set of paths touched by the diff, in order.
func (d Diff) Paths() []RelPath {
	paths := make([]RelPath, len(d))
	for i, c := range d {
		paths[i] = c.Path
	}
	return paths
}

// Without returns a copy of the diff with the given paths excluded. Used to
// compute the "accepted" subset of an inbound Changes message: the diff
// minus whatever conflicted on application.
func (d Diff) Without(excluded []RelPath) Diff {
	if len(excluded) == 0 {
		return d
	}
	skip := make(map[RelPath]bool, len(excluded))
	for _, p := range excluded {
		skip[p] = true
	}
	result := make(Diff, 0, len(d))
	for _, c := range d {
		if !skip[c.Path] {
			result = append(result, c)
		}
	}
	return result
}

// ComputeDiff computes the ordered diff between a base and target
// snapshot: for every path in base ∪ target, a Modified change if both
// hold differing content, a Removed change if only base holds the path, a
// Created change if only target holds it, and nothing if both hold
// identical content.
//
// Laws (see spec.md §8):
//  1. ComputeDiff(s, s) is empty.
//  2. Applying ComputeDiff(s, t) to s (with all referenced blobs present and
//     no conflicts) yields t.
//  3. ComputeDiff(s, t) is the path-wise inverse of ComputeDiff(t, s)
//     (Created <-> Removed, Modified's Old/New swapped).
func ComputeDiff(base, target Snapshot) Diff {
	seen := make(map[RelPath]bool, len(base)+len(target))
	paths := make([]RelPath, 0, len(base)+len(target))
	for p := range base {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	for p := range target {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	sort.Slice(paths, func(i, j int) bool { return Less(paths[i], paths[j]) })

	result := make(Diff, 0, len(paths))
	for _, p := range paths {
		b, inBase := base[p]
		t, inTarget := target[p]
		switch {
		case inBase && inTarget:
			if !b.Equal(t) {
				result = append(result, Change{Path: p, Kind: ChangeModified, Old: b, New: t})
			}
		case inBase && !inTarget:
			result = append(result, Change{Path: p, Kind: ChangeRemoved, Old: b})
		case !inBase && inTarget:
			result = append(result, Change{Path: p, Kind: ChangeCreated, New: t})
		}
	}
	return result
}
