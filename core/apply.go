package core

// Apply applies a diff to a snapshot in place, mutating it for every change
// that doesn't conflict with the snapshot's current contents. It returns the
// paths that conflicted (and were therefore left untouched). This is the
// in-memory counterpart to ApplyToDisk; it's used both directly (for
// advancing a reconciler's view of the remote peer and its lastSent
// baseline, which have no disk behind them) and in the diff/apply laws
// tested in apply_test.go.
func Apply(snapshot Snapshot, diff Diff) []RelPath {
	var conflicts []RelPath
	for _, change := range diff {
		var current *FileMeta
		if m, ok := snapshot[change.Path]; ok {
			current = &m
		}
		if change.Conflicts(current) {
			conflicts = append(conflicts, change.Path)
			continue
		}
		switch change.Kind {
		case ChangeRemoved:
			delete(snapshot, change.Path)
		case ChangeCreated, ChangeModified:
			snapshot[change.Path] = change.New
		}
	}
	return conflicts
}
