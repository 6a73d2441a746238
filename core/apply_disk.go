package core

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// ContentGetter is the subset of contentstore.Store that ApplyToDisk needs.
// It's expressed as a local interface, rather than importing the
// contentstore package directly, to keep the dependency direction pointing
// from contentstore -> core (contentstore values are built from ContentIds)
// rather than the reverse.
type ContentGetter interface {
	Get(ContentId) ([]byte, error)
}

// ApplyToDisk applies a diff to files under root, re-reading each path's
// current state directly from disk (rather than trusting snapshot) to decide
// conflicts, exactly as spec.md §4.1 requires. It mutates snapshot to match
// every change that was actually applied, and returns the paths that
// conflicted (left untouched on both disk and snapshot).
//
// Removed changes whose target is already absent are tolerated silently.
// Parent directories are never pruned after a removal. Created and Modified
// changes create missing parent directories and write the new content with
// writeFileAtomic.
func ApplyToDisk(root string, snapshot Snapshot, diff Diff, store ContentGetter) ([]RelPath, error) {
	var conflicts []RelPath
	for _, change := range diff {
		full := filepath.Join(root, filepath.FromSlash(change.Path.String()))

		current, err := statCurrent(full)
		if err != nil {
			return conflicts, errors.Wrapf(err, "unable to stat %s", change.Path)
		}

		if change.Conflicts(current) {
			conflicts = append(conflicts, change.Path)
			continue
		}

		switch change.Kind {
		case ChangeRemoved:
			if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
				return conflicts, errors.Wrapf(err, "unable to remove %s", change.Path)
			}
			delete(snapshot, change.Path)
		case ChangeCreated, ChangeModified:
			if parent := filepath.Dir(full); parent != "." {
				if err := os.MkdirAll(parent, 0o755); err != nil {
					return conflicts, errors.Wrapf(err, "unable to create parent directory for %s", change.Path)
				}
			}
			data, err := store.Get(change.New.Content)
			if err != nil {
				return conflicts, errors.Wrapf(err, "unable to resolve content for %s", change.Path)
			}
			if err := writeFileAtomic(full, data); err != nil {
				return conflicts, errors.Wrapf(err, "unable to write %s", change.Path)
			}
			snapshot[change.Path] = change.New
		}
	}
	return conflicts, nil
}

// statCurrent re-reads the on-disk state of a path for conflict detection. It
// returns (nil, nil) if the path doesn't exist. If the path exists but isn't
// a regular file (a directory has been created where a file used to be, for
// example), it returns a sentinel FileMeta whose zero ContentId can never
// match a real digest, so the change is always treated as conflicting against
// it — there's no meaningful content-identity comparison to make against a
// directory.
func statCurrent(path string) (*FileMeta, error) {
	info, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	if !info.Mode().IsRegular() {
		return &FileMeta{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	meta := FileMeta{Content: HashContent(data)}
	return &meta, nil
}
