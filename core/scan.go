package core

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/maan2003/fync/ignore"
)

// Scan walks root, honoring ignorer, to build a fresh Snapshot. For each
// regular file it reads the bytes, inserts them into store, and records
// path -> {content}. Directories, sockets, FIFOs, and other non-regular
// entries are skipped silently and contribute nothing to the snapshot.
// Symbolic links are never followed — per spec.md §4.1 this avoids cycles
// and cross-boundary escapes, and per the Non-goals this system never
// represents a symlink itself. Unreadable files propagate a failure, since a
// scan that silently under-reports would desynchronize a peer from what it
// believes is true.
//
// Every regular file is read and hashed; per spec.md §9(3), file size and
// modification time are never consulted as a substitute, since a file whose
// content changes without its size or mtime changing (equal-length writes
// within a coarse mtime tick, timestamp-preserving checkout tools) would
// otherwise be served a stale ContentId.
//
// Ignored paths are filtered before they're ever stat'd or hashed: an
// ignored directory is never even descended into. This resolves the
// ambiguity flagged in spec.md §9 ("the source's watcher does not honor the
// ignore predicate before hashing"), which this package's watcher mirrors by
// filtering before handing refresh requests to the scanner.
func Scan(root string, store ContentInserter, ignorer ignore.Ignorer) (Snapshot, error) {
	return ScanSubtree(root, "", ignorer, store)
}

// ScanSubtree re-derives every snapshot entry rooted at subdir (the empty
// RelPath meaning the whole tree), the targeted refresh spec.md §4.5 names
// for a folder create/remove event whose prior contents the watcher can't
// enumerate. The caller is responsible for pruning any existing snapshot
// entries under subdir before merging this result in, since a path present
// in the old snapshot but absent here has been removed. If subdir no longer
// exists, ScanSubtree returns an empty Snapshot rather than an error.
func ScanSubtree(root string, subdir RelPath, ignorer ignore.Ignorer, store ContentInserter) (Snapshot, error) {
	start := root
	if subdir != "" {
		start = filepath.Join(root, filepath.FromSlash(subdir.String()))
	}

	snapshot := make(Snapshot)
	err := filepath.WalkDir(start, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return errors.Wrapf(err, "unable to walk %s", path)
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return errors.Wrapf(relErr, "unable to relativize %s", path)
		}
		if rel == "." {
			return nil
		}
		relPath := NewRelPath(rel)

		if ignorer != nil && ignorer.Ignored(relPath.String()) {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.IsDir() {
			return nil
		}
		if entry.Type()&os.ModeSymlink != 0 || !entry.Type().IsRegular() {
			return nil
		}

		id, err := readAndInsert(path, store)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return errors.Wrapf(err, "unable to read %s", path)
		}
		snapshot[relPath] = FileMeta{Content: id}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return snapshot, nil
		}
		return nil, err
	}

	return snapshot, nil
}

// ScanPath re-derives the snapshot entry for a single path relative to root,
// the targeted refresh spec.md §4.5 names for a single-path watcher event. It
// returns (meta, true) if relPath currently names a regular, non-ignored
// file, or (FileMeta{}, false) if it doesn't (removed, replaced by a
// directory or other special file, or ignored) — the caller should delete
// any existing snapshot entry for relPath in that case.
func ScanPath(root string, relPath RelPath, ignorer ignore.Ignorer, store ContentInserter) (FileMeta, bool, error) {
	if ignorer != nil && ignorer.Ignored(relPath.String()) {
		return FileMeta{}, false, nil
	}

	path := filepath.Join(root, filepath.FromSlash(relPath.String()))
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileMeta{}, false, nil
		}
		return FileMeta{}, false, errors.Wrapf(err, "unable to stat %s", path)
	}
	if info.Mode()&os.ModeSymlink != 0 || !info.Mode().IsRegular() {
		return FileMeta{}, false, nil
	}

	id, err := readAndInsert(path, store)
	if err != nil {
		if os.IsNotExist(err) {
			return FileMeta{}, false, nil
		}
		return FileMeta{}, false, errors.Wrapf(err, "unable to read %s", path)
	}
	return FileMeta{Content: id}, true, nil
}

// readAndInsert reads the file at path in full and inserts its content into
// store, returning the resulting ContentId. The returned error is the raw
// os error (unwrapped), so callers can still test it with os.IsNotExist for
// a file that disappeared between being named and being read.
func readAndInsert(path string, store ContentInserter) (ContentId, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ContentId{}, err
	}
	return store.Add(data), nil
}

// ContentInserter is the subset of contentstore.Store that Scan needs.
type ContentInserter interface {
	Add(data []byte) ContentId
}
