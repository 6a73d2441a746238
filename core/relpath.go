package core

import (
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// RelPath is a path relative to a synchronization root, always
// forward-slash-separated regardless of host platform, and always free of
// "." and ".." segments. The zero value represents the root itself.
type RelPath string

// normalize converts an OS-native relative path into a RelPath, recomposing
// any decomposed Unicode sequences so that filesystems which decompose names
// on write (notably HFS+) don't produce spurious per-rune diffs against peers
// whose filesystems preserve composed forms.
func normalize(nativePath string) RelPath {
	cleaned := path.Clean(filepath.ToSlash(nativePath))
	if cleaned == "." {
		cleaned = ""
	}
	return RelPath(norm.NFC.String(cleaned))
}

// NewRelPath constructs a RelPath from a string, normalizing it. It is the
// caller's responsibility to ensure the string is already relative to the
// synchronization root.
func NewRelPath(s string) RelPath {
	return normalize(s)
}

// String returns the path as a plain string.
func (p RelPath) String() string {
	return string(p)
}

// Join joins a child name onto a RelPath, as a path.Join would, but always
// staying within the RelPath invariants (no leading slash, forward-slashed).
func (p RelPath) Join(name string) RelPath {
	if p == "" {
		return RelPath(name)
	}
	return RelPath(string(p) + "/" + name)
}

// HasPrefix reports whether p is equal to prefix or is nested under it (i.e.
// prefix is a directory ancestor of p). The empty RelPath (the root) is a
// prefix of every path.
func (p RelPath) HasPrefix(prefix RelPath) bool {
	if prefix == "" {
		return true
	}
	ps, pr := string(p), string(prefix)
	if ps == pr {
		return true
	}
	return strings.HasPrefix(ps, pr+"/")
}

// Less provides the lexicographic ordering used to keep Snapshot and Diff
// output deterministic.
func Less(a, b RelPath) bool {
	return a < b
}
