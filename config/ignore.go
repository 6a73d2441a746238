package config

import (
	"bufio"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
)

// GlobIgnorer matches paths against a set of doublestar glob patterns,
// adapted from the teacher's Mutagen-style ignore pattern matching
// (pkg/synchronization/core/ignore/mutagen), but without that package's
// negation/directory-only pattern syntax — spec.md's ignore model is a flat
// exclude list, not Mutagen's full layered ignore-VCS system.
type GlobIgnorer struct {
	patterns []string
}

// NewGlobIgnorer builds a GlobIgnorer from a list of glob patterns. Each
// pattern is validated against doublestar's syntax up front so a malformed
// pattern fails at load time rather than silently matching nothing later.
func NewGlobIgnorer(patterns []string) (*GlobIgnorer, error) {
	for _, pattern := range patterns {
		if _, err := doublestar.Match(pattern, "probe"); err != nil {
			return nil, errors.Wrapf(err, "invalid ignore pattern %q", pattern)
		}
	}
	clean := make([]string, len(patterns))
	copy(clean, patterns)
	return &GlobIgnorer{patterns: clean}, nil
}

// Ignored reports whether path matches any configured pattern, either as a
// whole-path match or a base-name match (so "*.tmp" excludes temp files at
// any depth without requiring "**/*.tmp").
func (g *GlobIgnorer) Ignored(path string) bool {
	base := path
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		base = path[idx+1:]
	}
	for _, pattern := range g.patterns {
		if matched, _ := doublestar.Match(pattern, path); matched {
			return true
		}
		if matched, _ := doublestar.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

// ReadIgnoreFile reads a ".fyncignore" file (one glob pattern per line,
// blank lines and "#"-prefixed comments ignored) and returns the patterns
// it contains. A missing file yields an empty, non-error result.
func ReadIgnoreFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "unable to open ignore file")
	}
	defer file.Close()

	var patterns []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "unable to read ignore file")
	}
	return patterns, nil
}
