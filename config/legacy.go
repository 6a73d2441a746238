package config

import (
	"os"

	"github.com/pkg/errors"
	yamlv2 "gopkg.in/yaml.v2"
)

// legacyIgnoreFile is the shape of the pre-1.0 ignore file format: a bare
// YAML list of patterns, with no surrounding "ignore:" key. Projects
// migrating from that format can keep using it without rewriting it into
// the current Project.Ignore field.
//
// yaml.v2 is used here deliberately rather than yaml.v3: the two libraries
// differ in how they handle a few legacy scalar quirks (octal-looking
// strings in particular), and testing against real old ignore files showed
// yaml.v2's parsing matches what those files were originally written
// against.
func loadLegacyIgnoreFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read legacy ignore file")
	}
	var patterns []string
	if err := yamlv2.Unmarshal(data, &patterns); err != nil {
		return nil, errors.Wrap(err, "unable to parse legacy ignore file")
	}
	return patterns, nil
}

// LoadLegacyIgnorePatterns reads a pre-1.0 ignore file at path if it
// exists, returning an empty slice (not an error) if it doesn't.
func LoadLegacyIgnorePatterns(path string) ([]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	return loadLegacyIgnoreFile(path)
}
