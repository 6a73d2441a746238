// Package config loads and validates the on-disk configuration for an fync
// peer: which root to watch, how to reach the other peer, authority for
// the init sub-protocol's Override step, ignore patterns, and logging
// verbosity. It's adapted from the teacher's pkg/configuration packages,
// generalized to this module's simpler single-session model.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/maan2003/fync/logging"
)

// Project is the top-level configuration for one side of a sync, normally
// loaded from a ".fync.yml" file at the root of the directory being
// synced.
type Project struct {
	// Root is the directory to synchronize. Empty means the directory
	// containing the config file itself.
	Root string `yaml:"root"`

	// Address is how to reach the other peer: "stdio" for a process
	// launched over stdin/stdout, or a "host:port" TCP address.
	Address string `yaml:"address"`

	// Authoritative marks this peer as authoritative for the init
	// sub-protocol's Override step (spec.md §5.1). At most one of a pair's
	// two Project configs may set this.
	Authoritative bool `yaml:"authoritative"`

	// Ignore lists glob patterns (doublestar syntax) of paths to exclude
	// from synchronization, in addition to whatever ".fyncignore" file
	// sits at Root.
	Ignore []string `yaml:"ignore"`

	// LogLevel names the logging.Level to run at; defaults to "info" if
	// empty or unrecognized.
	LogLevel string `yaml:"logLevel"`
}

// Load reads and parses a Project configuration from path.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read configuration")
	}
	var project Project
	if err := yaml.Unmarshal(data, &project); err != nil {
		return nil, errors.Wrap(err, "unable to parse configuration")
	}
	return &project, nil
}

// Level returns the parsed logging.Level for LogLevel, defaulting to
// logging.LevelInfo if LogLevel is empty or unrecognized.
func (p *Project) Level() logging.Level {
	if p.LogLevel == "" {
		return logging.LevelInfo
	}
	if level, ok := logging.NameToLevel(p.LogLevel); ok {
		return level
	}
	return logging.LevelInfo
}

// ErrDualAuthority indicates both peers in a pair were configured
// authoritative, which is rejected rather than arbitrated (spec.md §5.1
// allows at most one authoritative peer; two is a configuration error, not
// a runtime condition to resolve automatically).
var ErrDualAuthority = errors.New("both peers configured authoritative")

// ValidatePair checks a pair of Project configs for the authority
// constraint the init sub-protocol depends on: zero or one authoritative,
// never two.
func ValidatePair(local, remote *Project) error {
	if local.Authoritative && remote.Authoritative {
		return ErrDualAuthority
	}
	return nil
}
