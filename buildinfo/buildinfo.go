// Package buildinfo carries process-wide build metadata, adapted from the
// teacher's pkg/mutagen package but scoped to what this module actually
// needs (a version string and a debug flag derived from the environment).
package buildinfo

import "os"

// Version is the module's version string, set via -ldflags at build time
// in a real release pipeline; it defaults to "dev" for local builds.
var Version = "dev"

// DebugEnabled controls whether verbose diagnostic output is enabled. It's
// set automatically from the FYNC_DEBUG environment variable so that it can
// be toggled without a rebuild, the same convention the teacher uses for
// MUTAGEN_DEBUG.
var DebugEnabled bool

func init() {
	DebugEnabled = os.Getenv("FYNC_DEBUG") == "1"
}
