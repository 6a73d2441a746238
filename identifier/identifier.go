// Package identifier generates short, collision-resistant identifiers for
// peers and sessions, adapted from the teacher's pkg/identifier and
// pkg/random packages, but built on the pack's own base-X encoder
// (github.com/eknkc/basex) rather than a hand-written base62 codec.
package identifier

import (
	"crypto/rand"
	"fmt"

	"github.com/eknkc/basex"
	"github.com/google/uuid"
)

// base62Alphabet mirrors the teacher's own base62 alphabet; basex takes an
// explicit alphabet rather than assuming one.
const base62Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

var encoding = mustEncoding()

func mustEncoding() *basex.Encoding {
	enc, err := basex.NewEncoding(base62Alphabet)
	if err != nil {
		panic("invalid base62 alphabet: " + err.Error())
	}
	return enc
}

// collisionResistantLength is the number of random bytes used per
// identifier, matching the teacher's pkg/identifier sizing.
const collisionResistantLength = 32

// New generates a new collision-resistant identifier with the given prefix
// (for example "peer" or "sess"). The prefix is not validated; callers
// within this module always pass a fixed literal.
func New(prefix string) (string, error) {
	raw := make([]byte, collisionResistantLength)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("unable to read random data: %w", err)
	}
	return prefix + "_" + encoding.Encode(raw), nil
}

// NewUUID generates a session identifier as a UUID string, used where a
// fixed-format, widely-interoperable identifier is preferable to the
// base62 form above (for example in project configuration files that might
// be read by other tooling).
func NewUUID() string {
	return uuid.New().String()
}
