package core

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// ContentIdSize is the fixed length, in bytes, of a ContentId.
const ContentIdSize = 32

// ContentId is a BLAKE3 digest of a file's exact byte contents. Equality of
// two ContentId values implies byte equality of the underlying content with
// negligible collision probability; nothing in this package ever compares
// file metadata other than this digest.
type ContentId [ContentIdSize]byte

// HashContent computes the ContentId for a byte slice.
func HashContent(data []byte) ContentId {
	return ContentId(blake3.Sum256(data))
}

// IsZero reports whether the ContentId is the zero value (never a valid
// digest of real content, but useful as a sentinel in caches).
func (id ContentId) IsZero() bool {
	return id == ContentId{}
}

// String returns the lowercase hex encoding of the digest, used in logging
// and conflict reports.
func (id ContentId) String() string {
	return hex.EncodeToString(id[:])
}
