package core

// FileMeta carries the metadata tracked for a regular file. Today it carries
// exactly the content digest: the reconciliation algebra depends only on
// content identity, never on mode bits or modification times, both of which
// are explicitly excluded from this system (see the Non-goals in
// SPEC_FULL.md). The type exists as a struct, rather than a bare ContentId,
// so that it can grow additional fields without perturbing every call site
// that deals in metadata.
type FileMeta struct {
	// Content is the digest of the file's exact byte contents.
	Content ContentId
}

// Equal reports whether two FileMeta values refer to identical content.
func (m FileMeta) Equal(other FileMeta) bool {
	return m.Content == other.Content
}
