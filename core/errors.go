package core

import "errors"

// ErrMissingContent indicates that a ContentId referenced by a diff (or by a
// snapshot at transmission time) could not be resolved in the content store.
// Per spec.md §7 this indicates a protocol violation by the peer that sent
// the reference, and is fatal to the connection.
var ErrMissingContent = errors.New("content not present in store")
