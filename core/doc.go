// Package core implements the snapshot/diff algebra that the reconciler uses
// to describe and apply changes to a file tree. It intentionally tracks only
// content identity (a BLAKE3 digest of file bytes): modes, ownership,
// timestamps, and symbolic links are never read or represented, since the
// synchronized trees are only ever compared by content.
package core
