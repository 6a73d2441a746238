// Package contentstore implements the content-addressed blob store each
// peer uses to hold the bytes behind the ContentIds in its snapshots.
package contentstore

import (
	"fmt"

	"github.com/maan2003/fync/core"
)

// Store is a mapping from ContentId to bytes, plus a journal of ids
// inserted since the last drain. It is owned by a single peer's event loop
// and is never shared across goroutines (spec.md §5), so it carries no
// internal locking.
type Store struct {
	blobs   map[core.ContentId][]byte
	journal []core.ContentId
}

// New creates an empty content store.
func New() *Store {
	return &Store{blobs: make(map[core.ContentId][]byte)}
}

// Add computes the ContentId of data, inserting it if not already present,
// and returns the id. Insertion (and journaling) is idempotent by content:
// adding the same bytes twice journals the id only once.
func (s *Store) Add(data []byte) core.ContentId {
	id := core.HashContent(data)
	s.insert(id, data)
	return id
}

// Insert stores data under an externally supplied id (as happens when blobs
// arrive over the wire alongside a diff). The caller is trusted to have
// computed id correctly; Insert does not re-hash to verify it.
func (s *Store) Insert(id core.ContentId, data []byte) {
	s.insert(id, data)
}

func (s *Store) insert(id core.ContentId, data []byte) {
	if _, exists := s.blobs[id]; exists {
		return
	}
	s.blobs[id] = data
	s.journal = append(s.journal, id)
}

// Get returns the bytes for id, failing with core.ErrMissingContent if
// absent.
func (s *Store) Get(id core.ContentId) ([]byte, error) {
	data, ok := s.blobs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrMissingContent, id)
	}
	return data, nil
}

// Has reports whether id is present in the store.
func (s *Store) Has(id core.ContentId) bool {
	_, ok := s.blobs[id]
	return ok
}

// Remove evicts a blob from the store. Removal is never required for
// correctness (per spec.md §3) — it exists purely so long-running peers can
// bound memory use for blobs that are no longer referenced by either
// snapshot.
func (s *Store) Remove(id core.ContentId) {
	delete(s.blobs, id)
}

// DrainNew returns the ids inserted since the last DrainNew call (or since
// creation) and clears the journal. Invoked immediately before packing an
// outbound Changes message, so the message carries exactly the blobs its
// diff newly references.
func (s *Store) DrainNew() []core.ContentId {
	drained := s.journal
	s.journal = nil
	return drained
}

// Ids returns every ContentId currently held by the store, in no particular
// order.
func (s *Store) Ids() []core.ContentId {
	ids := make([]core.ContentId, 0, len(s.blobs))
	for id := range s.blobs {
		ids = append(ids, id)
	}
	return ids
}

// NotIn returns the subset of have's ids that do not appear in referenced.
// Used by the authoritative peer to compute the Override blob set: every id
// it holds that the subordinate's announced snapshot doesn't reference (the
// set difference over ContentIds described in spec.md §4.3).
func NotIn(have *Store, referenced map[core.ContentId]bool) []core.ContentId {
	var missing []core.ContentId
	for _, id := range have.Ids() {
		if !referenced[id] {
			missing = append(missing, id)
		}
	}
	return missing
}
