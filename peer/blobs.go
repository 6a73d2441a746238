package peer

import (
	"github.com/maan2003/fync/contentstore"
	"github.com/maan2003/fync/core"
	"github.com/maan2003/fync/protocol"
)

// referencedIds collects the set of ContentIds a snapshot refers to.
func referencedIds(snapshot core.Snapshot) map[core.ContentId]bool {
	referenced := make(map[core.ContentId]bool, len(snapshot))
	for _, meta := range snapshot {
		referenced[meta.Content] = true
	}
	return referenced
}

// packBlobs reads every id out of store and returns them as wire blobs. If
// the local store is missing one (which should never happen for ids drawn
// from its own journal or its own Ids()), that id is silently skipped
// rather than failing the whole send; the gap will surface as a
// core.ErrMissingContent from the receiving end's ApplyToDisk, which ends
// the receiver's Run with that error.
func packBlobs(store *contentstore.Store, ids []core.ContentId) []protocol.Blob {
	blobs := make([]protocol.Blob, 0, len(ids))
	for _, id := range ids {
		data, err := store.Get(id)
		if err != nil {
			continue
		}
		blobs = append(blobs, protocol.Blob{Id: id, Data: data})
	}
	return blobs
}

// applyBlobs inserts every received blob into store.
func applyBlobs(store *contentstore.Store, blobs []protocol.Blob) {
	for _, blob := range blobs {
		store.Insert(blob.Id, blob.Data)
	}
}

// blobsForDiff packs the blobs a diff's Created/Modified changes reference,
// using whatever the store already holds plus anything newly journaled
// since the last drain (the common case for an outgoing Changes message).
func blobsForDiff(store *contentstore.Store, diff core.Diff, newlyInserted []core.ContentId) []protocol.Blob {
	needed := make(map[core.ContentId]bool)
	for _, change := range diff {
		if change.Kind == core.ChangeCreated || change.Kind == core.ChangeModified {
			needed[change.New.Content] = true
		}
	}
	ids := make([]core.ContentId, 0, len(needed))
	seen := make(map[core.ContentId]bool, len(needed))
	for _, id := range newlyInserted {
		if needed[id] && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for id := range needed {
		if !seen[id] && store.Has(id) {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return packBlobs(store, ids)
}
