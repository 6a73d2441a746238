// Package watching implements the watcher adapter described in spec.md
// §4.6: classification of raw OS change-notification events into refresh
// requests, debouncing of bursts, and ignore filtering — independent of
// whatever library actually produces the raw events.
package watching

// EventKind classifies a single raw filesystem event as reported by the
// watcher library. spec.md §6 specifies only this shape; native.go supplies
// one concrete implementation using fsnotify.
type EventKind uint8

const (
	// EventCreateFile indicates a new regular file.
	EventCreateFile EventKind = iota
	// EventCreateFolder indicates a new directory.
	EventCreateFolder
	// EventModify indicates an existing path's content or metadata changed.
	EventModify
	// EventRemoveFile indicates a regular file was removed.
	EventRemoveFile
	// EventRemoveFolder indicates a directory was removed.
	EventRemoveFolder
	// EventOther covers renames and any other event the source can't
	// confidently classify as a folder create/remove.
	EventOther
	// EventAccess indicates a read-only access (open, stat) with no content
	// change. Classify always discards these.
	EventAccess
)

// RawEvent is one batch of raw change notifications sharing a kind, as
// delivered by the watcher library: most libraries (fsnotify included)
// report one path per event, but the adapter accepts a batch to match
// spec.md's grammar ("kind + affected paths") without forcing a 1:1 mapping
// between library events and RawEvent values.
type RawEvent struct {
	Kind  EventKind
	Paths []string
}
