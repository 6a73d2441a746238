package watching

// RefreshKind distinguishes the two shapes of refresh request the core
// scanner needs to handle, per spec.md §4.6: a single-path rescan or a
// full-subtree rescan (forced whenever a folder itself is created or
// removed, since the watcher can't enumerate the folder's prior contents).
type RefreshKind uint8

const (
	// RefreshPath requests a rescan of a single path.
	RefreshPath RefreshKind = iota
	// RefreshFullRescan requests a rescan of an entire subtree, rooted at
	// Path (the root directory itself uses the empty relative path).
	RefreshFullRescan
)

// RefreshRequest is the debounced, classified output of the watcher
// adapter: something that a reconciler can act on directly, independent of
// whatever raw events the watcher library reported.
type RefreshRequest struct {
	Kind RefreshKind
	Path string
}

// Classify converts a single raw event into the refresh requests it
// implies. Access events never imply a refresh and are dropped. Folder
// create/remove events force a full rescan of that path, since the watcher
// can't tell us what the folder contained (on create) or used to contain
// (on remove); every other kind implies a targeted single-path refresh.
func Classify(event RawEvent) []RefreshRequest {
	switch event.Kind {
	case EventAccess:
		return nil
	case EventCreateFolder, EventRemoveFolder:
		requests := make([]RefreshRequest, len(event.Paths))
		for i, path := range event.Paths {
			requests[i] = RefreshRequest{Kind: RefreshFullRescan, Path: path}
		}
		return requests
	default:
		requests := make([]RefreshRequest, len(event.Paths))
		for i, path := range event.Paths {
			requests[i] = RefreshRequest{Kind: RefreshPath, Path: path}
		}
		return requests
	}
}
