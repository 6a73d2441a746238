package watching

import (
	"context"
	"sort"
	"time"

	"github.com/maan2003/fync/ignore"
)

// Default debounce windows, per spec.md §4.6: a short soft window that
// resets on every new event (coalescing bursts), bounded by a hard ceiling
// so a continuously-busy directory still flushes periodically. The
// original Rust prototype used a single 20ms deadline with no separate
// soft/hard split; this module follows the more detailed two-window
// behavior the spec calls for.
const (
	DefaultSoftWindow = 15 * time.Millisecond
	DefaultHardWindow = 100 * time.Millisecond
)

// Debouncer coalesces a burst of raw watcher events into batched refresh
// requests, deduplicating and ignore-filtering before ever handing anything
// to a reconciler.
type Debouncer struct {
	Soft time.Duration
	Hard time.Duration
}

// NewDebouncer constructs a Debouncer using the default soft/hard windows.
func NewDebouncer() *Debouncer {
	return &Debouncer{Soft: DefaultSoftWindow, Hard: DefaultHardWindow}
}

// Run consumes raw events from the given channel and emits debounced,
// deduplicated, ignore-filtered batches of refresh requests on the returned
// channel. The returned channel is closed once raw is closed and any final
// pending batch has been flushed, or once ctx is cancelled.
func (d *Debouncer) Run(ctx context.Context, raw <-chan RawEvent, ignorer ignore.Ignorer) <-chan []RefreshRequest {
	out := make(chan []RefreshRequest)

	go func() {
		defer close(out)

		pending := make(map[RefreshRequest]struct{})
		var softTimer, hardTimer *time.Timer
		var softC, hardC <-chan time.Time

		stopTimers := func() {
			if softTimer != nil {
				softTimer.Stop()
			}
			if hardTimer != nil {
				hardTimer.Stop()
			}
			softTimer, hardTimer = nil, nil
			softC, hardC = nil, nil
		}

		flush := func() bool {
			stopTimers()
			if len(pending) == 0 {
				return true
			}
			batch := make([]RefreshRequest, 0, len(pending))
			for request := range pending {
				if ignorer != nil && ignorer.Ignored(request.Path) {
					continue
				}
				batch = append(batch, request)
			}
			pending = make(map[RefreshRequest]struct{})
			if len(batch) == 0 {
				return true
			}
			sort.Slice(batch, func(i, j int) bool {
				if batch[i].Path != batch[j].Path {
					return batch[i].Path < batch[j].Path
				}
				return batch[i].Kind < batch[j].Kind
			})
			select {
			case out <- batch:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for {
			select {
			case event, ok := <-raw:
				if !ok {
					flush()
					return
				}
				for _, request := range Classify(event) {
					pending[request] = struct{}{}
				}
				if len(pending) == 0 {
					continue
				}
				if softTimer != nil {
					softTimer.Stop()
				}
				softTimer = time.NewTimer(d.Soft)
				softC = softTimer.C
				if hardTimer == nil {
					hardTimer = time.NewTimer(d.Hard)
					hardC = hardTimer.C
				}
			case <-softC:
				if !flush() {
					return
				}
			case <-hardC:
				if !flush() {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
