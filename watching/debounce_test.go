package watching

import (
	"context"
	"testing"
	"time"
)

// TestDebouncerCoalescesBurst exercises spec's S6 scenario: many events
// touching 2 distinct paths arrive within a few milliseconds, well under
// the soft window, and should collapse into exactly one batch naming both
// paths exactly once each.
func TestDebouncerCoalescesBurst(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	raw := make(chan RawEvent)
	debouncer := &Debouncer{Soft: 15 * time.Millisecond, Hard: 100 * time.Millisecond}
	out := debouncer.Run(ctx, raw, nil)

	go func() {
		for i := 0; i < 20; i++ {
			raw <- RawEvent{Kind: EventModify, Paths: []string{"a.txt"}}
			raw <- RawEvent{Kind: EventModify, Paths: []string{"b.txt"}}
		}
	}()

	select {
	case batch := <-out:
		if len(batch) != 2 {
			t.Fatalf("expected batch of 2 deduplicated paths, got %d: %v", len(batch), batch)
		}
		seen := map[string]bool{}
		for _, r := range batch {
			if r.Kind != RefreshPath {
				t.Errorf("expected RefreshPath, got %v for %s", r.Kind, r.Path)
			}
			seen[r.Path] = true
		}
		if !seen["a.txt"] || !seen["b.txt"] {
			t.Fatalf("batch missing expected paths: %v", batch)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for debounced batch")
	}
}

// TestDebouncerHardCeilingFlushesUnderContinuousTraffic checks that a
// continuously busy source still flushes at the hard ceiling rather than
// waiting forever for a quiet period.
func TestDebouncerHardCeilingFlushesUnderContinuousTraffic(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	raw := make(chan RawEvent)
	debouncer := &Debouncer{Soft: 10 * time.Millisecond, Hard: 30 * time.Millisecond}
	out := debouncer.Run(ctx, raw, nil)

	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(5 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				select {
				case raw <- RawEvent{Kind: EventModify, Paths: []string{"busy.txt"}}:
				case <-stop:
					return
				}
			case <-stop:
				return
			}
		}
	}()
	defer close(stop)

	select {
	case batch := <-out:
		if len(batch) != 1 || batch[0].Path != "busy.txt" {
			t.Fatalf("unexpected batch: %v", batch)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("hard ceiling did not flush under continuous traffic")
	}
}

type prefixIgnorer struct{ prefix string }

func (p prefixIgnorer) Ignored(path string) bool {
	return len(path) >= len(p.prefix) && path[:len(p.prefix)] == p.prefix
}

func TestDebouncerAppliesIgnoreAtFlushTime(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	raw := make(chan RawEvent)
	debouncer := &Debouncer{Soft: 10 * time.Millisecond, Hard: 50 * time.Millisecond}
	out := debouncer.Run(ctx, raw, prefixIgnorer{prefix: "ignored/"})

	go func() {
		raw <- RawEvent{Kind: EventModify, Paths: []string{"ignored/a.txt"}}
		raw <- RawEvent{Kind: EventModify, Paths: []string{"kept.txt"}}
	}()

	select {
	case batch := <-out:
		if len(batch) != 1 || batch[0].Path != "kept.txt" {
			t.Fatalf("expected only kept.txt to survive ignore filtering, got %v", batch)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for debounced batch")
	}
}

func TestClassifyDropsAccessAndForcesFullRescanForFolders(t *testing.T) {
	if requests := Classify(RawEvent{Kind: EventAccess, Paths: []string{"a.txt"}}); requests != nil {
		t.Fatalf("expected access events to be dropped, got %v", requests)
	}

	requests := Classify(RawEvent{Kind: EventCreateFolder, Paths: []string{"dir"}})
	if len(requests) != 1 || requests[0].Kind != RefreshFullRescan {
		t.Fatalf("expected full rescan for folder creation, got %v", requests)
	}

	requests = Classify(RawEvent{Kind: EventModify, Paths: []string{"a.txt"}})
	if len(requests) != 1 || requests[0].Kind != RefreshPath {
		t.Fatalf("expected single-path refresh for modify, got %v", requests)
	}
}
