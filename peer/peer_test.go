package peer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/maan2003/fync/contentstore"
	"github.com/maan2003/fync/core"
	"github.com/maan2003/fync/protocol"
	"github.com/maan2003/fync/transport"
	"github.com/maan2003/fync/watching"
)

// newSide creates a temp directory populated with the given files and
// returns a Reconciler scanned from it, along with the root path.
func newSide(t *testing.T, files map[string]string, role Role) (*Reconciler, string) {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		full := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	store := contentstore.New()
	snapshot, err := core.Scan(root, store, nil)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	return New(root, snapshot, store, role, nil), root
}

func runHandshake(t *testing.T, a, b *Reconciler) {
	t.Helper()
	streamA, streamB := transport.NewInProcessPair()

	encA, decA := protocol.NewEncoder(streamA), protocol.NewDecoder(streamA)
	encB, decB := protocol.NewEncoder(streamB), protocol.NewDecoder(streamB)

	errs := make(chan error, 2)
	go func() { errs <- a.Handshake(encA, decA) }()
	go func() { errs <- b.Handshake(encB, decB) }()

	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil {
			t.Fatalf("handshake failed: %v", err)
		}
	}
}

// TestHandshakeSymmetricPeersAgreeOnAnnounce covers S1: two RolePeer sides
// with identical content settle immediately with no conflicts.
func TestHandshakeSymmetricPeersAgreeOnAnnounce(t *testing.T) {
	a, _ := newSide(t, map[string]string{"shared.txt": "same"}, RolePeer)
	b, _ := newSide(t, map[string]string{"shared.txt": "same"}, RolePeer)

	runHandshake(t, a, b)

	if a.State() != StateRunning || b.State() != StateRunning {
		t.Fatalf("expected both sides running, got %s / %s", a.State(), b.State())
	}
	if !a.IsSettled() || !b.IsSettled() {
		t.Fatalf("expected both sides settled after identical announce")
	}
}

// TestHandshakeAuthoritativeOverridesSubordinate covers S2: an
// authoritative peer's snapshot and blobs are forced onto an empty
// subordinate during init.
func TestHandshakeAuthoritativeOverridesSubordinate(t *testing.T) {
	authoritative, _ := newSide(t, map[string]string{"a.txt": "from-authoritative"}, RoleAuthoritative)
	subordinate, subRoot := newSide(t, map[string]string{}, RoleSubordinate)

	runHandshake(t, authoritative, subordinate)

	if subordinate.State() != StateRunning {
		t.Fatalf("expected subordinate running, got %s", subordinate.State())
	}
	data, err := os.ReadFile(filepath.Join(subRoot, "a.txt"))
	if err != nil {
		t.Fatalf("expected a.txt to be materialized on subordinate, got error: %v", err)
	}
	if string(data) != "from-authoritative" {
		t.Fatalf("a.txt content = %q, want %q", data, "from-authoritative")
	}
	if !subordinate.Local().Equal(authoritative.Local()) {
		t.Fatalf("subordinate local snapshot does not match authoritative's")
	}
}

// exchange drives one round of steady-state messaging from a to b and back,
// simulating the network without a real transport: whatever a.NextOutgoing
// produces is delivered to b.HandleIncoming, and the response (if any) is
// delivered back to a.HandleIncoming.
func exchange(t *testing.T, from, to *Reconciler) {
	t.Helper()
	msg, ok := from.NextOutgoing()
	if !ok {
		return
	}
	response, err := to.HandleIncoming(msg)
	if err != nil {
		t.Fatalf("HandleIncoming failed: %v", err)
	}
	if response != nil {
		if _, err := from.HandleIncoming(response); err != nil {
			t.Fatalf("HandleIncoming ack failed: %v", err)
		}
	}
}

// TestSteadyStateDisjointConcurrentEdits covers S3: two peers each create a
// distinct file concurrently; both should end up with both files and no
// conflicts.
func TestSteadyStateDisjointConcurrentEdits(t *testing.T) {
	a, rootA := newSide(t, map[string]string{}, RolePeer)
	b, rootB := newSide(t, map[string]string{}, RolePeer)
	runHandshake(t, a, b)

	writeAndRescan(t, a, rootA, "a-only.txt", "from a")
	writeAndRescan(t, b, rootB, "b-only.txt", "from b")

	exchange(t, a, b)
	exchange(t, b, a)

	if len(a.ConflictLog()) != 0 || len(b.ConflictLog()) != 0 {
		t.Fatalf("expected no conflicts, got a=%v b=%v", a.ConflictLog(), b.ConflictLog())
	}
	requireFile(t, rootB, "a-only.txt", "from a")
	requireFile(t, rootA, "b-only.txt", "from b")
}

// TestSteadyStateConflictingModifyIsDetected covers S4: both peers modify
// the same path to different content concurrently; applying the losing
// side's change must be flagged as a conflict and leave the winning side's
// disk content untouched.
func TestSteadyStateConflictingModifyIsDetected(t *testing.T) {
	a, rootA := newSide(t, map[string]string{"shared.txt": "base"}, RolePeer)
	b, rootB := newSide(t, map[string]string{"shared.txt": "base"}, RolePeer)
	runHandshake(t, a, b)

	writeAndRescan(t, a, rootA, "shared.txt", "from a")
	writeAndRescan(t, b, rootB, "shared.txt", "from b")

	// Only a's change is sent in this scenario: b's own concurrent edit
	// already sitting on disk at the same path is what makes the incoming
	// change conflict.
	exchange(t, a, b)

	if len(b.ConflictLog()) != 1 {
		t.Fatalf("expected b to record one conflict, got %v", b.ConflictLog())
	}
	requireFile(t, rootB, "shared.txt", "from b")
}

// TestSteadyStateSameContentCreateConverges covers S5: both peers
// independently create the same path with identical content; this must not
// be flagged as a conflict.
func TestSteadyStateSameContentCreateConverges(t *testing.T) {
	a, rootA := newSide(t, map[string]string{}, RolePeer)
	b, rootB := newSide(t, map[string]string{}, RolePeer)
	runHandshake(t, a, b)

	writeAndRescan(t, a, rootA, "same.txt", "identical")
	writeAndRescan(t, b, rootB, "same.txt", "identical")

	exchange(t, a, b)
	exchange(t, b, a)

	if len(a.ConflictLog()) != 0 || len(b.ConflictLog()) != 0 {
		t.Fatalf("expected no conflicts for same-content create, got a=%v b=%v", a.ConflictLog(), b.ConflictLog())
	}
}

// writeAndRescan writes name under root with the given content and applies
// the targeted RefreshPath refresh for it, exercising the same code path the
// watcher-driven run loop uses for a single-file change.
func writeAndRescan(t *testing.T, r *Reconciler, root, name, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := r.rescan(nil, []watching.RefreshRequest{{Kind: watching.RefreshPath, Path: name}}); err != nil {
		t.Fatalf("rescan failed: %v", err)
	}
}

func requireFile(t *testing.T, root, name, want string) {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
	if err != nil {
		t.Fatalf("expected %s to exist under %s: %v", name, root, err)
	}
	if string(data) != want {
		t.Fatalf("%s content = %q, want %q", name, data, want)
	}
}

// TestHandleAckAdvancesLastSentByAcceptedDiffOnly guards against a bug where
// an edit landing between a Changes message being sent and its ack being
// received was silently folded into lastSent (by cloning the then-current
// local snapshot) instead of being tracked separately, making the edit
// indistinguishable from "already sent" and dropping it forever.
func TestHandleAckAdvancesLastSentByAcceptedDiffOnly(t *testing.T) {
	a, rootA := newSide(t, map[string]string{"shared.txt": "base"}, RolePeer)
	b, _ := newSide(t, map[string]string{"shared.txt": "base"}, RolePeer)
	runHandshake(t, a, b)

	writeAndRescan(t, a, rootA, "shared.txt", "v1")

	if _, ok := a.NextOutgoing(); !ok {
		t.Fatalf("expected an outgoing Changes message for v1")
	}

	// A second local edit lands while the first Changes message is still
	// awaiting acknowledgment.
	writeAndRescan(t, a, rootA, "shared.txt", "v2")

	if _, ok := a.NextOutgoing(); ok {
		t.Fatalf("expected no outgoing message while one is already in flight")
	}

	if _, err := a.HandleIncoming(&protocol.RegularMessage{Kind: protocol.RegularChangesResponse}); err != nil {
		t.Fatalf("ack failed: %v", err)
	}

	out, ok := a.NextOutgoing()
	if !ok {
		t.Fatalf("expected the v2 edit (which arrived before the ack) to still be pending")
	}
	if len(out.Diff) != 1 || out.Diff[0].Path != core.NewRelPath("shared.txt") {
		t.Fatalf("expected a pending diff for shared.txt, got %v", out.Diff)
	}
}

// TestRescanPathUpdatesOnlyTheNamedEntry covers the RefreshPath case of
// spec.md §4.5: a single-path refresh stats and rehashes just that path.
func TestRescanPathUpdatesOnlyTheNamedEntry(t *testing.T) {
	r, root := newSide(t, map[string]string{"a.txt": "a", "b.txt": "b"}, RolePeer)

	writeAndRescan(t, r, root, "a.txt", "a-changed")

	local := r.Local()
	if got := local[core.NewRelPath("a.txt")]; got.Content != core.HashContent([]byte("a-changed")) {
		t.Fatalf("expected a.txt to be rehashed")
	}
	if got := local[core.NewRelPath("b.txt")]; got.Content != core.HashContent([]byte("b")) {
		t.Fatalf("expected b.txt to be untouched by a's refresh")
	}
}

// TestRescanPathRemovesDeletedEntry covers the other half of RefreshPath: a
// path that no longer exists on disk is dropped from the snapshot instead of
// retaining a stale entry.
func TestRescanPathRemovesDeletedEntry(t *testing.T) {
	r, root := newSide(t, map[string]string{"gone.txt": "bye"}, RolePeer)

	if err := os.Remove(filepath.Join(root, "gone.txt")); err != nil {
		t.Fatal(err)
	}
	if err := r.rescan(nil, []watching.RefreshRequest{{Kind: watching.RefreshPath, Path: "gone.txt"}}); err != nil {
		t.Fatalf("rescan failed: %v", err)
	}

	if _, ok := r.Local()[core.NewRelPath("gone.txt")]; ok {
		t.Fatalf("expected gone.txt to be removed from the snapshot")
	}
}

// TestRescanFullRescanPrunesStaleEntries covers the RefreshFullRescan case of
// spec.md §4.5: every snapshot entry under the refreshed subtree is dropped
// and replaced by a fresh walk, so a path removed from the subtree doesn't
// linger, while entries outside the subtree are left alone.
func TestRescanFullRescanPrunesStaleEntries(t *testing.T) {
	r, root := newSide(t, map[string]string{
		"dir/old.txt":  "old",
		"dir/keep.txt": "keep",
		"outside.txt":  "outside",
	}, RolePeer)

	if err := os.Remove(filepath.Join(root, "dir", "old.txt")); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "dir", "new.txt"), []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := r.rescan(nil, []watching.RefreshRequest{{Kind: watching.RefreshFullRescan, Path: "dir"}}); err != nil {
		t.Fatalf("rescan failed: %v", err)
	}

	local := r.Local()
	if _, ok := local[core.NewRelPath("dir/old.txt")]; ok {
		t.Fatalf("expected dir/old.txt to be pruned")
	}
	if _, ok := local[core.NewRelPath("dir/new.txt")]; !ok {
		t.Fatalf("expected dir/new.txt to be discovered")
	}
	if _, ok := local[core.NewRelPath("dir/keep.txt")]; !ok {
		t.Fatalf("expected dir/keep.txt to survive")
	}
	if _, ok := local[core.NewRelPath("outside.txt")]; !ok {
		t.Fatalf("expected outside.txt to be untouched by a subtree rescan")
	}
}
