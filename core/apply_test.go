package core

import (
	"os"
	"path/filepath"
	"testing"
)

// memStore is a minimal ContentGetter backed by a map, used to exercise
// ApplyToDisk without pulling in the contentstore package.
type memStore map[ContentId][]byte

func (m memStore) Get(id ContentId) ([]byte, error) {
	data, ok := m[id]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func storeFor(contents ...string) memStore {
	store := make(memStore, len(contents))
	for _, c := range contents {
		store[HashContent([]byte(c))] = []byte(c)
	}
	return store
}

// TestApplyYieldsTarget checks law 2 from ComputeDiff's doc comment: applying
// ComputeDiff(s, t) to s yields t, given no conflicts.
func TestApplyYieldsTarget(t *testing.T) {
	base := snap(map[string]string{"a.txt": "1", "keep.txt": "same"})
	target := snap(map[string]string{"a.txt": "2", "keep.txt": "same", "new.txt": "3"})

	diff := ComputeDiff(base, target)
	working := base.Clone()
	conflicts := Apply(working, diff)

	if len(conflicts) != 0 {
		t.Fatalf("expected no conflicts, got %v", conflicts)
	}
	if !working.Equal(target) {
		t.Fatalf("Apply(ComputeDiff(base, target)) = %v, want %v", working, target)
	}
}

func TestApplyDetectsConflict(t *testing.T) {
	base := snap(map[string]string{"a.txt": "1"})
	target := snap(map[string]string{"a.txt": "2"})
	diff := ComputeDiff(base, target)

	// Simulate a divergent concurrent edit: the working snapshot already
	// holds a third value at a.txt, unrelated to either base or target.
	working := snap(map[string]string{"a.txt": "3-divergent"})
	conflicts := Apply(working, diff)

	if len(conflicts) != 1 || conflicts[0] != NewRelPath("a.txt") {
		t.Fatalf("expected a.txt to conflict, got %v", conflicts)
	}
	if got, _ := working.Get(NewRelPath("a.txt")); !got.Equal(meta("3-divergent")) {
		t.Fatalf("conflicting path should be left untouched, got %v", got)
	}
}

func TestApplySameContentCreateDoesNotConflict(t *testing.T) {
	// Two peers independently create a.txt with identical content: this
	// must converge without being flagged as a conflict.
	change := Change{Path: NewRelPath("a.txt"), Kind: ChangeCreated, New: meta("same")}
	current := meta("same")
	if change.Conflicts(&current) {
		t.Fatalf("same-content create should not conflict")
	}
}

func TestApplyToDiskWritesAndRemoves(t *testing.T) {
	root := t.TempDir()

	base := Snapshot{}
	target := snap(map[string]string{"a.txt": "hello", "dir/b.txt": "world"})
	diff := ComputeDiff(base, target)
	store := storeFor("hello", "world")

	working := base.Clone()
	conflicts, err := ApplyToDisk(root, working, diff, store)
	if err != nil {
		t.Fatalf("ApplyToDisk failed: %v", err)
	}
	if len(conflicts) != 0 {
		t.Fatalf("expected no conflicts, got %v", conflicts)
	}

	data, err := os.ReadFile(filepath.Join(root, "a.txt"))
	if err != nil || string(data) != "hello" {
		t.Fatalf("a.txt not written correctly: %v %q", err, data)
	}
	data, err = os.ReadFile(filepath.Join(root, "dir", "b.txt"))
	if err != nil || string(data) != "world" {
		t.Fatalf("dir/b.txt not written correctly: %v %q", err, data)
	}
	if !working.Equal(target) {
		t.Fatalf("working snapshot not updated to match target")
	}

	removeDiff := ComputeDiff(target, Snapshot{})
	conflicts, err = ApplyToDisk(root, working, removeDiff, store)
	if err != nil {
		t.Fatalf("ApplyToDisk removal failed: %v", err)
	}
	if len(conflicts) != 0 {
		t.Fatalf("expected no conflicts on removal, got %v", conflicts)
	}
	if _, err := os.Stat(filepath.Join(root, "a.txt")); !os.IsNotExist(err) {
		t.Fatalf("a.txt should have been removed")
	}
}

func TestApplyToDiskDetectsDiskConflict(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.txt"), []byte("divergent"), 0o644); err != nil {
		t.Fatal(err)
	}

	base := Snapshot{}
	target := snap(map[string]string{"a.txt": "hello"})
	diff := ComputeDiff(base, target)
	store := storeFor("hello")

	working := base.Clone()
	conflicts, err := ApplyToDisk(root, working, diff, store)
	if err != nil {
		t.Fatalf("ApplyToDisk failed: %v", err)
	}
	if len(conflicts) != 1 || conflicts[0] != NewRelPath("a.txt") {
		t.Fatalf("expected a.txt to conflict with on-disk content, got %v", conflicts)
	}
	data, err := os.ReadFile(filepath.Join(root, "a.txt"))
	if err != nil || string(data) != "divergent" {
		t.Fatalf("conflicting file should be left untouched on disk, got %v %q", err, data)
	}
}
