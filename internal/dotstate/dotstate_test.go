package dotstate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/instantdots/instantdots/internal/dotdb"
)

func openTestDB(t *testing.T) *dotdb.DB {
	t.Helper()
	dir := t.TempDir()
	db, err := dotdb.Open(filepath.Join(dir, "instant.db"))
	if err != nil {
		t.Fatalf("Open() returned error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

func TestClassify_OutdatedNeverApplied(t *testing.T) {
	db := openTestDB(t)
	dir := t.TempDir()
	source := filepath.Join(dir, "source")
	target := filepath.Join(dir, "target")
	writeFile(t, source, "content")

	state, err := Classify(db, target, source)
	if err != nil {
		t.Fatalf("Classify() returned error: %v", err)
	}
	if state != Outdated {
		t.Errorf("Classify() = %v, want Outdated", state)
	}
}

func TestClassify_Clean(t *testing.T) {
	db := openTestDB(t)
	dir := t.TempDir()
	source := filepath.Join(dir, "source")
	target := filepath.Join(dir, "target")
	writeFile(t, source, "content")
	writeFile(t, target, "content")

	state, err := Classify(db, target, source)
	if err != nil {
		t.Fatalf("Classify() returned error: %v", err)
	}
	if state != Clean {
		t.Errorf("Classify() = %v, want Clean", state)
	}
}

func TestClassify_SourceMovedForward(t *testing.T) {
	db := openTestDB(t)
	dir := t.TempDir()
	source := filepath.Join(dir, "source")
	target := filepath.Join(dir, "target")
	writeFile(t, source, "v1")
	writeFile(t, target, "v1")

	h, err := dotdb.ComputeHash(target)
	if err != nil {
		t.Fatalf("ComputeHash: %v", err)
	}
	if err := db.RecordTarget(target, h); err != nil {
		t.Fatalf("RecordTarget: %v", err)
	}

	// Source advances; target stays at v1, matching its old tracker entry.
	writeFile(t, source, "v2")

	state, err := Classify(db, target, source)
	if err != nil {
		t.Fatalf("Classify() returned error: %v", err)
	}
	if state != Outdated {
		t.Errorf("Classify() = %v, want Outdated (source moved forward)", state)
	}
}

func TestClassify_Modified(t *testing.T) {
	db := openTestDB(t)
	dir := t.TempDir()
	source := filepath.Join(dir, "source")
	target := filepath.Join(dir, "target")
	writeFile(t, source, "v1")
	writeFile(t, target, "v1")

	h, _ := dotdb.ComputeHash(target)
	db.RecordTarget(target, h)

	// User edits the target directly.
	writeFile(t, target, "user-edited")

	state, err := Classify(db, target, source)
	if err != nil {
		t.Fatalf("Classify() returned error: %v", err)
	}
	if state != Modified {
		t.Errorf("Classify() = %v, want Modified", state)
	}
}

func TestClassify_ModifiedNoTrackerEntry(t *testing.T) {
	db := openTestDB(t)
	dir := t.TempDir()
	source := filepath.Join(dir, "source")
	target := filepath.Join(dir, "target")
	writeFile(t, source, "v1")
	writeFile(t, target, "something else entirely")

	state, err := Classify(db, target, source)
	if err != nil {
		t.Fatalf("Classify() returned error: %v", err)
	}
	if state != Modified {
		t.Errorf("Classify() = %v, want Modified (no entry, differs from source)", state)
	}
}

func TestIsOutdated(t *testing.T) {
	db := openTestDB(t)
	dir := t.TempDir()
	source := filepath.Join(dir, "source")
	writeFile(t, source, "v1")

	if outdated, err := IsOutdated(db, source); err != nil || !outdated {
		t.Errorf("IsOutdated() with no tracker entry = %v, %v, want true, nil", outdated, err)
	}

	h, _ := dotdb.ComputeHash(source)
	db.RecordSource(source, h)
	if outdated, err := IsOutdated(db, source); err != nil || outdated {
		t.Errorf("IsOutdated() after recording = %v, %v, want false, nil", outdated, err)
	}

	writeFile(t, source, "v2")
	if outdated, err := IsOutdated(db, source); err != nil || !outdated {
		t.Errorf("IsOutdated() after source changed = %v, %v, want true, nil", outdated, err)
	}
}
