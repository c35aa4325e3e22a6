package dotdb

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	dir := t.TempDir()
	db, err := Open(filepath.Join(dir, "instant.db"))
	if err != nil {
		t.Fatalf("Open() returned error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestComputeHash_ContentEquality(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	c := filepath.Join(dir, "c")
	os.WriteFile(a, []byte("same content"), 0o644)
	os.WriteFile(b, []byte("same content"), 0o644)
	os.WriteFile(c, []byte("different"), 0o644)

	ha, err := ComputeHash(a)
	if err != nil {
		t.Fatalf("ComputeHash(a) returned error: %v", err)
	}
	hb, err := ComputeHash(b)
	if err != nil {
		t.Fatalf("ComputeHash(b) returned error: %v", err)
	}
	hc, err := ComputeHash(c)
	if err != nil {
		t.Fatalf("ComputeHash(c) returned error: %v", err)
	}

	if ha != hb {
		t.Error("ComputeHash() for identical content should be equal")
	}
	if ha == hc {
		t.Error("ComputeHash() for different content should differ")
	}
}

func TestRecordAndKnown(t *testing.T) {
	db := openTestDB(t)
	hash, _ := ComputeHash(writeTemp(t, "hello"))

	if err := db.RecordSource("/repo/dots/.bashrc", hash); err != nil {
		t.Fatalf("RecordSource() returned error: %v", err)
	}

	rec, found, err := db.Known(RoleSource, "/repo/dots/.bashrc")
	if err != nil {
		t.Fatalf("Known() returned error: %v", err)
	}
	if !found {
		t.Fatal("Known() found = false, want true")
	}
	if rec.Hash != hash {
		t.Error("Known() hash mismatch")
	}

	if _, found, _ := db.Known(RoleTarget, "/repo/dots/.bashrc"); found {
		t.Error("Known(RoleTarget) found = true, want false (different role tag)")
	}
}

func TestRecordIsIdempotentUpsert(t *testing.T) {
	db := openTestDB(t)
	h1, _ := ComputeHash(writeTemp(t, "v1"))
	h2, _ := ComputeHash(writeTemp(t, "v2"))

	db.RecordTarget("~/.vimrc", h1)
	db.RecordTarget("~/.vimrc", h2)

	rec, found, err := db.Known(RoleTarget, "~/.vimrc")
	if err != nil || !found {
		t.Fatalf("Known() = %+v, %v, %v", rec, found, err)
	}
	if rec.Hash != h2 {
		t.Error("Known() after second record should reflect latest hash, not the first")
	}
}

func TestDelete(t *testing.T) {
	db := openTestDB(t)
	h, _ := ComputeHash(writeTemp(t, "content"))
	db.RecordSource("~/.zshrc", h)
	if err := db.Delete(RoleSource, "~/.zshrc"); err != nil {
		t.Fatalf("Delete() returned error: %v", err)
	}
	if _, found, _ := db.Known(RoleSource, "~/.zshrc"); found {
		t.Error("Known() after Delete() should report absent")
	}
}

func TestScanRole(t *testing.T) {
	db := openTestDB(t)
	h, _ := ComputeHash(writeTemp(t, "x"))
	db.RecordSource("~/.a", h)
	db.RecordSource("~/.b", h)
	db.RecordTarget("~/.c", h)

	seen := map[string]bool{}
	err := db.ScanRole(RoleSource, func(path string, rec Record) error {
		seen[path] = true
		return nil
	})
	if err != nil {
		t.Fatalf("ScanRole() returned error: %v", err)
	}
	if len(seen) != 2 || !seen["~/.a"] || !seen["~/.b"] {
		t.Errorf("ScanRole(source) = %v, want {~/.a, ~/.b}", seen)
	}
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	f := filepath.Join(t.TempDir(), "fixture")
	if err := os.WriteFile(f, []byte(content), 0o644); err != nil {
		t.Fatalf("writeTemp: %v", err)
	}
	return f
}
