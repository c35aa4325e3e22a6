package dotops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/instantdots/instantdots/internal/dotconfig"
	"github.com/instantdots/instantdots/internal/dotoverride"
)

func TestAdd_CopiesAndRegisters(t *testing.T) {
	home := t.TempDir()
	withHome(t, home)
	repo := t.TempDir()

	writeFile(t, filepath.Join(home, ".vimrc"), "set number")
	db := openTestDB(t)
	overrides, err := dotoverride.Load(filepath.Join(t.TempDir(), "dot_overrides.toml"))
	if err != nil {
		t.Fatal(err)
	}

	r := dotconfig.Repo{Name: "alpha", Enabled: true}
	meta := dotconfig.RepoMetadata{DotsDirs: []string{"dots"}}

	result, err := Add(db, overrides, "~/.vimrc", r, meta, repo, "dots", 0)
	if err != nil {
		t.Fatalf("Add() returned error: %v", err)
	}
	if result.Outcome != Applied {
		t.Fatalf("Add() outcome = %v, want Applied", result.Outcome)
	}

	data, err := os.ReadFile(filepath.Join(repo, "dots/.vimrc"))
	if err != nil || string(data) != "set number" {
		t.Fatalf("Add() did not materialize source: %v %q", err, data)
	}
	if len(overrides.List("")) != 0 {
		t.Errorf("Add() with existingCandidateCount=0 should not register an override")
	}
}

func TestAdd_RegistersOverrideWhenAmbiguous(t *testing.T) {
	home := t.TempDir()
	withHome(t, home)
	repo := t.TempDir()

	writeFile(t, filepath.Join(home, ".vimrc"), "set number")
	db := openTestDB(t)
	overrides, err := dotoverride.Load(filepath.Join(t.TempDir(), "dot_overrides.toml"))
	if err != nil {
		t.Fatal(err)
	}

	r := dotconfig.Repo{Name: "alpha", Enabled: true}
	meta := dotconfig.RepoMetadata{DotsDirs: []string{"dots"}}

	if _, err := Add(db, overrides, "~/.vimrc", r, meta, repo, "dots", 1); err != nil {
		t.Fatalf("Add() returned error: %v", err)
	}
	ov, ok := overrides.Get("~/.vimrc")
	if !ok || ov.SourceRepo != "alpha" || ov.SourceSubdir != "dots" {
		t.Errorf("Add() should register an override pinning the new source, got %+v, ok=%v", ov, ok)
	}
}

func TestAdd_RejectsReadOnlyRepo(t *testing.T) {
	home := t.TempDir()
	withHome(t, home)
	repo := t.TempDir()
	writeFile(t, filepath.Join(home, ".vimrc"), "set number")
	db := openTestDB(t)
	overrides, _ := dotoverride.Load(filepath.Join(t.TempDir(), "dot_overrides.toml"))

	r := dotconfig.Repo{Name: "alpha", Enabled: true, ReadOnly: true}
	meta := dotconfig.RepoMetadata{DotsDirs: []string{"dots"}}

	if _, err := Add(db, overrides, "~/.vimrc", r, meta, repo, "dots", 0); err == nil {
		t.Error("Add() into a read-only repo should fail")
	}
}

func TestAdd_RejectsExistingDestination(t *testing.T) {
	home := t.TempDir()
	withHome(t, home)
	repo := t.TempDir()
	writeFile(t, filepath.Join(home, ".vimrc"), "set number")
	writeFile(t, filepath.Join(repo, "dots/.vimrc"), "already here")
	db := openTestDB(t)
	overrides, _ := dotoverride.Load(filepath.Join(t.TempDir(), "dot_overrides.toml"))

	r := dotconfig.Repo{Name: "alpha", Enabled: true}
	meta := dotconfig.RepoMetadata{DotsDirs: []string{"dots"}}

	if _, err := Add(db, overrides, "~/.vimrc", r, meta, repo, "dots", 0); err == nil {
		t.Error("Add() should reject a destination that already exists")
	}
}
