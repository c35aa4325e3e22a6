package vcs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FakeBackend is an in-memory Backend used by tests that exercise
// internal/dotrepo without a real git remote or working directory --
// satisfying spec §9's "a pluggable interface... testable against an
// in-memory fake."
type FakeBackend struct {
	mu sync.Mutex

	// Remotes maps a fake "url" to the set of files it would produce on
	// clone, keyed by path relative to the repo root.
	Remotes map[string]map[string]string

	branches map[string]string // dest path -> current branch
	cloned   map[string]string // dest path -> source url
}

// NewFakeBackend returns an empty fake backend; populate Remotes before
// calling Clone.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		Remotes:  make(map[string]map[string]string),
		branches: make(map[string]string),
		cloned:   make(map[string]string),
	}
}

func (f *FakeBackend) Clone(ctx context.Context, url, dest string, opts CloneOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	files, ok := f.Remotes[url]
	if !ok {
		return fmt.Errorf("fake backend: no remote registered for %s", url)
	}
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("fake backend: %s already exists", dest)
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}
	for rel, content := range files {
		full := filepath.Join(dest, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			return err
		}
	}
	branch := opts.Branch
	if branch == "" {
		branch = "main"
	}
	f.branches[dest] = branch
	f.cloned[dest] = url
	return nil
}

func (f *FakeBackend) Pull(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	url, ok := f.cloned[path]
	if !ok {
		return fmt.Errorf("fake backend: %s was never cloned", path)
	}
	files := f.Remotes[url]
	for rel, content := range files {
		full := filepath.Join(path, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func (f *FakeBackend) CurrentBranch(path string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.branches[path]
	if !ok {
		return "", fmt.Errorf("fake backend: %s has no recorded branch", path)
	}
	return b, nil
}

func (f *FakeBackend) FetchBranch(ctx context.Context, path, branch string) error {
	return nil // fake backend treats fetch as a no-op; Pull materializes content
}

func (f *FakeBackend) CheckoutBranch(path, branch string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.branches[path]; !ok {
		return fmt.Errorf("fake backend: %s was never cloned", path)
	}
	f.branches[path] = branch
	return nil
}

var _ Backend = (*FakeBackend)(nil)
