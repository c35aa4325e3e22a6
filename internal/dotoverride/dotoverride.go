// Package dotoverride persists user-pinned (target, repo, subdir)
// overrides -- spec §4.11, grounded on
// original_source/src/dot/override_config.rs's OverrideConfig.
package dotoverride

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// OverrideFileName is the file name under the config directory.
const OverrideFileName = "dot_overrides.toml"

// Override is one user-pinned target -> (repo, subdir) choice.
type Override struct {
	TargetPath   string `toml:"target_path"`
	SourceRepo   string `toml:"source_repo"`
	SourceSubdir string `toml:"source_subdir"`
}

// Store is the in-memory, mutable form of the on-disk overrides file.
type Store struct {
	Overrides []Override `toml:"overrides"`
	path      string
}

// Load reads the override store at path; an empty path is an error, and
// a missing file yields an empty store, not an error.
func Load(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("dotoverride.Load: path is required")
	}
	s := &Store{path: path}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading override store %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing override store %s: %w", path, err)
	}
	return s, nil
}

// DefaultPath resolves <configDir>/dot_overrides.toml.
func DefaultPath(configDir string) string {
	return filepath.Join(configDir, OverrideFileName)
}

// Save atomically persists the store (temp + rename).
func (s *Store) Save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating override store directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".instantdots-tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp override file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	enc := toml.NewEncoder(tmp)
	if err := enc.Encode(s); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding override store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, s.path)
}

// Get returns the override pinned for target, if any.
func (s *Store) Get(target string) (Override, bool) {
	for _, o := range s.Overrides {
		if o.TargetPath == target {
			return o, true
		}
	}
	return Override{}, false
}

// Set pins target to (repo, subdir), replacing any prior pin.
func (s *Store) Set(target, repo, subdir string) {
	filtered := s.Overrides[:0]
	for _, o := range s.Overrides {
		if o.TargetPath != target {
			filtered = append(filtered, o)
		}
	}
	s.Overrides = append(filtered, Override{
		TargetPath:   target,
		SourceRepo:   repo,
		SourceSubdir: subdir,
	})
}

// Remove deletes the override for target, reporting whether one existed.
func (s *Store) Remove(target string) bool {
	for i, o := range s.Overrides {
		if o.TargetPath == target {
			s.Overrides = append(s.Overrides[:i], s.Overrides[i+1:]...)
			return true
		}
	}
	return false
}

// List returns all overrides, optionally restricted to those at or under
// prefix (a ~-relative path). An empty prefix returns everything.
func (s *Store) List(prefix string) []Override {
	if prefix == "" {
		return append([]Override(nil), s.Overrides...)
	}
	var out []Override
	for _, o := range s.Overrides {
		if o.TargetPath == prefix || hasPathPrefix(o.TargetPath, prefix) {
			out = append(out, o)
		}
	}
	return out
}

// BuildLookup returns a map keyed by target path for O(1) resolution
// during overlay application (spec §4.4).
func (s *Store) BuildLookup() map[string]Override {
	m := make(map[string]Override, len(s.Overrides))
	for _, o := range s.Overrides {
		m[o.TargetPath] = o
	}
	return m
}

func hasPathPrefix(path, prefix string) bool {
	if len(path) <= len(prefix) {
		return false
	}
	return path[:len(prefix)] == prefix && path[len(prefix)] == '/'
}
