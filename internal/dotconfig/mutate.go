package dotconfig

import (
	"fmt"

	"github.com/instantdots/instantdots/internal/doterr"
)

// AddRepo registers a new repository. Fails with ErrDuplicateRepo if a
// repo with that name already exists (spec §4.1).
func (c *Config) AddRepo(r Repo) error {
	for _, existing := range c.Repos {
		if existing.Name == r.Name {
			return fmt.Errorf("%w: %s", doterr.ErrDuplicateRepo, r.Name)
		}
	}
	c.Repos = append(c.Repos, r)
	return nil
}

// RemoveRepo unregisters a repository by name. Idempotent: returns
// ErrRepoNotFound if absent so callers can distinguish a no-op.
func (c *Config) RemoveRepo(name string) error {
	for i, r := range c.Repos {
		if r.Name == name {
			c.Repos = append(c.Repos[:i], c.Repos[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", doterr.ErrRepoNotFound, name)
}

// repoIndex finds the index of the named repo, or -1.
func (c *Config) repoIndex(name string) int {
	for i, r := range c.Repos {
		if r.Name == name {
			return i
		}
	}
	return -1
}

// SetActiveSubdirs overwrites the user-configured active subdir ordering
// for a repo.
func (c *Config) SetActiveSubdirs(name string, subdirs []string) error {
	i := c.repoIndex(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", doterr.ErrRepoNotFound, name)
	}
	c.Repos[i].ActiveSubdirectories = subdirs
	return nil
}

// MoveSubdirUp raises subdir's priority by one position.
func (c *Config) MoveSubdirUp(name, subdir string) error {
	i := c.repoIndex(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", doterr.ErrRepoNotFound, name)
	}
	return moveElement(&c.Repos[i].ActiveSubdirectories, subdir, -1)
}

// MoveSubdirDown lowers subdir's priority by one position.
func (c *Config) MoveSubdirDown(name, subdir string) error {
	i := c.repoIndex(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", doterr.ErrRepoNotFound, name)
	}
	return moveElement(&c.Repos[i].ActiveSubdirectories, subdir, 1)
}

func moveElement(list *[]string, value string, delta int) error {
	idx := -1
	for i, v := range *list {
		if v == value {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%s: not in active subdir list", value)
	}
	j := idx + delta
	if j < 0 || j >= len(*list) {
		return nil // already at the boundary; no-op
	}
	(*list)[idx], (*list)[j] = (*list)[j], (*list)[idx]
	return nil
}

// EnableRepo marks a repo enabled.
func (c *Config) EnableRepo(name string) error {
	return c.setEnabled(name, true)
}

// DisableRepo marks a repo disabled.
func (c *Config) DisableRepo(name string) error {
	return c.setEnabled(name, false)
}

func (c *Config) setEnabled(name string, enabled bool) error {
	i := c.repoIndex(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", doterr.ErrRepoNotFound, name)
	}
	c.Repos[i].Enabled = enabled
	return nil
}

// GetWritableRepos returns enabled repos with read_only = false.
func (c *Config) GetWritableRepos() []Repo {
	var out []Repo
	for _, r := range c.Repos {
		if r.Enabled && !r.ReadOnly {
			out = append(out, r)
		}
	}
	return out
}

// ResolveActiveSubdirs returns the effective ordered active subdir list
// for a repo: the user-configured list when present, else the metadata's
// default_active_subdirs, else [dots_dirs[0]], else empty (spec §4.1,
// §3's RepoMetaData.default_active_subdirs rule).
func ResolveActiveSubdirs(r Repo, meta RepoMetadata) []string {
	if len(r.ActiveSubdirectories) > 0 {
		return r.ActiveSubdirectories
	}
	if len(meta.DefaultActiveSubdirs) > 0 {
		return meta.DefaultActiveSubdirs
	}
	if len(meta.DotsDirs) > 0 {
		return []string{meta.DotsDirs[0]}
	}
	return nil
}
