// Package dotconfig loads, mutates, and persists the multi-repository
// configuration that drives the whole dotfile core (spec §4.1).
package dotconfig

// Config is the top-level persisted document (instant.toml).
type Config struct {
	Repos           []Repo      `toml:"repos"`
	CloneDepth      int         `toml:"clone_depth"`
	HashCleanupDays int         `toml:"hash_cleanup_days"`
	ReposDir        string      `toml:"repos_dir,omitempty"`
	Units           []string    `toml:"units,omitempty"`
	Hooks           HookConfig  `toml:"hooks,omitempty"`
	Shell           ShellConfig `toml:"shell,omitempty"`
}

// HookConfig declares the lifecycle scripts internal/hooks runs around
// an apply. Pre/PostApply run once per invocation; Pre/PostFile are
// defined for per-file hook context but not currently invoked by
// cmd/instantdots (see DESIGN.md).
type HookConfig struct {
	PreApply  []string `toml:"pre_apply,omitempty"`
	PostApply []string `toml:"post_apply,omitempty"`
	PreFile   []string `toml:"pre_file,omitempty"`
	PostFile  []string `toml:"post_file,omitempty"`
}

// ShellConfig controls whether apply injects a sourcing line for the
// generated environment script (internal/shell) into the detected
// shell's rc file.
type ShellConfig struct {
	Enabled bool `toml:"enabled,omitempty"`
}

// Repo is one registered repository entry.
type Repo struct {
	Name                 string        `toml:"name"`
	URL                  string        `toml:"url"`
	Branch               string        `toml:"branch,omitempty"`
	ActiveSubdirectories []string      `toml:"active_subdirectories,omitempty"`
	Enabled              bool          `toml:"enabled"`
	ReadOnly             bool          `toml:"read_only"`
	Metadata             *RepoMetadata `toml:"metadata,omitempty"`
}

// RepoMetadata is the inline (external/yadm-style) form of instantdots.toml,
// embedded directly in instant.toml for repos without their own metadata
// file. See internal/dotmeta for the on-disk instantdots.toml form.
type RepoMetadata struct {
	Name                 string   `toml:"name"`
	Author               string   `toml:"author,omitempty"`
	Description          string   `toml:"description,omitempty"`
	ReadOnly             bool     `toml:"read_only,omitempty"`
	DotsDirs             []string `toml:"dots_dirs"`
	DefaultActiveSubdirs []string `toml:"default_active_subdirs,omitempty"`
	Units                []string `toml:"units,omitempty"`
	Ignore               []string `toml:"ignore,omitempty"`
}

// defaultConfig returns the configuration written on first run.
func defaultConfig() *Config {
	return &Config{
		Repos:           []Repo{},
		CloneDepth:      1,
		HashCleanupDays: 30,
		Units:           []string{},
	}
}
