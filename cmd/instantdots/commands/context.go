package commands

import (
	"fmt"
	"path/filepath"

	"github.com/instantdots/instantdots/internal/dotconfig"
	"github.com/instantdots/instantdots/internal/dotdb"
	"github.com/instantdots/instantdots/internal/dotmeta"
	"github.com/instantdots/instantdots/internal/dotoverlay"
	"github.com/instantdots/instantdots/internal/dotoverride"
	"github.com/instantdots/instantdots/internal/dotsource"
	"github.com/instantdots/instantdots/internal/lockfile"
	"github.com/instantdots/instantdots/internal/unit"
)

// environment bundles every loaded piece a command needs: config, the
// tracker, the override store, and the resolved overlay mapping (spec
// §4.1-§4.4 assembled into one place so each command stays a thin
// caller).
type environment struct {
	cfg        *dotconfig.Config
	db         *dotdb.DB
	overrides  *dotoverride.Store
	repoCtxs   []dotsource.RepoContext
	metaByName map[string]dotconfig.RepoMetadata
	mapping    map[string]dotoverlay.Resolution
	units      unit.Units
	reposDir   string
}

func (e *environment) Close() error {
	if e.db == nil {
		return nil
	}
	return e.db.Close()
}

// loadEnvironment loads config, opens the tracker, resolves every
// enabled repo's metadata, enumerates candidates, and resolves the
// overlay mapping -- the sequence every mutating command needs before
// it can do anything else.
func loadEnvironment() (*environment, error) {
	cfg, err := dotconfig.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	reposDir := cfg.ReposDir
	if reposDir == "" {
		dataDir, err := dotconfig.GetDefaultDataDir()
		if err != nil {
			return nil, err
		}
		reposDir = filepath.Join(dataDir, "repos")
	}

	dataDir, err := dotconfig.GetDefaultDataDir()
	if err != nil {
		return nil, err
	}
	db, err := dotdb.Open(filepath.Join(dataDir, "instant.db"))
	if err != nil {
		return nil, fmt.Errorf("opening tracker: %w", err)
	}

	defaultConfigDir, err := dotconfig.GetDefaultConfigPath()
	if err != nil {
		db.Close()
		return nil, err
	}
	overridePath := dotoverride.DefaultPath(filepath.Dir(defaultConfigDir))
	overrides, err := dotoverride.Load(overridePath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("loading overrides: %w", err)
	}

	metaByName := make(map[string]dotconfig.RepoMetadata, len(cfg.Repos))
	var repoCtxs []dotsource.RepoContext
	var repoUnits [][]string
	activeSubdirsByRepo := make(map[string]map[string]bool, len(cfg.Repos))

	for _, repo := range cfg.Repos {
		repoPath := filepath.Join(reposDir, repo.Name)
		meta, err := dotmeta.Resolve(repo, repoPath)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("resolving metadata for repo %s: %w", repo.Name, err)
		}
		metaByName[repo.Name] = meta
		repoUnits = append(repoUnits, meta.Units)

		active := dotconfig.ResolveActiveSubdirs(repo, meta)
		subdirSet := make(map[string]bool, len(active))
		for _, s := range active {
			subdirSet[s] = true
		}
		activeSubdirsByRepo[repo.Name] = subdirSet

		if !repo.Enabled {
			continue
		}
		repoCtxs = append(repoCtxs, dotsource.RepoContext{
			Repo:          repo,
			Meta:          meta,
			Path:          repoPath,
			ActiveSubdirs: active,
		})
	}

	candidates, err := dotsource.Enumerate(repoCtxs)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("enumerating sources: %w", err)
	}

	mapping := dotoverlay.Resolve(candidates, overrides, activeSubdirsByRepo)
	units := unit.Collect(cfg.Units, repoUnits)

	return &environment{
		cfg:        cfg,
		db:         db,
		overrides:  overrides,
		repoCtxs:   repoCtxs,
		metaByName: metaByName,
		mapping:    mapping,
		units:      units,
		reposDir:   reposDir,
	}, nil
}

// acquireRunLock takes the advisory one-shot lock spec §5 describes,
// guarding a mutating apply/fetch/reset invocation against a second one
// starting concurrently. The lock lives next to the tracker database
// and is released by the returned func once the command finishes.
func acquireRunLock() (func(), error) {
	dataDir, err := dotconfig.GetDefaultDataDir()
	if err != nil {
		return nil, err
	}
	lock, err := lockfile.Acquire(filepath.Join(dataDir, "instantdots.lock"))
	if err != nil {
		return nil, err
	}
	return func() { lock.Release() }, nil
}

// readOnlyByRepo builds the repo-name -> read_only map internal/dotops
// needs for Fetch.
func (e *environment) readOnlyByRepo() map[string]bool {
	out := make(map[string]bool, len(e.cfg.Repos))
	for _, r := range e.cfg.Repos {
		out[r.Name] = r.ReadOnly
	}
	return out
}
