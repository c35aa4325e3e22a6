package dotops

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/instantdots/instantdots/internal/dotconfig"
	"github.com/instantdots/instantdots/internal/dotdb"
	"github.com/instantdots/instantdots/internal/doterr"
	"github.com/instantdots/instantdots/internal/dotoverride"
	"github.com/instantdots/instantdots/internal/dotpath"
)

// Add implements spec §4.10: take a currently-untracked path under the
// home directory and adopt it into repo's subdir, registering an
// override if doing so creates ambiguity with a pre-existing source.
//
// existingCandidateCount is the number of sources that already resolve
// this target before the add (from internal/dotsource), used to decide
// whether the newly-added source needs an explicit override to win.
func Add(db *dotdb.DB, overrides *dotoverride.Store, target string, repo dotconfig.Repo, meta dotconfig.RepoMetadata, repoPath, subdir string, existingCandidateCount int) (FileResult, error) {
	targetPath, err := dotpath.RequireUnderHome(target)
	if err != nil {
		return FileResult{}, err
	}

	if !repo.Enabled {
		return FileResult{}, fmt.Errorf("%w: repository %s is disabled", doterr.ErrRepoNotFound, repo.Name)
	}
	if repo.ReadOnly {
		return FileResult{}, fmt.Errorf("%w: %s", doterr.ErrReadOnlyRepo, repo.Name)
	}
	if !containsDir(meta.DotsDirs, subdir) {
		return FileResult{}, fmt.Errorf("%w: %s does not declare subdir %s", doterr.ErrSubdirNotInMeta, repo.Name, subdir)
	}

	if _, found, err := db.Known(dotdb.RoleTarget, targetPath); err != nil {
		return FileResult{}, err
	} else if found {
		return FileResult{}, fmt.Errorf("%w: %s is already tracked", doterr.ErrAlreadyExists, target)
	}

	home, err := dotpath.Home()
	if err != nil {
		return FileResult{}, err
	}
	rel, err := filepath.Rel(home, targetPath)
	if err != nil {
		return FileResult{}, err
	}

	subdirPath := repoPath
	if subdir != "." {
		subdirPath = filepath.Join(repoPath, subdir)
	}
	destPath := filepath.Join(subdirPath, rel)

	if _, err := os.Stat(destPath); err == nil {
		return FileResult{}, fmt.Errorf("%w: %s", doterr.ErrAlreadyExists, destPath)
	}

	if err := writeAtomic(targetPath, destPath); err != nil {
		return FileResult{Target: target, Source: destPath, Outcome: Failed, Err: err}, err
	}

	hash, err := dotdb.ComputeHash(destPath)
	if err != nil {
		return FileResult{}, err
	}
	if err := db.RecordSource(destPath, hash); err != nil {
		return FileResult{}, err
	}
	if err := db.RecordTarget(targetPath, hash); err != nil {
		return FileResult{}, err
	}

	if existingCandidateCount+1 >= 2 {
		overrides.Set(target, repo.Name, subdir)
		if err := overrides.Save(); err != nil {
			return FileResult{}, fmt.Errorf("registering override for %s: %w", target, err)
		}
	}

	return FileResult{Target: target, Source: destPath, Outcome: Applied}, nil
}

func containsDir(dirs []string, want string) bool {
	for _, d := range dirs {
		if d == want {
			return true
		}
	}
	return false
}
