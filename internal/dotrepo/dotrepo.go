// Package dotrepo implements repository lifecycle operations (spec
// §4.12): clone, update, and remove, including the post-clone
// convergence pass grounded on
// original_source/src/dot/git.rs::add_repo, which registers tracker
// hashes immediately after cloning so a freshly cloned repo is never
// falsely marked Modified for files that already happen to match.
package dotrepo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/instantdots/instantdots/internal/dotdb"
	"github.com/instantdots/instantdots/internal/doterr"
	"github.com/instantdots/instantdots/internal/vcs"
)

// CloneResult reports the outcome of the initial-apply convergence pass
// following a clone.
type CloneResult struct {
	RepoPath     string
	Registered   int // files whose target already matched: tracker updated
	Applied      int // files materialized because the target didn't exist
	LeftModified int  // files that existed and differed: left as-is
}

// Clone performs a shallow checkout of url at branch into repoPath
// (R/N), then walks every file under subdirPaths relative to repoPath to
// register or materialize targets, per spec §4.12's "prevents a freshly
// cloned repo from being marked falsely modified" rule.
//
// subdirPaths maps each active subdir to its on-disk path; rel->target
// resolution for each file uses filepath.Rel against its subdir root.
func Clone(ctx context.Context, backend vcs.Backend, db *dotdb.DB, url, repoPath string, opts vcs.CloneOptions, subdirPaths []string, homeDir string) (*CloneResult, error) {
	if _, err := os.Stat(repoPath); err == nil {
		return nil, fmt.Errorf("%w: %s already exists", doterr.ErrCloneFailed, repoPath)
	}

	if err := backend.Clone(ctx, url, repoPath, opts); err != nil {
		return nil, err
	}

	return Converge(db, repoPath, subdirPaths, homeDir)
}

// Converge runs the post-clone convergence walk against an
// already-cloned repoPath. Clone calls this immediately after its own
// backend.Clone; callers that must read a repo's on-disk
// instantdots.toml before knowing its active subdirs (the CLI's `repo
// add`, which clones via backend.Clone directly to resolve metadata
// first) call this separately once subdirPaths is known.
func Converge(db *dotdb.DB, repoPath string, subdirPaths []string, homeDir string) (*CloneResult, error) {
	result := &CloneResult{RepoPath: repoPath}

	for _, subdirPath := range subdirPaths {
		err := filepath.Walk(subdirPath, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				if info.Name() == ".git" {
					return filepath.SkipDir
				}
				return nil
			}
			rel, relErr := filepath.Rel(subdirPath, path)
			if relErr != nil {
				return relErr
			}
			target := filepath.Join(homeDir, rel)

			sourceHash, hashErr := dotdb.ComputeHash(path)
			if hashErr != nil {
				return hashErr
			}
			if err := db.RecordSource(path, sourceHash); err != nil {
				return err
			}

			targetInfo, statErr := os.Stat(target)
			switch {
			case os.IsNotExist(statErr):
				if err := materialize(path, target); err != nil {
					return err
				}
				if err := db.RecordTarget(target, sourceHash); err != nil {
					return err
				}
				result.Applied++
			case statErr == nil && !targetInfo.IsDir():
				targetHash, hErr := dotdb.ComputeHash(target)
				if hErr != nil {
					return hErr
				}
				if targetHash == sourceHash {
					if err := db.RecordTarget(target, targetHash); err != nil {
						return err
					}
					result.Registered++
				} else {
					result.LeftModified++
				}
			default:
				return statErr
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("converging clone of %s: %w", repoPath, err)
		}
	}

	return result, nil
}

func materialize(source, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return err
	}
	info, err := os.Stat(source)
	if err != nil {
		return err
	}
	return os.WriteFile(target, data, info.Mode())
}

// Update pins repoPath to branch if it differs from the currently
// checked-out branch, then fast-forward pulls (spec §4.12).
func Update(ctx context.Context, backend vcs.Backend, repoPath, pinnedBranch string) error {
	if pinnedBranch != "" {
		current, err := backend.CurrentBranch(repoPath)
		if err != nil {
			return err
		}
		if current != pinnedBranch {
			if err := backend.FetchBranch(ctx, repoPath, pinnedBranch); err != nil {
				return err
			}
			if err := backend.CheckoutBranch(repoPath, pinnedBranch); err != nil {
				return err
			}
		}
	}
	return backend.Pull(ctx, repoPath)
}

// UpdateAllEntry names one repository to update as part of UpdateAll:
// just enough of dotconfig.Repo to drive Update without dotrepo
// depending on the config package.
type UpdateAllEntry struct {
	Name   string
	Path   string
	Branch string
}

// UpdateAllResult reports the per-repo outcome of UpdateAll.
type UpdateAllResult struct {
	Updated []string
	Failed  map[string]error
}

// Err returns a single composite error naming every repo that failed to
// update, or nil if all repos updated cleanly (spec §6 `update_all`,
// §7's "Repository I/O errors during update_all are captured per repo;
// the command returns a composite failure indicating which repos
// failed").
func (r UpdateAllResult) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	names := make([]string, 0, len(r.Failed))
	for name := range r.Failed {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Errorf("%w: %s", doterr.ErrPullFailed, strings.Join(names, ", "))
}

// UpdateAll runs Update against every entry, continuing past individual
// failures so one unreachable repo doesn't block the rest (spec §6
// `update_all(apply?)`: "Pull all; optionally apply after").
func UpdateAll(ctx context.Context, backend vcs.Backend, entries []UpdateAllEntry) UpdateAllResult {
	result := UpdateAllResult{Failed: make(map[string]error)}
	for _, e := range entries {
		if err := Update(ctx, backend, e.Path, e.Branch); err != nil {
			result.Failed[e.Name] = err
			continue
		}
		result.Updated = append(result.Updated, e.Name)
	}
	return result
}

// Remove purges repoPath from disk if keepFiles is false. The caller is
// responsible for removing the repo entry from config; tracker entries
// pointing into repoPath become stale but harmless (classification
// degrades to "no source" on the next query).
func Remove(repoPath string, keepFiles bool) error {
	if keepFiles {
		return nil
	}
	if err := os.RemoveAll(repoPath); err != nil {
		return fmt.Errorf("removing repository directory %s: %w", repoPath, err)
	}
	return nil
}
