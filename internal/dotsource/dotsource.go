// Package dotsource walks enabled repositories and active subdirectories
// to produce the per-target candidate lists that internal/dotoverlay then
// resolves into a single mapping (spec §4.3).
package dotsource

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/instantdots/instantdots/internal/dotconfig"
)

// Candidate is one concrete (repo, subdir, source) pairing that could
// supply a given target -- spec §3's DotfileSource tuple.
type Candidate struct {
	RepoName   string
	SubdirName string
	SourcePath string
}

// RepoContext carries everything dotsource needs about one repository:
// its resolved metadata, its on-disk clone path, and the active subdir
// ordering already resolved by internal/dotconfig.
type RepoContext struct {
	Repo         dotconfig.Repo
	Meta         dotconfig.RepoMetadata
	Path         string   // R/N
	ActiveSubdirs []string // ordered, highest priority first
}

// Enumerate walks every repo in repos (in config order) and every active
// subdir (in active-subdir order), producing target -> []Candidate. The
// ordering guarantee of spec §4.3 falls directly out of iteration order:
// repos in config order, subdirs in active-subdir order.
func Enumerate(repos []RepoContext) (map[string][]Candidate, error) {
	result := make(map[string][]Candidate)
	for _, rc := range repos {
		if !rc.Repo.Enabled {
			continue
		}
		ignore, err := compileIgnore(rc.Meta.Ignore)
		if err != nil {
			return nil, fmt.Errorf("repo %s: %w", rc.Repo.Name, err)
		}
		for _, subdir := range rc.ActiveSubdirs {
			if !containsDotsDir(rc.Meta.DotsDirs, subdir) {
				continue
			}
			subdirPath := resolveSubdirPath(rc.Path, subdir)
			err := walkSubdir(subdirPath, ignore, func(rel string) {
				target := filepath.Join("~", rel)
				result[target] = append(result[target], Candidate{
					RepoName:   rc.Repo.Name,
					SubdirName: subdir,
					SourcePath: filepath.Join(subdirPath, rel),
				})
			})
			if err != nil {
				return nil, fmt.Errorf("repo %s subdir %s: %w", rc.Repo.Name, subdir, err)
			}
		}
	}
	return result, nil
}

// ListSourcesForTarget enumerates candidates for a single target without
// a full walk (spec §4.3's second enumeration mode). target is a
// ~-relative path, e.g. "~/.bashrc".
func ListSourcesForTarget(repos []RepoContext, target string) ([]Candidate, error) {
	rel := strings.TrimPrefix(target, "~/")
	rel = strings.TrimPrefix(rel, "~")
	rel = strings.TrimPrefix(rel, string(filepath.Separator))

	var out []Candidate
	for _, rc := range repos {
		if !rc.Repo.Enabled {
			continue
		}
		for _, subdir := range rc.ActiveSubdirs {
			if !containsDotsDir(rc.Meta.DotsDirs, subdir) {
				continue
			}
			subdirPath := resolveSubdirPath(rc.Path, subdir)
			candidatePath := filepath.Join(subdirPath, rel)
			if info, err := os.Stat(candidatePath); err == nil && !info.IsDir() {
				out = append(out, Candidate{
					RepoName:   rc.Repo.Name,
					SubdirName: subdir,
					SourcePath: candidatePath,
				})
			}
		}
	}
	return out, nil
}

// resolveSubdirPath maps a "." dots_dir (external/yadm-style repos, spec
// §3) to the repo root itself, and any other entry to repoPath/subdir.
func resolveSubdirPath(repoPath, subdir string) string {
	if subdir == "." {
		return repoPath
	}
	return filepath.Join(repoPath, subdir)
}

func containsDotsDir(dotsDirs []string, subdir string) bool {
	for _, d := range dotsDirs {
		if d == subdir {
			return true
		}
	}
	return false
}

func compileIgnore(patterns []string) ([]glob.Glob, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", p, err)
		}
		compiled = append(compiled, g)
	}
	return compiled, nil
}

func matchesIgnore(ignore []glob.Glob, rel string) bool {
	for _, g := range ignore {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// walkSubdir recursively visits files under root, skipping any path
// containing /.git/ (spec §4.3 step 2) and any path matched by ignore.
// rel is called with the root-relative path using forward slashes.
func walkSubdir(root string, ignore []glob.Glob, visit func(rel string)) error {
	info, err := os.Stat(root)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", root)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.Contains(rel, ".git/") {
			return nil
		}
		if matchesIgnore(ignore, rel) {
			return nil
		}
		visit(rel)
		return nil
	})
}
