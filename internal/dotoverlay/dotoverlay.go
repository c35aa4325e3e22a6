// Package dotoverlay collapses the per-target candidate lists produced by
// internal/dotsource, together with user overrides, into a single
// target -> source mapping (spec §4.4), grounded on
// original_source/src/dot/override_config.rs's apply_overrides.
package dotoverlay

import (
	"os"

	"github.com/instantdots/instantdots/internal/dotoverride"
	"github.com/instantdots/instantdots/internal/dotsource"
)

// Resolution is the final mapping plus the bookkeeping spec §4.4 requires
// for diagnostics.
type Resolution struct {
	Source              dotsource.Candidate
	CandidateCount      int
	HasActiveOverride   bool
	UnnecessaryOverride bool
}

// Resolve applies overrides to the candidate map and returns the final
// target -> Resolution mapping. activeSubdirsByRepo maps a repo name to
// its active subdir set (the CLI fills it for every configured repo,
// disabled ones included), mirroring the Rust original's
// active_subdirs_by_repo precomputation. A pin only takes effect when
// its (repo, subdir) pair is also among the target's candidates.
func Resolve(candidates map[string][]dotsource.Candidate, overrides *dotoverride.Store, activeSubdirsByRepo map[string]map[string]bool) map[string]Resolution {
	lookup := overrides.BuildLookup()
	result := make(map[string]Resolution, len(candidates))

	for target, cands := range candidates {
		res := Resolution{CandidateCount: len(cands)}
		if len(cands) == 0 {
			continue
		}
		res.Source = cands[0] // default: highest priority

		if ov, ok := lookup[target]; ok {
			if len(cands) == 1 {
				res.UnnecessaryOverride = true
			}
			if isReachable(ov, activeSubdirsByRepo) {
				if pinned, found := findCandidate(cands, ov.SourceRepo, ov.SourceSubdir); found {
					res.Source = pinned
					res.HasActiveOverride = true
				}
			}
		}
		result[target] = res
	}
	return result
}

// isReachable reports whether the override's (repo, subdir) pair is
// currently active per the precomputed set.
func isReachable(ov dotoverride.Override, activeSubdirsByRepo map[string]map[string]bool) bool {
	subdirs, ok := activeSubdirsByRepo[ov.SourceRepo]
	if !ok {
		return false
	}
	return subdirs[ov.SourceSubdir]
}

func findCandidate(cands []dotsource.Candidate, repo, subdir string) (dotsource.Candidate, bool) {
	for _, c := range cands {
		if c.RepoName == repo && c.SubdirName == subdir {
			if _, err := os.Stat(c.SourcePath); err == nil {
				return c, true
			}
		}
	}
	return dotsource.Candidate{}, false
}

// HasMultipleSources reports spec §4.4's has_multiple_sources(target).
func HasMultipleSources(res Resolution) bool {
	return res.CandidateCount >= 2
}
