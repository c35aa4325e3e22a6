package dotops

import (
	"strings"

	"github.com/instantdots/instantdots/internal/dotdb"
	"github.com/instantdots/instantdots/internal/dotoverlay"
	"github.com/instantdots/instantdots/internal/dotpath"
	"github.com/instantdots/instantdots/internal/dotstate"
	"github.com/instantdots/instantdots/internal/unit"
)

// Apply implements spec §4.7. mapping is the target -> Resolution
// produced by internal/dotoverlay; Apply classifies every entry and
// applies unit promotion itself (via classifyAll) before processing.
// scope restricts processing to targets equal to or under scope; an
// empty scope processes everything.
func Apply(db *dotdb.DB, mapping map[string]dotoverlay.Resolution, units unit.Units, scope string) ([]FileResult, Counts, error) {
	states, err := classifyAll(db, mapping, units)
	if err != nil {
		return nil, Counts{}, err
	}

	var results []FileResult
	var counts Counts

	for target, res := range mapping {
		if !inScope(target, scope) {
			continue
		}
		sourcePath := res.Source.SourcePath
		targetPath, err := dotpath.Expand(target)
		if err != nil {
			r := FileResult{Target: target, Source: sourcePath, Outcome: Failed, Err: err}
			results = append(results, r)
			counts.Tally(r)
			continue
		}

		state := states[target]
		var r FileResult
		switch state {
		case dotstate.Clean:
			if err := ensureTrackerCurrent(db, targetPath, sourcePath); err != nil {
				r = FileResult{Target: target, Source: sourcePath, Outcome: Failed, Err: err}
			} else {
				r = FileResult{Target: target, Source: sourcePath, Outcome: SkippedClean}
			}
		case dotstate.Outdated:
			if err := writeAtomic(sourcePath, targetPath); err != nil {
				r = FileResult{Target: target, Source: sourcePath, Outcome: Failed, Err: err}
			} else if err := recordBothAfterWrite(db, targetPath, sourcePath); err != nil {
				r = FileResult{Target: target, Source: sourcePath, Outcome: Failed, Err: err}
			} else {
				r = FileResult{Target: target, Source: sourcePath, Outcome: Applied}
			}
		case dotstate.Modified:
			r = FileResult{Target: target, Source: sourcePath, Outcome: SkippedModified}
		}
		results = append(results, r)
		counts.Tally(r)
	}

	return results, counts, nil
}

// classifyAll computes the raw per-target classification and then
// applies unit promotion (spec §4.6), matching apply/fetch's shared
// "classify, then promote" sequencing.
func classifyAll(db *dotdb.DB, mapping map[string]dotoverlay.Resolution, units unit.Units) (map[string]dotstate.State, error) {
	raw := make(map[string]dotstate.State, len(mapping))
	for target, res := range mapping {
		targetPath, err := dotpath.Expand(target)
		if err != nil {
			return nil, err
		}
		state, err := dotstate.Classify(db, targetPath, res.Source.SourcePath)
		if err != nil {
			return nil, err
		}
		raw[target] = state
	}
	return unit.Promote(units, raw), nil
}

// ensureTrackerCurrent keeps tracker[target]/tracker[source] in sync for
// a Clean file even when no write was necessary, satisfying spec §4.7
// step 3's "no-op; ensure tracker records current source/target hash."
func ensureTrackerCurrent(db *dotdb.DB, targetPath, sourcePath string) error {
	hash, err := dotdb.ComputeHash(targetPath)
	if err != nil {
		return err
	}
	if err := db.RecordTarget(targetPath, hash); err != nil {
		return err
	}
	return db.RecordSource(sourcePath, hash)
}

// inScope implements spec §4.8's optional scoping rule, reused by Apply
// for symmetry: empty or "~" means process everything, otherwise target
// must equal or fall under scope.
func inScope(target, scope string) bool {
	if scope == "" || scope == "~" {
		return true
	}
	return target == scope || strings.HasPrefix(target, scope+"/")
}
