package dotops

import (
	"fmt"
	"os"

	"github.com/instantdots/instantdots/internal/dotdb"
	"github.com/instantdots/instantdots/internal/doterr"
	"github.com/instantdots/instantdots/internal/dotoverlay"
	"github.com/instantdots/instantdots/internal/dotpath"
	"github.com/instantdots/instantdots/internal/dotstate"
	"github.com/instantdots/instantdots/internal/unit"
)

// Reset implements spec §4.9 / the §6 `reset(p)` operation for every
// resolved target equal to or under scope: copy source over target
// (discarding local modifications) for each target currently Modified,
// leaving Clean/Outdated targets untouched. scope may name a single
// target path or a directory prefix, matching Apply/Fetch's inScope
// rule; an empty scope resets every Modified target in mapping. Reset
// never writes to source paths; a target whose resolved source is
// missing is reported as a per-file Failed result instead of aborting
// the rest of scope, per spec §7's per-file-error propagation policy.
func Reset(db *dotdb.DB, mapping map[string]dotoverlay.Resolution, units unit.Units, scope string) ([]FileResult, Counts, error) {
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

		if states[target] != dotstate.Modified {
			r := FileResult{Target: target, Source: sourcePath, Outcome: SkippedClean}
			results = append(results, r)
			counts.Tally(r)
			continue
		}

		targetPath, err := dotpath.Expand(target)
		if err != nil {
			r := FileResult{Target: target, Source: sourcePath, Outcome: Failed, Err: err}
			results = append(results, r)
			counts.Tally(r)
			continue
		}

		if _, err := os.Stat(sourcePath); err != nil {
			r := FileResult{Target: target, Source: sourcePath, Outcome: Failed,
				Err: fmt.Errorf("%w: %s", doterr.ErrNoSource, sourcePath)}
			results = append(results, r)
			counts.Tally(r)
			continue
		}

		var r FileResult
		if err := writeAtomic(sourcePath, targetPath); err != nil {
			r = FileResult{Target: target, Source: sourcePath, Outcome: Failed, Err: err}
		} else if err := recordBothAfterWrite(db, targetPath, sourcePath); err != nil {
			r = FileResult{Target: target, Source: sourcePath, Outcome: Failed, Err: err}
		} else {
			r = FileResult{Target: target, Source: sourcePath, Outcome: Applied}
		}
		results = append(results, r)
		counts.Tally(r)
	}

	return results, counts, nil
}
