package dotops

import (
	"fmt"

	"github.com/instantdots/instantdots/internal/dotdb"
	"github.com/instantdots/instantdots/internal/doterr"
	"github.com/instantdots/instantdots/internal/dotoverlay"
	"github.com/instantdots/instantdots/internal/dotpath"
	"github.com/instantdots/instantdots/internal/dotstate"
	"github.com/instantdots/instantdots/internal/unit"
)

// Fetch implements spec §4.8: the inverse of apply, pushing
// user-modified target content back to its resolved source. readOnly
// maps a repo name to whether it refuses fetch writes.
func Fetch(db *dotdb.DB, mapping map[string]dotoverlay.Resolution, units unit.Units, readOnly map[string]bool, scope string) ([]FileResult, Counts, error) {
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
		case dotstate.Modified:
			if readOnly[res.Source.RepoName] {
				r = FileResult{Target: target, Source: sourcePath, Outcome: SkippedReadOnly,
					Err: fmt.Errorf("%w: %s", doterr.ErrReadOnlyRepo, res.Source.RepoName)}
			} else if err := writeAtomic(targetPath, sourcePath); err != nil {
				r = FileResult{Target: target, Source: sourcePath, Outcome: Failed, Err: err}
			} else if err := recordBothAfterWrite(db, targetPath, sourcePath); err != nil {
				r = FileResult{Target: target, Source: sourcePath, Outcome: Failed, Err: err}
			} else {
				r = FileResult{Target: target, Source: sourcePath, Outcome: Applied}
			}
		default:
			r = FileResult{Target: target, Source: sourcePath, Outcome: SkippedClean}
		}
		results = append(results, r)
		counts.Tally(r)
	}

	return results, counts, nil
}
