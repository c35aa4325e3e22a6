package report

import "github.com/instantdots/instantdots/internal/dotops"

// AddFileResults folds a slice of dotops.FileResult into phase p, mapping
// dotops's five-way outcome onto report's OK/WARN/FAIL/SKIP vocabulary:
// Applied is OK, SkippedModified/SkippedReadOnly are WARN (a
// user-visible reason something didn't happen), SkippedClean is SKIP,
// Failed is FAIL.
func AddFileResults(p *Phase, results []dotops.FileResult) {
	for _, r := range results {
		switch r.Outcome {
		case dotops.Applied:
			p.AddOK(r.Target, r.Source)
		case dotops.SkippedModified:
			p.AddWarn(r.Target, "modified locally; reset to discard changes")
		case dotops.SkippedReadOnly:
			p.AddWarn(r.Target, "source repository is read-only")
		case dotops.SkippedClean:
			p.AddSkip(r.Target, "clean")
		case dotops.Failed:
			msg := "operation failed"
			if r.Err != nil {
				msg = r.Err.Error()
			}
			p.AddFail(r.Target, msg, r.Err)
		}
	}
}
