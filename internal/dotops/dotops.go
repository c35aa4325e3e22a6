// Package dotops implements the apply/fetch/reset/add operations (spec
// §4.7–§4.10): the package that copies file content between targets and
// sources, apart from internal/dotrepo's clone convergence pass (config,
// override, metadata and rc-file writes live in their own packages).
// Every write goes through
// writeAtomic, a temp-file-plus-rename idiom generalized from the
// teacher's internal/dotfile.CopyFile, which opens the destination
// directly; here a crash mid-write must never leave a half-written
// target, so the write lands in a sibling temp file first.
package dotops

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/instantdots/instantdots/internal/dotdb"
	"github.com/instantdots/instantdots/internal/doterr"
)

// Outcome classifies what happened to one (target, source) pair during
// an operation.
type Outcome int

const (
	Applied Outcome = iota
	SkippedModified
	SkippedClean
	SkippedReadOnly
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case SkippedModified:
		return "skipped (modified)"
	case SkippedClean:
		return "skipped (clean)"
	case SkippedReadOnly:
		return "skipped (read-only repo)"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// FileResult is the per-file outcome spec §4.7 step 4 asks every
// operation to emit.
type FileResult struct {
	Target  string
	Source  string
	Outcome Outcome
	Err     error
}

// Counts tallies FileResults the way spec §4.7 step 4 names them.
type Counts struct {
	Applied         int
	SkippedModified int
	SkippedClean    int
	SkippedReadOnly int
	Failed          int
}

// Tally folds one result into running counts.
func (c *Counts) Tally(r FileResult) {
	switch r.Outcome {
	case Applied:
		c.Applied++
	case SkippedModified:
		c.SkippedModified++
	case SkippedClean:
		c.SkippedClean++
	case SkippedReadOnly:
		c.SkippedReadOnly++
	case Failed:
		c.Failed++
	}
}

// Print writes one result line in the teacher's colorized style
// (internal/dotfile.CopyFile's fmt.Fprintf-to-w convention).
func Print(w io.Writer, r FileResult) {
	switch r.Outcome {
	case Applied:
		fmt.Fprintf(w, "  %s %s\n", color.GreenString("applied"), r.Target)
	case SkippedModified:
		fmt.Fprintf(w, "  %s %s\n", color.YellowString("skipped"), r.Target)
	case SkippedClean:
		fmt.Fprintf(w, "  %s %s\n", color.CyanString("clean"), r.Target)
	case SkippedReadOnly:
		fmt.Fprintf(w, "  %s %s\n", color.YellowString("read-only"), r.Target)
	case Failed:
		fmt.Fprintf(w, "  %s %s: %v\n", color.RedString("failed"), r.Target, r.Err)
	}
}

// writeAtomic copies src's byte content to dst via a same-directory temp
// file plus os.Rename, satisfying spec §4.7's crash-atomicity
// requirement. The temp file is always created in dst's own directory,
// so a src on another filesystem is copied by write-then-rename within
// the target directory; the single os.Rename never crosses a device
// boundary and there is no separate EXDEV retry path.
func writeAtomic(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating parent directory for %s: %w", dst, err)
	}

	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("%w: %s", doterr.ErrPathNotFound, src)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".instantdots-tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", dst, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	source, err := os.Open(src)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("opening source %s: %w", src, err)
	}
	_, copyErr := io.Copy(tmp, source)
	source.Close()
	closeErr := tmp.Close()
	if copyErr != nil {
		return fmt.Errorf("copying %s to temp file: %w", src, copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("closing temp file for %s: %w", dst, closeErr)
	}
	if err := os.Chmod(tmpPath, info.Mode()); err != nil {
		return fmt.Errorf("setting mode on %s: %w", dst, err)
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		return fmt.Errorf("renaming into place %s: %w", dst, err)
	}
	return nil
}

// recordBothAfterWrite updates tracker[target] and tracker[source] to
// the post-write hash, which is identical for both sides once the copy
// lands -- shared by Apply's Outdated branch, Fetch's Modified branch,
// and Reset's Modified branch.
func recordBothAfterWrite(db *dotdb.DB, targetPath, sourcePath string) error {
	hash, err := dotdb.ComputeHash(targetPath)
	if err != nil {
		return err
	}
	if err := db.RecordTarget(targetPath, hash); err != nil {
		return err
	}
	return db.RecordSource(sourcePath, hash)
}
