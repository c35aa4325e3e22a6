// Package hooks runs user-declared lifecycle scripts around apply,
// retargeted from the teacher's per-dotfile symlink hooks to this
// domain's (target, source, repo, subdir) shape.
package hooks

import (
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// HookType identifies when a hook runs relative to an apply.
type HookType string

const (
	// PreApply hooks run before any file in the run is processed.
	PreApply HookType = "pre_apply"
	// PostApply hooks run after every file in the run has been processed.
	PostApply HookType = "post_apply"
	// PreFile hooks run before one specific (target, source) pair.
	PreFile HookType = "pre_file"
	// PostFile hooks run after one specific (target, source) pair.
	PostFile HookType = "post_file"
)

// HookContext carries the variables a hook script may reference.
// RepoName/Subdir are empty for PreApply/PostApply, which run once per
// invocation rather than per file.
type HookContext struct {
	TargetPath string
	SourcePath string
	RepoName   string
	Subdir     string
	DryRun     bool
}

// Run executes a single hook script, expanding its context placeholders
// first. A dry run only prints what would execute.
func Run(w io.Writer, script string, ctx *HookContext) error {
	expanded := expandVariables(script, ctx)

	if ctx != nil && ctx.DryRun {
		fmt.Fprintf(w, "[dry run] would run hook: %s\n", expanded)
		return nil
	}

	parts := strings.Fields(expanded)
	if len(parts) == 0 {
		return fmt.Errorf("empty hook command")
	}

	cmd := exec.Command(parts[0], parts[1:]...)
	cmd.Stdout = w
	cmd.Stderr = w
	return cmd.Run()
}

// RunHooks executes every script of hookType in order, stopping at the
// first failure.
func RunHooks(w io.Writer, scripts []string, hookType HookType, ctx *HookContext) error {
	if len(scripts) == 0 {
		return nil
	}

	fmt.Fprintf(w, "running %s hooks...\n", hookType)
	for _, script := range scripts {
		if err := Run(w, script, ctx); err != nil {
			return fmt.Errorf("hook %q failed: %w", script, err)
		}
	}
	return nil
}

// expandVariables substitutes {target}/{source}/{repo}/{subdir}
// placeholders with the context's values.
func expandVariables(script string, ctx *HookContext) string {
	if ctx == nil {
		return script
	}

	replacements := map[string]string{
		"{target}": ctx.TargetPath,
		"{source}": ctx.SourcePath,
		"{repo}":   ctx.RepoName,
		"{subdir}": ctx.Subdir,
	}

	result := script
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}
	return result
}
