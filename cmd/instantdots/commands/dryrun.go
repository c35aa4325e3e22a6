package commands

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/instantdots/instantdots/internal/dotstate"
)

// previewApply prints what Apply would do for each in-scope target
// without writing anything, by reusing the same classify+unit-promote
// pass Apply itself runs internally.
func previewApply(env *environment, scope string) error {
	for _, script := range env.cfg.Hooks.PreApply {
		fmt.Printf("[dry run] would run pre_apply hook: %s\n", script)
	}

	states, err := classifyForStatus(env)
	if err != nil {
		return err
	}
	applied, skippedModified, clean := 0, 0, 0
	for target := range env.mapping {
		if !inStatusScope(target, scope) {
			continue
		}
		switch states[target] {
		case dotstate.Outdated:
			fmt.Printf("  %s %s\n", color.GreenString("would apply"), target)
			applied++
		case dotstate.Modified:
			fmt.Printf("  %s %s\n", color.YellowString("would skip (modified)"), target)
			skippedModified++
		default:
			clean++
		}
	}
	fmt.Printf("\n[dry run] would apply %d, skip %d modified, %d already clean\n", applied, skippedModified, clean)
	for _, script := range env.cfg.Hooks.PostApply {
		fmt.Printf("[dry run] would run post_apply hook: %s\n", script)
	}
	if env.cfg.Shell.Enabled {
		fmt.Println("[dry run] would regenerate shell environment script and sync rc file")
	}
	return nil
}

// previewFetch mirrors previewApply for the Fetch direction.
func previewFetch(env *environment, scope string) error {
	states, err := classifyForStatus(env)
	if err != nil {
		return err
	}
	readOnly := env.readOnlyByRepo()
	fetched, skippedReadOnly, clean := 0, 0, 0
	for target, res := range env.mapping {
		if !inStatusScope(target, scope) {
			continue
		}
		if states[target] != dotstate.Modified {
			clean++
			continue
		}
		if readOnly[res.Source.RepoName] {
			fmt.Printf("  %s %s\n", color.YellowString("would skip (read-only)"), target)
			skippedReadOnly++
			continue
		}
		fmt.Printf("  %s %s\n", color.GreenString("would fetch"), target)
		fetched++
	}
	fmt.Printf("\n[dry run] would fetch %d, skip %d read-only, %d already clean\n", fetched, skippedReadOnly, clean)
	return nil
}

// previewReset mirrors previewApply for the Reset direction: only
// Modified targets at or under scope would change.
func previewReset(env *environment, scope string) error {
	states, err := classifyForStatus(env)
	if err != nil {
		return err
	}
	reset, clean := 0, 0
	for target := range env.mapping {
		if !inStatusScope(target, scope) {
			continue
		}
		if states[target] != dotstate.Modified {
			clean++
			continue
		}
		fmt.Printf("  %s %s\n", color.GreenString("would reset"), target)
		reset++
	}
	fmt.Printf("\n[dry run] would reset %d, skip %d already clean\n", reset, clean)
	return nil
}
