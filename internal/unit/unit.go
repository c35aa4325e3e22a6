// Package unit implements the atomic-group promotion logic of spec §4.6,
// grounded on original_source/src/dot/unit_manager.rs: a unit is a
// ~-prefixed directory path that must be updated atomically, never
// partially.
package unit

import (
	"strings"

	"github.com/instantdots/instantdots/internal/dotstate"
)

// Units is the union of global (config-level) units and the per-repo
// unit lists handed to Collect.
type Units []string

// Collect merges global config units with the given per-repo unit lists,
// deduplicating. It does not filter by which repo provides a file: the
// CLI passes the units of every configured repository, enabled or not,
// whether or not that repository provides a file in the unit.
func Collect(globalUnits []string, repoUnits [][]string) Units {
	seen := make(map[string]bool)
	var out Units
	add := func(u string) {
		u = normalize(u)
		if u != "" && !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}
	for _, u := range globalUnits {
		add(u)
	}
	for _, ru := range repoUnits {
		for _, u := range ru {
			add(u)
		}
	}
	return out
}

// normalize strips a trailing slash so prefix matching is exact.
func normalize(u string) string {
	return strings.TrimSuffix(u, "/")
}

// MemberOf returns the most specific unit (the longest matching prefix)
// that target falls under, or "" if none applies.
func MemberOf(units Units, target string) string {
	best := ""
	for _, u := range units {
		if target == u || strings.HasPrefix(target, u+"/") {
			if len(u) > len(best) {
				best = u
			}
		}
	}
	return best
}

// Promote walks the classification map and, for every unit containing at
// least one Modified member, reclassifies every other member of that
// unit as Modified -- spec §4.6/§4.7's unit promotion rule ("if any file
// in a unit is Modified, all files in that unit take the Modified
// branch, even if individually Outdated").
func Promote(units Units, states map[string]dotstate.State) map[string]dotstate.State {
	if len(units) == 0 {
		return states
	}

	modifiedUnits := make(map[string]bool)
	for target, st := range states {
		if st != dotstate.Modified {
			continue
		}
		if u := MemberOf(units, target); u != "" {
			modifiedUnits[u] = true
		}
	}
	if len(modifiedUnits) == 0 {
		return states
	}

	promoted := make(map[string]dotstate.State, len(states))
	for target, st := range states {
		u := MemberOf(units, target)
		if u != "" && modifiedUnits[u] {
			promoted[target] = dotstate.Modified
			continue
		}
		promoted[target] = st
	}
	return promoted
}
