// Package dotstate classifies a target's relationship to its resolved
// source as Clean, Modified, or Outdated, per the table in spec §4.5.
package dotstate

import (
	"os"

	"github.com/instantdots/instantdots/internal/dotdb"
)

// State is one of the three classification states (spec Glossary).
type State int

const (
	// Clean: target matches its resolved source.
	Clean State = iota
	// Modified: target was user-edited and must not be silently
	// overwritten.
	Modified
	// Outdated: source has moved forward, or the target was never
	// materialized.
	Outdated
)

func (s State) String() string {
	switch s {
	case Clean:
		return "Clean"
	case Modified:
		return "Modified"
	case Outdated:
		return "Outdated"
	default:
		return "Unknown"
	}
}

// Classify implements the table of spec §4.5 for a target T whose
// resolved source is S. Classify stats both paths itself.
func Classify(db *dotdb.DB, targetPath, sourcePath string) (State, error) {
	_, targetStatErr := os.Stat(targetPath)
	targetExists := targetStatErr == nil

	_, sourceStatErr := os.Stat(sourcePath)
	sourceExists := sourceStatErr == nil

	if !targetExists {
		if sourceExists {
			return Outdated, nil
		}
		// Neither exists: nothing to classify meaningfully; treat as
		// Outdated rather than silently calling it Clean. Apply then
		// reports the copy as Failed, since there is no source to copy.
		return Outdated, nil
	}

	targetHash, err := dotdb.ComputeHash(targetPath)
	if err != nil {
		return 0, err
	}

	var sourceHash dotdb.Hash
	if sourceExists {
		sourceHash, err = dotdb.ComputeHash(sourcePath)
		if err != nil {
			return 0, err
		}
	}

	trackerEntry, hasEntry, err := db.Known(dotdb.RoleTarget, targetPath)
	if err != nil {
		return 0, err
	}

	if sourceExists && targetHash == sourceHash {
		// T present, hash(T) = hash(S): Clean, regardless of tracker state
		// (ties resolve to Clean per spec §4.5).
		return Clean, nil
	}

	if hasEntry && targetHash == trackerEntry.Hash {
		// T present, hash(T) = tracker[T].hash != hash(S): source moved
		// forward.
		return Outdated, nil
	}

	// T present, hash(T) != tracker[T].hash (or no entry and differs from
	// source): user has modified the target.
	return Modified, nil
}

// IsTargetUnmodified implements spec §4.5's is_target_unmodified(target).
func IsTargetUnmodified(db *dotdb.DB, targetPath, sourcePath string) (bool, error) {
	state, err := Classify(db, targetPath, sourcePath)
	if err != nil {
		return false, err
	}
	return state != Modified, nil
}

// IsOutdated implements spec §4.5's is_outdated(target): the source
// file's current hash differs from the tracker entry for the source
// path.
func IsOutdated(db *dotdb.DB, sourcePath string) (bool, error) {
	if _, err := os.Stat(sourcePath); err != nil {
		return false, nil
	}
	currentHash, err := dotdb.ComputeHash(sourcePath)
	if err != nil {
		return false, err
	}
	entry, found, err := db.Known(dotdb.RoleSource, sourcePath)
	if err != nil {
		return false, err
	}
	if !found {
		return true, nil
	}
	return currentHash != entry.Hash, nil
}
