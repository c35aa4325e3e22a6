// Package doterr collects the sentinel errors shared across the dotfile
// core so callers can classify a failure with errors.Is instead of
// matching on formatted strings.
package doterr

import "errors"

// Configuration errors.
var (
	ErrConfigMissing      = errors.New("config: file missing")
	ErrConfigInvalid      = errors.New("config: malformed")
	ErrDuplicateRepo      = errors.New("config: repository name already registered")
	ErrRepoNotFound       = errors.New("config: repository not found")
	ErrMetadataMissing    = errors.New("metadata: instantdots.toml missing")
	ErrMetadataInvalid    = errors.New("metadata: instantdots.toml malformed")
	ErrSubdirNotInMeta    = errors.New("metadata: subdir not declared by repository")
)

// Filesystem errors.
var (
	ErrPathOutsideHome = errors.New("path: not under home directory")
	ErrPathNotFound    = errors.New("path: not found")
	ErrNoSource        = errors.New("path: no source available")
	ErrPermission      = errors.New("path: permission denied")
	ErrCrossDevice     = errors.New("path: cross-device copy")
)

// State errors.
var (
	ErrLockBusy             = errors.New("state: tracker lock busy")
	ErrTrackerCorrupt       = errors.New("state: tracker store corrupt")
	ErrConcurrentModification = errors.New("state: concurrent modification detected")
)

// Repository I/O errors.
var (
	ErrCloneFailed       = errors.New("repo: clone failed")
	ErrPullFailed        = errors.New("repo: pull failed")
	ErrBranchSwitchFailed = errors.New("repo: branch switch failed")
)

// Policy errors (non-fatal, reported per file; still useful for errors.Is).
var (
	ErrReadOnlyRepo    = errors.New("policy: repository is read-only")
	ErrModifiedSkipped = errors.New("policy: target modified, skipped")
)

// ErrAlreadyExists covers destinations that already have content where the
// caller must choose an explicit alternative path (spec §4.10 "add").
var ErrAlreadyExists = errors.New("path: destination already exists")
