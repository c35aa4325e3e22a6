// Package lockfile implements the advisory one-shot lock spec §5 calls
// for: a PID file plus a /proc/<pid> liveness check, guarding
// autostart-style invocations from starting twice concurrently. It sits
// alongside internal/dotdb's own OS-level directory lock; the CLI takes
// it (via acquireRunLock) for apply, fetch, reset and repo update --apply.
package lockfile

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Lock is an acquired advisory lock; call Release when done.
type Lock struct {
	path string
}

// Acquire writes path containing the current process's PID, failing if
// an existing lock file names a PID that is still alive. A lock file
// naming a dead PID is treated as stale and silently reclaimed.
func Acquire(path string) (*Lock, error) {
	if data, err := os.ReadFile(path); err == nil {
		if pid, perr := strconv.Atoi(strings.TrimSpace(string(data))); perr == nil {
			if alive(pid) {
				return nil, fmt.Errorf("lockfile: %s is held by running process %d", path, pid)
			}
		}
	}

	pid := os.Getpid()
	if err := os.WriteFile(path, []byte(strconv.Itoa(pid)), 0o644); err != nil {
		return nil, fmt.Errorf("writing lock file %s: %w", path, err)
	}
	return &Lock{path: path}, nil
}

// Release removes the lock file.
func (l *Lock) Release() error {
	return os.Remove(l.path)
}

// alive reports whether pid names a process that is still running, by
// checking for its /proc/<pid> directory -- an advisory check only,
// sufficient for the one-shot-invocation guard spec §5 describes, not
// a general cross-platform process-liveness primitive.
func alive(pid int) bool {
	_, err := os.Stat(fmt.Sprintf("/proc/%d", pid))
	return err == nil
}
