// Package dotdb is the content-hash tracker: a persistent store of file
// fingerprints distinguishing pristine/modified/outdated state for every
// tracked path (spec §4.5). Backed by github.com/dgraph-io/badger/v4,
// which supplies both crash-atomic commits and the process-exclusive
// directory lock spec §4.5/§5 require of the backing store.
package dotdb

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/instantdots/instantdots/internal/doterr"
)

// Hash is the content fingerprint: a cryptographic digest over file
// bytes (spec §3). sha256 is used because the corpus's only hash
// library, cespare/xxhash, is explicitly non-cryptographic and
// unsuitable for an equality check with negligible collision
// probability.
type Hash [sha256.Size]byte

// Role disambiguates a path's place in a tracker entry (spec §3).
type Role byte

const (
	RoleSource Role = 'S'
	RoleTarget Role = 'T'
)

// Record is one tracker entry: (hash, path, role), plus a last-seen
// timestamp refreshed on every record; nothing prunes entries by it
// (hash_cleanup_days is not read).
type Record struct {
	Hash     Hash
	LastSeen time.Time
}

// DB wraps a Badger instance providing the tracker's get/put/delete and
// enumerated-scan contract (spec §4.5).
type DB struct {
	bdb *badger.DB
}

// lockRetryInterval and lockRetryTimeout bound how long Open waits for a
// contested directory lock before surfacing ErrLockBusy (spec §5).
const (
	lockRetryInterval = 50 * time.Millisecond
	lockRetryTimeout  = 2 * time.Second
)

// Open opens (creating if absent) the tracker database at dir. A second
// process attempting to open the same directory concurrently receives
// ErrLockBusy after a short retry window, since Badger takes an
// OS-level directory lock on Open.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating tracker directory %s: %w", dir, err)
	}

	opts := badger.DefaultOptions(dir).WithLogger(nil)

	deadline := time.Now().Add(lockRetryTimeout)
	var bdb *badger.DB
	var err error
	for {
		bdb, err = badger.Open(opts)
		if err == nil {
			break
		}
		if !errors.Is(err, badger.ErrWindowsNotSupported) && isLockError(err) && time.Now().Before(deadline) {
			time.Sleep(lockRetryInterval)
			continue
		}
		if isLockError(err) {
			return nil, fmt.Errorf("%w: %s", doterr.ErrLockBusy, dir)
		}
		return nil, fmt.Errorf("opening tracker database %s: %w", dir, err)
	}

	return &DB{bdb: bdb}, nil
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	// Badger returns a plain *errors.errorString ("Cannot acquire directory
	// lock...") rather than a sentinel for this condition.
	return containsLockWord(err.Error())
}

func containsLockWord(msg string) bool {
	return strings.Contains(strings.ToLower(msg), "lock")
}

// Close releases the directory lock.
func (d *DB) Close() error {
	return d.bdb.Close()
}

// ComputeHash digests the byte content of path. Binary-safe.
func ComputeHash(path string) (Hash, error) {
	f, err := os.Open(path)
	if err != nil {
		return Hash{}, fmt.Errorf("%w: %s", doterr.ErrPathNotFound, path)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return Hash{}, fmt.Errorf("hashing %s: %w", path, err)
	}
	var out Hash
	copy(out[:], h.Sum(nil))
	return out, nil
}

func key(role Role, path string) []byte {
	b := make([]byte, 1+len(path))
	b[0] = byte(role)
	copy(b[1:], path)
	return b
}

func encode(r Record) []byte {
	b := make([]byte, sha256.Size+8)
	copy(b, r.Hash[:])
	binary.BigEndian.PutUint64(b[sha256.Size:], uint64(r.LastSeen.UnixNano()))
	return b
}

func decode(b []byte) (Record, error) {
	if len(b) != sha256.Size+8 {
		return Record{}, fmt.Errorf("%w: record has %d bytes", doterr.ErrTrackerCorrupt, len(b))
	}
	var rec Record
	copy(rec.Hash[:], b[:sha256.Size])
	ns := int64(binary.BigEndian.Uint64(b[sha256.Size:]))
	rec.LastSeen = time.Unix(0, ns)
	return rec, nil
}

// recordTimeNow is overridable in tests; avoids importing time.Now into
// every call site.
var recordTimeNow = time.Now

func (d *DB) record(role Role, path string, hash Hash) error {
	return d.bdb.Update(func(txn *badger.Txn) error {
		return txn.Set(key(role, path), encode(Record{Hash: hash, LastSeen: recordTimeNow()}))
	})
}

// RecordSource upserts the tracker entry for a source path.
func (d *DB) RecordSource(path string, hash Hash) error {
	return d.record(RoleSource, path, hash)
}

// RecordTarget upserts the tracker entry for a target path.
func (d *DB) RecordTarget(path string, hash Hash) error {
	return d.record(RoleTarget, path, hash)
}

// Known returns the tracker entry for (role, path), if any.
func (d *DB) Known(role Role, path string) (Record, bool, error) {
	var rec Record
	var found bool
	err := d.bdb.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(role, path))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			decoded, derr := decode(val)
			if derr != nil {
				return derr
			}
			rec = decoded
			return nil
		})
	})
	if err != nil {
		return Record{}, false, fmt.Errorf("reading tracker entry for %s: %w", path, err)
	}
	return rec, found, nil
}

// Delete removes the tracker entry for (role, path).
func (d *DB) Delete(role Role, path string) error {
	return d.bdb.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(role, path))
	})
}

// ScanRole enumerates every path with a tracker entry of the given role.
func (d *DB) ScanRole(role Role, visit func(path string, rec Record) error) error {
	return d.bdb.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		prefix := []byte{byte(role)}
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			path := string(item.Key()[1:])
			var rec Record
			err := item.Value(func(val []byte) error {
				decoded, derr := decode(val)
				if derr != nil {
					return derr
				}
				rec = decoded
				return nil
			})
			if err != nil {
				return err
			}
			if err := visit(path, rec); err != nil {
				return err
			}
		}
		return nil
	})
}
