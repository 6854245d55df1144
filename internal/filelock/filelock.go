// Package filelock provides advisory file locking for coordinating
// processes that share one storage directory.
package filelock

import (
	"os"
	"path/filepath"
)

const (
	lockFileMode = 0o600
	dirLockName  = ".lock"
)

// Mode selects between a shared (reader) and an exclusive (writer) lock.
type Mode int

const (
	// Shared allows any number of concurrent holders, excluding writers.
	Shared Mode = iota
	// Exclusive allows a single holder.
	Exclusive
)

// Path returns the lock file that guards every file in the data directory dir.
func Path(dir string) string {
	return filepath.Join(dir, dirLockName)
}

// Lock acquires an exclusive advisory lock on the file at path.
// It is shorthand for Acquire(path, Exclusive).
func Lock(path string) (unlock func() error, err error) {
	return Acquire(path, Exclusive)
}

// RLock acquires a shared advisory lock on the file at path.
func RLock(path string) (unlock func() error, err error) {
	return Acquire(path, Shared)
}

// Acquire takes an advisory lock of the given mode on the file at path,
// creating it if needed. Callers block until the lock is granted. The
// returned function releases the lock and closes the file.
func Acquire(path string, mode Mode) (unlock func() error, err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockFileMode) //nolint:gosec // lock path from trusted source
	if err != nil {
		return nil, err
	}

	if err := lockFile(f, mode); err != nil {
		_ = f.Close()
		return nil, err
	}

	return func() error {
		unlockErr := unlockFile(f)
		closeErr := f.Close()
		if unlockErr != nil {
			return unlockErr
		}
		return closeErr
	}, nil
}
