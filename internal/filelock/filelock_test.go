package filelock

import (
	"path/filepath"
	"testing"
)

func TestLockUnlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lock")

	unlock, err := Lock(path)
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	if err := unlock(); err != nil {
		t.Fatalf("unlock: %v", err)
	}

	// Re-acquiring after release must not block.
	unlock, err = Lock(path)
	if err != nil {
		t.Fatalf("second Lock: %v", err)
	}
	_ = unlock()
}

func TestSharedLocksCoexist(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lock")

	first, err := RLock(path)
	if err != nil {
		t.Fatalf("first RLock: %v", err)
	}
	defer first() //nolint:errcheck // test cleanup

	second, err := RLock(path)
	if err != nil {
		t.Fatalf("second RLock: %v", err)
	}
	if err := second(); err != nil {
		t.Fatalf("unlock: %v", err)
	}
}

func TestAcquireMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", ".lock")
	if _, err := Acquire(path, Exclusive); err == nil {
		t.Fatal("expected error for lock file in missing directory")
	}
}
