package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/twiced-technology-gmbh/tasklist/internal/filelock"
)

const (
	fileMode = 0o600
	dirMode  = 0o750
	fileExt  = ".json"
)

// File stores each key as <dir>/<key>.json. Reads take a shared lock and
// writes an exclusive lock on <dir>/.lock, so separate processes working on
// the same directory never observe a half-written value. Update keeps the
// exclusive lock from its read to its write, so a writer in another process
// cannot slip in between.
type File struct {
	dir string
}

// NewFile returns a File storage rooted at dir, creating the directory if needed.
func NewFile(dir string) (*File, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	if err := os.MkdirAll(absDir, dirMode); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &File{dir: absDir}, nil
}

// Dir returns the absolute storage directory.
func (f *File) Dir() string {
	return f.dir
}

// Path returns the file that backs key.
func (f *File) Path(key string) string {
	return filepath.Join(f.dir, key+fileExt)
}

// LockPath returns the lock file shared by every writer in the directory.
func (f *File) LockPath() string {
	return filelock.Path(f.dir)
}

// Get implements Storage.
func (f *File) Get(key string) ([]byte, bool, error) {
	if err := ValidateKey(key); err != nil {
		return nil, false, err
	}

	unlock, err := filelock.RLock(f.LockPath())
	if err != nil {
		return nil, false, fmt.Errorf("acquiring lock: %w", err)
	}
	defer unlock() //nolint:errcheck // best-effort unlock

	return f.read(key)
}

// Set implements Storage. The value is written to a temporary file and
// renamed over the previous one.
func (f *File) Set(key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	unlock, err := filelock.Lock(f.LockPath())
	if err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}
	defer unlock() //nolint:errcheck // best-effort unlock

	return f.write(key, value)
}

// Update implements Storage.
func (f *File) Update(key string, fn UpdateFunc) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	unlock, err := filelock.Lock(f.LockPath())
	if err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}
	defer unlock() //nolint:errcheck // best-effort unlock

	cur, ok, err := f.read(key)
	if err != nil {
		return err
	}
	next, err := fn(cur, ok)
	if err != nil {
		return err
	}
	return f.write(key, next)
}

func (f *File) read(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(f.Path(key)) //nolint:gosec // path built from validated key
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading %s: %w", key, err)
	}
	return data, true, nil
}

func (f *File) write(key string, value []byte) error {
	tmp, err := os.CreateTemp(f.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := tmp.Chmod(fileMode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("setting mode on %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", key, err)
	}
	if err := os.Rename(tmpName, f.Path(key)); err != nil {
		return fmt.Errorf("replacing %s: %w", key, err)
	}
	return nil
}
