// Package storage provides the key-value slots that hold persisted state.
package storage

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidKey is returned for keys that cannot name a storage slot.
var ErrInvalidKey = errors.New("invalid storage key")

var keyRe = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// UpdateFunc receives the current value of a key (ok=false when it was
// never written) and returns the value to store in its place. Returning an
// error leaves the stored value untouched.
type UpdateFunc func(value []byte, ok bool) ([]byte, error)

// Storage is a flat key-value store. Set overwrites any previous value.
// Get reports ok=false for a key that was never written. Update is an
// atomic read-modify-write: no other writer can change the key between the
// read that fn sees and the write of its result.
type Storage interface {
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Update(key string, fn UpdateFunc) error
}

// ValidateKey checks that key is usable as a slot name (and as a file name).
func ValidateKey(key string) error {
	if key == "" || key == "." || key == ".." || !keyRe.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
