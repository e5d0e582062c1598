// Package storage provides the durable key-value capability used by the
// storefront state containers. Values are stored as JSON, mirroring browser
// local storage: a Set is visible to every later Get in the same process.
package storage

import "errors"

var (
	// ErrPersist wraps every failure to write a value. State containers return
	// it after the in-memory change has already been applied.
	ErrPersist = errors.New("storage: persist failed")

	// ErrCorrupt is returned when a stored value cannot be decoded.
	ErrCorrupt = errors.New("storage: corrupt value")
)

// Store is a synchronous JSON key-value store.
type Store interface {
	// Get decodes the value stored under key into dst. It reports false when
	// the key does not exist.
	Get(key string, dst any) (bool, error)
	// Set encodes value and stores it under key.
	Set(key string, value any) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
}
