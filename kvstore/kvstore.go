// Package kvstore implements key/value storage backends used to
// persist table state across sessions.
package kvstore

import "errors"

// ErrNotFound is returned by Store.Get when no value
// is stored under the requested key.
var ErrNotFound = errors.New("key not found")

// Store is a durable key/value storage medium.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value stored under key,
	// or ErrNotFound if the key is absent.
	Get(key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(key string, value []byte) error
}
