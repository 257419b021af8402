// Package storage defines the persistent key/value contract behind the
// session store. One implementation per target is chosen at startup:
//
//   - sqlite      the local client database (default)
//   - securefile  a passphrase-encrypted file
//   - redis       shared storage for kiosk devices
//   - memory      process-local, for tests and throwaway runs
//
// Values are opaque bytes. Implementations must be safe for concurrent use.
package storage

import "context"

// Backend is a durable key/value store.
type Backend interface {
	// Get returns the stored value, or (nil, nil) when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set inserts or overwrites key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Updater is implemented by backends that can apply several writes
// atomically. Every Set/Delete made through the handle passed to fn is
// applied together when fn returns nil, and none is applied otherwise.
// Reads through the handle are not guaranteed to be supported.
type Updater interface {
	Update(ctx context.Context, fn func(ctx context.Context, b Backend) error) error
}
