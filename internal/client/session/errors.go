package session

import (
	"errors"
	"fmt"
)

var (
	ErrStorageWrite   = errors.New("session storage write failed")
	ErrInvalidToken   = errors.New("token must not be empty")
	ErrIncompleteUser = errors.New("user record is incomplete")
	ErrCorruptSession = errors.New("stored session is corrupt")
)

// StorageWriteError reports a failed persist during Login or Logout.
// In-memory state is unchanged when it is returned.
type StorageWriteError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageWriteError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: write %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageWriteError) Unwrap() error {
	return e.Err
}

// Is matches ErrStorageWrite so callers need not know the concrete type.
func (e *StorageWriteError) Is(target error) bool {
	return target == ErrStorageWrite
}
