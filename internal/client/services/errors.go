package services

import (
	"errors"

	"github.com/dmitrijs2005/desabantuin/internal/client/session"
)

// ValidationError rejects user input before anything is sent or stored.
// Message is shown to the user as is.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return e.Err }

// RemoteError is a failed exchange with the backend. Message is the
// server's explanation or a generic fallback.
type RemoteError struct {
	Message string
	Err     error
}

func (e *RemoteError) Error() string { return e.Message + ": " + e.Err.Error() }
func (e *RemoteError) Unwrap() error { return e.Err }

const msgSessionNotSaved = "Sesi tidak dapat disimpan, silakan coba lagi"

// UserMessage returns the text to show for err.
func UserMessage(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Message
	}
	if errors.Is(err, session.ErrStorageWrite) {
		return msgSessionNotSaved
	}
	return err.Error()
}
