package store

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable means the store is not configured: no credential or no location.
	ErrUnavailable = errors.New("store unavailable")
	// ErrConflict means the version token given to a save is stale.
	ErrConflict = errors.New("version conflict")
	// ErrRemoteRejected means the backing service refused the request.
	ErrRemoteRejected = errors.New("remote rejected request")

	errNotFound = errors.New("object not found")
)

type ConflictError struct {
	Expected Version
	// Current is empty when the backend cannot tell.
	Current Version
}

func (e *ConflictError) Error() string {
	expected := string(e.Expected)
	if expected == "" {
		expected = "<none>"
	}
	if e.Current == "" {
		return fmt.Sprintf("%s: expected version %s", ErrConflict, expected)
	}
	return fmt.Sprintf("%s: expected version %s, remote is at %s", ErrConflict, expected, e.Current)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

func rejected(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrRemoteRejected, fmt.Sprintf(format, args...))
}
