package storage

import "errors"

var (
	// ErrNotFound is returned when a row is absent or owned by another user.
	ErrNotFound = errors.New("not found")

	// ErrReferentialIntegrity is returned when a delete is blocked by rows
	// that still reference the target.
	ErrReferentialIntegrity = errors.New("referenced by existing rows")
)
