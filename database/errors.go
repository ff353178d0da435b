package database

import "errors"

// Shared sentinels for the data layer. Repositories wrap store errors with
// context but keep these reachable through errors.Is.
var (
	// ErrNotFound means the referenced document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrConflict means a conditional write matched nothing because the
	// document is no longer in the expected state.
	ErrConflict = errors.New("document not in expected state")
)
