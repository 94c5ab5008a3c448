package storage

import "errors"

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a write violates a uniqueness rule
	// (duplicate username, second vehicle for a profile).
	ErrConflict = errors.New("record conflicts with an existing one")
)
