package repository

import "errors"

// Typed errors raised by repositories so controllers can map them to status
// codes without inspecting driver errors.
var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateSigner is returned when a signer roster insert collides
	// with an existing (version, user) pair or the input contains duplicates.
	ErrDuplicateSigner = errors.New("signer already assigned to this version")

	// ErrVersionConflict is returned when a concurrent writer won a race the
	// caller may retry: a duplicate version number insert or a stale file
	// pointer swap.
	ErrVersionConflict = errors.New("document version was modified concurrently")

	// ErrNothingUpdated is returned when a conditional state transition
	// matched zero rows, meaning the signer was not in the expected state.
	ErrNothingUpdated = errors.New("no rows were in the expected state")
)
