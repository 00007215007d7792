package domain

import "errors"

var (
	// ErrValidation marks rejected user input. It never reaches the store.
	ErrValidation = errors.New("validation failed")

	// ErrNotAuthenticated blocks write operations without a valid session.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrVendorInUse rejects deletion of a vendor still referenced by LPOs.
	ErrVendorInUse = errors.New("vendor is referenced by existing LPOs")

	// ErrCascadePartial signals that a cascade delete could not be rolled
	// back cleanly after a failed step. Surfaced as a data-integrity
	// warning, distinct from a plain store failure.
	ErrCascadePartial = errors.New("cascade delete partially applied")
)
