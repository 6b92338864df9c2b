package repository

import "errors"

var (
	// ErrNotFound is returned when no row matches the lookup.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when an insert trips the unique email
	// constraint. The constraint, not the application-level lookup, is the
	// actual uniqueness guarantee.
	ErrDuplicateEmail = errors.New("email already registered")
)
