package profile

import "errors"

var (
	// ErrNotFound indicates no record matched the query.
	ErrNotFound = errors.New("profile not found")

	// ErrDuplicateEmail indicates a create hit the unique-email constraint,
	// usually because a concurrent request created the record first.
	ErrDuplicateEmail = errors.New("profile email already exists")
)
