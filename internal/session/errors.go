package session

import "errors"

var (
	// ErrNoSession indicates the request carries no readable session cookie.
	ErrNoSession = errors.New("session.not_found")
)
