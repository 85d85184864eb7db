package domain

import "errors"

// Error taxonomy. Services return these (usually wrapped); the HTTP layer maps
// them to status codes and everything unmatched to an internal failure.
var (
	ErrInvalid       = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("not authenticated")
	ErrForbidden     = errors.New("not allowed")
	ErrAlreadyExists = errors.New("already exists")
)
