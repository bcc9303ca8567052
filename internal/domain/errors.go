package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a unique key collision.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnauthorized is returned when the storefront API rejects the session token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrSessionExpired indicates the session outlived its expiry.
	ErrSessionExpired = errors.New("session expired")
)
