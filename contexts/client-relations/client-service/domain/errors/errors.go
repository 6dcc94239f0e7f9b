package errors

import "errors"

var (
	ErrClientNotFound     = errors.New("client not found")
	ErrInvalidClientInput = errors.New("invalid client input")
	ErrInvalidHub         = errors.New("hub id must be positive")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrDuplicateEmail     = errors.New("email already used by another client in this hub")
	ErrForbidden          = errors.New("access to client denied")
)
