package errors

import "errors"

var (
	ErrManagerNotFound     = errors.New("manager not found")
	ErrInvalidManagerInput = errors.New("invalid manager input")
	ErrInvalidHub          = errors.New("hub id must be positive")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrForbidden           = errors.New("access to manager denied")
)
