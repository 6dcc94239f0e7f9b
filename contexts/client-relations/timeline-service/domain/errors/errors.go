package errors

import "errors"

var (
	ErrEventNotFound     = errors.New("timeline event not found")
	ErrInvalidEventInput = errors.New("invalid timeline event input")
	ErrClientNotFound    = errors.New("client not found")
	ErrManagerNotFound   = errors.New("manager not found")
	ErrInvalidHub        = errors.New("hub id must be positive")
	ErrForbidden         = errors.New("access to timeline denied")
)
