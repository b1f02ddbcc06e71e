package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrFileTooLarge is returned when an uploaded file exceeds the size limit.
	ErrFileTooLarge = errors.New("file too large")
)
