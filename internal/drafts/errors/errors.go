package errors

import "errors"

var (
	ErrNotFound = errors.New("booking draft not found")

	ErrInvalidID = errors.New("invalid booking draft ID format")
)
