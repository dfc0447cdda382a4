package errors

import "errors"

var ErrNotFound = errors.New("profile not found")
