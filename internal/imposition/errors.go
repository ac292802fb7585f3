package imposition

import "errors"

// ErrInvalidPages is returned when the page count is not a positive integer.
var ErrInvalidPages = errors.New("pages must be a positive integer")
