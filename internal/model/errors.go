package model

import "errors"

// ErrUnsafeInput is returned when a credential field is empty or carries a
// quoting, delimiter or whitespace character.
var ErrUnsafeInput = errors.New("unsafe credential input")

// ErrMissingField is returned by the entity constructors when a required
// field is zero.
var ErrMissingField = errors.New("missing required field")

// ErrOutOfRange is returned when a quantity exceeds what a single ticket
// may carry.
var ErrOutOfRange = errors.New("value out of range")
