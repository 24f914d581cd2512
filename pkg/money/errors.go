package money

import "errors"

// ErrInvalidPrecision is returned when a precision outside 0..MaxPrecision is requested.
var ErrInvalidPrecision = errors.New("precision out of range")
