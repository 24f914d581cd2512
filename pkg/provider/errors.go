package provider

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout is returned when a request exceeds its own deadline.
	ErrTimeout = errors.New("request timeout")
	// ErrBadStatus is returned for non-2xx responses.
	ErrBadStatus = errors.New("unexpected status")
	// ErrMalformedResponse is returned when the body cannot be decoded.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrMissingField is returned when the expected field is absent.
	ErrMissingField = errors.New("missing field in response")
	// ErrInvalidRate is returned for rates that are NaN or infinite.
	ErrInvalidRate = errors.New("invalid exchange rate")
)

// Error represents a failure from a single rate provider.
type Error struct {
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether err was caused by a provider timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
