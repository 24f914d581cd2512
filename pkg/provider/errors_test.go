package provider

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	err := &Error{Provider: "frankfurter", Err: fmt.Errorf("%w after 5s", ErrTimeout)}

	assert.Equal(t, "provider frankfurter: request timeout after 5s", err.Error())
	assert.True(t, IsTimeout(err))

	var pe *Error
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &pe))
	assert.Equal(t, "frankfurter", pe.Provider)
	assert.False(t, IsTimeout(&Error{Provider: "x", Err: ErrBadStatus}))
}
