package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "Booking not found", NotFoundError{Resource: "Booking"}.Error())
	assert.Equal(t, "not found", NotFoundError{}.Error())
	assert.Equal(t, "date: invalid date", ValidationError{Field: "date", Msg: "invalid date"}.Error())
	assert.Equal(t, "invalid date", ValidationError{Field: "date"}.Error())
	assert.Equal(t, "Only pending bookings can be accepted", InvalidStateError{Msg: "Only pending bookings can be accepted"}.Error())
	assert.Equal(t, `cannot accept booking in status "rejected"`, InvalidStateError{Op: "accept", Status: "rejected"}.Error())
	assert.Equal(t, "driver conflict: busy", ConflictError{Resource: "driver", Msg: "busy"}.Error())
	assert.Equal(t, "not authorized", UnauthorizedError{}.Error())
	assert.Equal(t, "forbidden", ForbiddenError{}.Error())
	assert.Equal(t, "too many requests", RateLimitedError{}.Error())
}

func TestErrorMatchers(t *testing.T) {
	cause := errors.New("boom")

	t.Run("Wrapped", func(t *testing.T) {
		err := fmt.Errorf("ctx: %w", NotFoundError{Resource: "Driver", Err: cause})
		assert.True(t, IsNotFound(err))
		assert.ErrorIs(t, err, cause)
		assert.False(t, IsValidation(err))
	})

	t.Run("Kinds", func(t *testing.T) {
		assert.True(t, IsValidation(ValidationError{}))
		assert.True(t, IsInvalidState(InvalidStateError{}))
		assert.True(t, IsConflict(ConflictError{}))
		assert.True(t, IsUnauthorized(UnauthorizedError{}))
		assert.True(t, IsForbidden(ForbiddenError{}))
		assert.True(t, IsRateLimited(RateLimitedError{}))
		assert.False(t, IsInvalidState(cause))
	})
}
