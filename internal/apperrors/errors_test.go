package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("%w: wallet w-1", ErrNotFound)
	appErr := NewAppError(500, "failed to load wallet", cause)

	assert.True(t, errors.Is(appErr, ErrNotFound))
	assert.Equal(t, "failed to load wallet: resource not found: wallet w-1", appErr.Error())

	var target *AppError
	assert.True(t, errors.As(fmt.Errorf("outer: %w", appErr), &target))
	assert.Equal(t, 500, target.Code)
}

func TestAppErrorWithoutCause(t *testing.T) {
	appErr := NewAppError(503, "rate sources exhausted", nil)
	assert.Equal(t, "rate sources exhausted", appErr.Error())
	assert.Nil(t, appErr.Unwrap())
}
