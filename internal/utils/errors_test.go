package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Message: "test error message",
	}

	assert.Equal(t, "test error message", err.Error())
}

func TestValidationError_WithField(t *testing.T) {
	err := &ValidationError{
		Field:   "max_pairs",
		Message: "must be positive",
	}

	assert.Equal(t, "max_pairs: must be positive", err.Error())
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("validation failed")

	assert.Error(t, err)
	assert.Equal(t, "validation failed", err.Error())

	validationErr, ok := err.(*ValidationError)
	assert.True(t, ok)
	assert.Equal(t, "validation failed", validationErr.Message)
}

func TestNewValidationErrorf(t *testing.T) {
	err := NewValidationErrorf("validation failed for field %s with value %d", "age", 150)

	assert.Equal(t, "validation failed for field age with value 150", err.Error())
}

func TestNewFieldErrorf(t *testing.T) {
	err := NewFieldErrorf("workers", "must not be negative, got %d", -2)

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "workers", validationErr.Field)
	assert.Equal(t, "workers: must not be negative, got -2", err.Error())
}

func TestIsValidationError(t *testing.T) {
	wrapped := fmt.Errorf("run rejected: %w", NewValidationError("bad threshold"))

	assert.True(t, IsValidationError(wrapped))
	assert.False(t, IsValidationError(errors.New("plain")))
	assert.False(t, IsValidationError(nil))
}
