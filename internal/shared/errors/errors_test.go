package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	t.Run("Error returns message", func(t *testing.T) {
		err := &AppError{
			Code:    "TEST_ERROR",
			Message: "test error message",
		}
		assert.Equal(t, "test error message", err.Error())
	})

	t.Run("Error includes wrapped error", func(t *testing.T) {
		wrapped := errors.New("wrapped error")
		err := &AppError{
			Code:    "TEST_ERROR",
			Message: "test error message",
			Err:     wrapped,
		}
		assert.Contains(t, err.Error(), "test error message")
		assert.Contains(t, err.Error(), "wrapped error")
	})

	t.Run("Unwrap returns wrapped error", func(t *testing.T) {
		wrapped := errors.New("wrapped error")
		err := &AppError{
			Code:    "TEST_ERROR",
			Message: "test message",
			Err:     wrapped,
		}
		assert.Equal(t, wrapped, err.Unwrap())
	})
}

func TestConstructors(t *testing.T) {
	t.Run("NotFound", func(t *testing.T) {
		err := NotFound("product")
		assert.Equal(t, "NOT_FOUND", err.Code)
		assert.Equal(t, "product not found", err.Message)
		assert.Equal(t, http.StatusNotFound, err.StatusCode)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("Unauthorized uses default message", func(t *testing.T) {
		err := Unauthorized("")
		assert.Equal(t, "authentication required", err.Message)
		assert.Equal(t, http.StatusUnauthorized, err.StatusCode)
	})

	t.Run("BadRequest", func(t *testing.T) {
		err := BadRequest("invalid input")
		assert.Equal(t, "BAD_REQUEST", err.Code)
		assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	})

	t.Run("PreconditionFailed carries caller code", func(t *testing.T) {
		err := PreconditionFailed("PHONE_REQUIRED", "phone number required before checkout")
		assert.Equal(t, "PHONE_REQUIRED", err.Code)
		assert.Equal(t, http.StatusPreconditionFailed, err.StatusCode)
		assert.True(t, errors.Is(err, ErrPrecondition))
	})

	t.Run("Conflict", func(t *testing.T) {
		err := Conflict("subscription already exists")
		assert.Equal(t, http.StatusConflict, err.StatusCode)
		assert.True(t, errors.Is(err, ErrConflict))
	})
}

func TestGetStatusCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"app error", NotFound("plan"), http.StatusNotFound},
		{"wrapped sentinel", errors.Join(errors.New("ctx"), ErrConflict), http.StatusConflict},
		{"precondition sentinel", ErrPrecondition, http.StatusPreconditionFailed},
		{"rate limited", ErrRateLimited, http.StatusTooManyRequests},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetStatusCode(tt.err))
		})
	}
}
