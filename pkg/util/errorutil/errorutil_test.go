package errorutil

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		code       string
		httpStatus int
		retryable  bool
	}{
		{"invalid request", NewInvalidRequest("bad", nil), "INVALID_REQUEST", http.StatusBadRequest, false},
		{"not found", NewNotFound("job", nil), "NOT_FOUND", http.StatusNotFound, false},
		{"unauthorized", NewUnauthorized("no identity"), "UNAUTHORIZED", http.StatusUnauthorized, false},
		{"not authorized", NewNotAuthorized("not your contract"), "NOT_AUTHORIZED", http.StatusForbidden, false},
		{"insufficient funds", NewInsufficientFunds("balance too low"), "INSUFFICIENT_FUNDS", http.StatusForbidden, false},
		{"deposit limit", NewExceedsDepositLimit("over cap", nil), "DEPOSIT_LIMIT_EXCEEDED", http.StatusForbidden, false},
		{"store unavailable", NewStoreUnavailable(errors.New("lock timeout")), "STORE_UNAVAILABLE", http.StatusServiceUnavailable, true},
		{"internal", NewInternalError(errors.New("boom")), "INTERNAL_ERROR", http.StatusInternalServerError, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			domainErr := ToDomainError(tt.err)
			require.NotNil(t, domainErr)
			assert.Equal(t, tt.code, domainErr.Code)
			assert.Equal(t, tt.httpStatus, domainErr.HTTPStatus)
			assert.Equal(t, tt.retryable, domainErr.Retryable)
		})
	}
}

func TestToDomainError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, ToDomainError(nil))
	})

	t.Run("wraps unknown errors as internal", func(t *testing.T) {
		domainErr := ToDomainError(errors.New("surprise"))
		assert.Equal(t, "INTERNAL_ERROR", domainErr.Code)
		assert.Equal(t, http.StatusInternalServerError, domainErr.HTTPStatus)
	})

	t.Run("unwraps nested domain errors", func(t *testing.T) {
		inner := NewNotFound("contract", nil)
		wrapped := errors.Join(errors.New("context"), inner)
		assert.Equal(t, "NOT_FOUND", ToDomainError(wrapped).Code)
	})

	t.Run("message includes the cause", func(t *testing.T) {
		err := NewStoreUnavailable(errors.New("deadlock detected"))
		assert.Contains(t, err.Error(), "deadlock detected")
	})
}
