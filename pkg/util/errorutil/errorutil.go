package errorutil

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Retryable  bool
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewInvalidRequest flags malformed input the caller must fix.
func NewInvalidRequest(message string, details map[string]any) error {
	return NewDomainError("INVALID_REQUEST", message, http.StatusBadRequest, details)
}

// NewNotFound flags a missing profile, contract or job.
func NewNotFound(resource string, details map[string]any) error {
	return NewDomainError("NOT_FOUND", fmt.Sprintf("%s not found", resource), http.StatusNotFound, details)
}

// NewUnauthorized flags a request with no resolvable caller identity.
func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

// NewNotAuthorized flags a caller acting on a contract they are not party to.
// The message never leaks contract details.
func NewNotAuthorized(message string) error {
	return NewDomainError("NOT_AUTHORIZED", message, http.StatusForbidden, nil)
}

// NewInsufficientFunds flags a payment exceeding the client balance.
func NewInsufficientFunds(message string) error {
	return NewDomainError("INSUFFICIENT_FUNDS", message, http.StatusForbidden, nil)
}

// NewExceedsDepositLimit flags a deposit over the exposure cap.
func NewExceedsDepositLimit(message string, details map[string]any) error {
	return NewDomainError("DEPOSIT_LIMIT_EXCEEDED", message, http.StatusForbidden, details)
}

// NewStoreUnavailable flags a lock timeout or transaction conflict. Retryable
// by the caller with backoff.
func NewStoreUnavailable(err error) error {
	return &DomainError{
		Code:       "STORE_UNAVAILABLE",
		Message:    "ledger store unavailable, retry later",
		HTTPStatus: http.StatusServiceUnavailable,
		Retryable:  true,
		Err:        err,
	}
}

// NewInternalError wraps unexpected failures.
func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// MapError converts generic errors to DomainError.
func MapError(err error) error {
	return ToDomainError(err)
}
