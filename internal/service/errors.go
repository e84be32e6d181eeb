package service

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrOrderForbidden  = errors.New("order does not belong to user")
	ErrOrderNotPending = errors.New("order is not pending")
	ErrSelfFollow      = errors.New("cannot follow yourself")
)

// ValidationError reports why a cart failed checkout validation. Callers
// branch on the presence of this type rather than parsing messages.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewValidationError builds a ValidationError.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// RateLimitedError reports an exhausted toggle budget and when to retry.
type RateLimitedError struct {
	RetryAfterSeconds int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry after %d seconds", e.RetryAfterSeconds)
}

// GatewayError wraps a payment gateway failure. Message carries a
// caller-safe summary; Err keeps the underlying cause for logs.
type GatewayError struct {
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	return e.Message
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
