package errs

import (
	"fmt"
	"strings"
)

// ValidationError collects human-readable field violations found in a request.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + strings.Join(e.Violations, "; ")
}

func Validation(violations ...string) *ValidationError {
	return &ValidationError{Violations: violations}
}

// NotFoundError signals that a referenced entity is absent or inactive.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

func NotFoundf(format string, args ...any) *NotFoundError {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

// ConflictError signals a uniqueness violation (duplicate email, duplicate review).
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// InsufficientStockError reports a stock shortfall for one order line.
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d (%s): requested %d, available %d",
		e.ProductID, e.ProductName, e.Requested, e.Available)
}

// AuthError signals a missing, invalid or expired credential.
type AuthError struct {
	Msg string
}

func (e *AuthError) Error() string { return e.Msg }
