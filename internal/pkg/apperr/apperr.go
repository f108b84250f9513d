// internal/pkg/apperr/apperr.go
//
// Package apperr defines the failure taxonomy shared by every domain
// service. Services return *apperr.Error values (usually wrapped with
// fmt.Errorf and %w); the HTTP layer unwraps them with errors.As and maps
// the code to a status. Anything that is not an *apperr.Error is treated
// as an unexpected internal failure.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a failure class.
type Code string

const (
	CodeNotFound           Code = "NOT_FOUND"
	CodeValidationFailed   Code = "VALIDATION_FAILED"
	CodeOutOfStock         Code = "OUT_OF_STOCK"
	CodeEmptyCart          Code = "EMPTY_CART"
	CodeLineCapExceeded    Code = "LINE_CAP_EXCEEDED"
	CodeIntegrityViolation Code = "INTEGRITY_VIOLATION"
)

// Error is a classified, user-facing failure.
type Error struct {
	Code    Code
	Message string

	// VariantID is set for OUT_OF_STOCK so callers can tell which line
	// of a multi-item demand failed.
	VariantID uint
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// HTTPStatus returns the response status for the error code.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidationFailed, CodeLineCapExceeded, CodeEmptyCart:
		return http.StatusBadRequest
	case CodeOutOfStock:
		return http.StatusConflict
	case CodeIntegrityViolation:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Expected reports whether the error is a normal user-facing condition.
// Unexpected errors (integrity violations) are logged and alerted
// differently at the boundary.
func (e *Error) Expected() bool {
	return e.Code != CodeIntegrityViolation
}

// NotFound builds a NOT_FOUND error for a named resource.
func NotFound(resource string, id uint) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %d not found", resource, id),
	}
}

// ValidationFailed builds a VALIDATION_FAILED error.
func ValidationFailed(format string, args ...interface{}) *Error {
	return &Error{
		Code:    CodeValidationFailed,
		Message: fmt.Sprintf(format, args...),
	}
}

// OutOfStock builds an OUT_OF_STOCK error naming the offending variant.
func OutOfStock(variantID uint, available int, requested int) *Error {
	return &Error{
		Code:      CodeOutOfStock,
		VariantID: variantID,
		Message: fmt.Sprintf("insufficient stock for variant %d: available %d, requested %d",
			variantID, available, requested),
	}
}

// EmptyCart builds an EMPTY_CART error.
func EmptyCart() *Error {
	return &Error{
		Code:    CodeEmptyCart,
		Message: "cart is empty",
	}
}

// LineCapExceeded builds a LINE_CAP_EXCEEDED error.
func LineCapExceeded(cap int, requested int) *Error {
	return &Error{
		Code:    CodeLineCapExceeded,
		Message: fmt.Sprintf("line quantity %d exceeds the per-line cap of %d", requested, cap),
	}
}

// IntegrityViolation builds an INTEGRITY_VIOLATION error. These indicate a
// broken data precondition the schema should have guaranteed and are never
// retried.
func IntegrityViolation(format string, args ...interface{}) *Error {
	return &Error{
		Code:    CodeIntegrityViolation,
		Message: fmt.Sprintf(format, args...),
	}
}

// From extracts an *Error from err's wrap chain, or nil.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsCode reports whether err carries the given code anywhere in its chain.
func IsCode(err error, code Code) bool {
	appErr := From(err)
	return appErr != nil && appErr.Code == code
}
