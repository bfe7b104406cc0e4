// Package errors defines the error taxonomy of the task API and the helpers
// used to classify errors into HTTP responses.
//
// There are four kinds of failure:
//   - *ValidationError: a payload failed its rule set (field-level detail)
//   - ErrUnauthorized: the session credential is absent, invalid or stale
//   - *ResponseError: a business rule rejected the request (status, message, reason)
//   - anything else: unhandled, reported as a generic internal error
//
// Errors are raised where they are detected and travel unmodified to a single
// formatting step in the handlers package.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

var (
	// ErrUnauthorized indicates that the request carries no usable session.
	ErrUnauthorized = New("access denied")
	// ErrMalformedBody indicates that the request body is not a JSON object.
	ErrMalformedBody = New("malformed request body")
)

// FieldIssue is a single rule violation on one payload field.
type FieldIssue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError reports every rule violation found in a payload, in
// schema order.
type ValidationError struct {
	Issues []FieldIssue
}

// NewValidationError creates a ValidationError from the given issues.
func NewValidationError(issues []FieldIssue) *ValidationError {
	return &ValidationError{Issues: issues}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.Path+": "+issue.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ResponseError is a business-rule rejection with the HTTP status it maps to.
type ResponseError struct {
	Status  int
	Message string
	Reason  string
}

// NewResponseError creates a ResponseError.
func NewResponseError(status int, message, reason string) *ResponseError {
	return &ResponseError{Status: status, Message: message, Reason: reason}
}

// NotFound creates a 404 rejection.
func NotFound(message, reason string) *ResponseError {
	return NewResponseError(http.StatusNotFound, message, reason)
}

// InvalidArgument creates a 400 rejection for a malformed query argument.
func InvalidArgument(message, reason string) *ResponseError {
	return NewResponseError(http.StatusBadRequest, message, reason)
}

// Rejected creates a 400 rejection for a request that breaks a business rule.
func Rejected(message, reason string) *ResponseError {
	return NewResponseError(http.StatusBadRequest, message, reason)
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Message, e.Reason)
}

// IsUserFacing reports whether err carries a message that is safe to show to
// clients. Unhandled errors are not.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	var ve *ValidationError
	var re *ResponseError
	return As(err, &ve) || As(err, &re) || Is(err, ErrUnauthorized) || Is(err, ErrMalformedBody)
}
