// Package domain holds the error vocabulary shared by the auth screens and
// their HTTP layer.
package domain

import (
	"errors"
	"fmt"
	"sort"
)

// Application error codes
const (
	EINVALID     = "invalid"     // Invalid input or validation failure
	ENOTFOUND    = "not_found"   // Page, form or success screen does not exist
	EUNAVAILABLE = "unavailable" // Backend could not complete the request
	EINTERNAL    = "internal"    // Internal server error
)

// genericMessage replaces the message of any error whose details must not
// reach the client.
const genericMessage = "An internal error occurred. Please try again later."

// Error represents an application error with structured information.
type Error struct {
	Code    string // Machine-readable error code
	Op      string // Operation that failed (e.g., "authform.UpdateField")
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports a missing resource, e.g. an expired form instance.
func NotFound(op, resource, id string) *Error {
	return &Error{Code: ENOTFOUND, Op: op, Message: fmt.Sprintf("%s %q not found", resource, id)}
}

// Invalid reports bad input from the client.
func Invalid(op, message string) *Error {
	return &Error{Code: EINVALID, Op: op, Message: message}
}

// Unavailable wraps a failure reported by the submit backend.
func Unavailable(err error, op, message string) *Error {
	return &Error{Code: EUNAVAILABLE, Op: op, Message: message, Err: err}
}

// Internal wraps an unexpected failure. Its message is never shown to clients.
func Internal(err error, op, message string) *Error {
	return &Error{Code: EINTERNAL, Op: op, Message: message, Err: err}
}

// Description is the client-safe view of an error.
type Description struct {
	Code    string
	Op      string
	Message string
}

// Describe unpacks err for an HTTP response. Errors that carry no code are
// internal, and internal errors get a generic message.
func Describe(err error) Description {
	if err == nil {
		return Description{}
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return Description{Code: EINVALID, Op: ve.Op, Message: "Validation failed"}
	}

	var e *Error
	if !errors.As(err, &e) {
		return Description{Code: EINTERNAL, Message: genericMessage}
	}
	d := Description{Code: e.Code, Op: e.Op, Message: e.Message}
	if e.Code == EINTERNAL {
		d.Message = genericMessage
	}
	return d
}

// ErrorCode returns the code of err, or EINTERNAL if it carries none.
func ErrorCode(err error) string {
	return Describe(err).Code
}

// ValidationError collects field-level messages keyed by form field name.
type ValidationError struct {
	Op     string
	Fields map[string]string
}

// NewValidationError returns an empty ValidationError for op.
func NewValidationError(op string) *ValidationError {
	return &ValidationError{Op: op, Fields: make(map[string]string)}
}

// Add records message for field and returns e for chaining.
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Fields[field] = message
	return e
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid %v", e.Op, e.FieldNames())
}

// FieldNames returns the invalid field names in sorted order.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
