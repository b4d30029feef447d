package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies domain errors so transports can map them consistently.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindInvalidState Kind = "invalid_state"
	KindProcessing   Kind = "processing"
)

// Common errors
var (
	ErrValidation   = &Error{kind: KindValidation, message: "validation failed"}
	ErrNotFound     = &Error{kind: KindNotFound, message: "not found"}
	ErrInvalidState = &Error{kind: KindInvalidState, message: "invalid state transition"}
	ErrProcessing   = &Error{kind: KindProcessing, message: "processing failed"}
)

// Error represents a standardized domain error
type Error struct {
	kind    Kind
	message string
	fields  map[string]string
	cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Message returns the message without the wrapped cause.
func (e *Error) Message() string {
	return e.message
}

// Kind returns the error classification.
func (e *Error) Kind() Kind {
	return e.kind
}

// Fields returns per-field validation details, if any.
func (e *Error) Fields() map[string]string {
	return e.fields
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.kind == t.kind
}

// Validation returns an error for a bad or missing reference or a malformed payload.
func Validation(message string, fields map[string]string) *Error {
	return &Error{kind: KindValidation, message: message, fields: fields}
}

// InvalidField returns a validation error for a single field.
func InvalidField(field string, reason string) *Error {
	return Validation(fmt.Sprintf("%s is invalid: %s", field, reason), map[string]string{field: reason})
}

// NotFound returns an error for items that were not found
func NotFound(resource string, id interface{}) *Error {
	return &Error{kind: KindNotFound, message: fmt.Sprintf("%s not found: %v", resource, id)}
}

// InvalidState returns an error for an illegal lifecycle transition.
func InvalidState(resource string, id interface{}, current, attempted fmt.Stringer) *Error {
	return &Error{
		kind:    KindInvalidState,
		message: fmt.Sprintf("%s %v: cannot move from %s to %s", resource, id, current, attempted),
	}
}

// Processing wraps a pipeline stage failure.
func Processing(stage string, cause error) *Error {
	return &Error{kind: KindProcessing, message: stage + " failed", cause: cause}
}

// KindOf returns the kind of the first domain error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.kind
	}
	return ""
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsInvalidState checks if an error is an illegal transition error
func IsInvalidState(err error) bool {
	return KindOf(err) == KindInvalidState
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}
