package apierrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error into one of the closed set of failure
// categories the API can report. Every error crossing a handler
// boundary carries exactly one kind.
type Kind string

const (
	KindValidation      Kind = "VALIDATION_ERROR"
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindNotFound        Kind = "NOT_FOUND"
	KindConflict        Kind = "CONFLICT"
	KindUpstream        Kind = "UPSTREAM_ERROR"
)

// Error is a classified API error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation reports a missing or malformed request field.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Unauthenticated reports a request on behalf of an unknown identity.
func Unauthenticated(message string) *Error {
	if message == "" {
		message = "authentication required"
	}
	return &Error{Kind: KindUnauthenticated, Message: message}
}

// NotFound reports an absent referenced entity.
func NotFound(message string) *Error {
	if message == "" {
		message = "resource not found"
	}
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict reports a state conflict such as a duplicate submission.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Upstream wraps a failed database or identity-provider call.
func Upstream(message string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: message, Err: err}
}

// KindOf extracts the kind from err, defaulting to KindUpstream for
// unclassified errors so unknown failures surface as 500s.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUpstream
}

// StatusCode maps an error to its HTTP status. This is the single
// boundary translator: handlers never pick status codes themselves.
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to return to clients. Wrapped
// upstream causes stay server-side.
func PublicMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "an unexpected error occurred"
}
