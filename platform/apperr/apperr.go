// Package apperr defines the typed errors services hand to the HTTP layer.
// A Kind decides both the status code and the machine-readable code clients
// switch on.
package apperr

import (
	"errors"
	"net/http"
)

// Kind is the category of an error.
type Kind int

const (
	KindUnknown Kind = iota
	KindBadRequest
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindTooManyRequests
	// KindUnprocessable is well-formed input that cannot be acted on, such as
	// an address without a house number.
	KindUnprocessable
	KindInternal
	// KindUnavailable is a transient failure; the caller may retry.
	KindUnavailable
)

var kinds = map[Kind]struct {
	code   string
	status int
}{
	KindBadRequest:      {"bad_request", http.StatusBadRequest},
	KindValidation:      {"validation_failed", http.StatusBadRequest},
	KindUnauthorized:    {"unauthorized", http.StatusUnauthorized},
	KindForbidden:       {"forbidden", http.StatusForbidden},
	KindNotFound:        {"not_found", http.StatusNotFound},
	KindTooManyRequests: {"rate_limited", http.StatusTooManyRequests},
	KindUnprocessable:   {"unprocessable", http.StatusUnprocessableEntity},
	KindInternal:        {"internal", http.StatusInternalServerError},
	KindUnavailable:     {"unavailable", http.StatusServiceUnavailable},
}

// String returns the wire code of the kind.
func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.code
	}
	return "unknown"
}

// Status returns the HTTP status of the kind. Unknown kinds map to 500.
func (k Kind) Status() int {
	if info, ok := kinds[k]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// Error is an error with a Kind and an optional payload for the response body.
type Error struct {
	Kind    Kind
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the status code the error is rendered with.
func (e *Error) HTTPStatus() int {
	return e.Kind.Status()
}

// WithDetails attaches a response payload and returns e.
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap keeps err as the cause. Only message reaches the client.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func BadRequest(message string) *Error      { return New(KindBadRequest, message) }
func Validation(message string) *Error      { return New(KindValidation, message) }
func Unauthorized(message string) *Error    { return New(KindUnauthorized, message) }
func Forbidden(message string) *Error       { return New(KindForbidden, message) }
func NotFound(message string) *Error        { return New(KindNotFound, message) }
func TooManyRequests(message string) *Error { return New(KindTooManyRequests, message) }
func Unprocessable(message string) *Error   { return New(KindUnprocessable, message) }
func Internal(message string) *Error        { return New(KindInternal, message) }
func Unavailable(message string) *Error     { return New(KindUnavailable, message) }

// GetKind returns the Kind of the first *Error in err's chain, or KindUnknown.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err's chain holds an *Error of the given kind.
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}
