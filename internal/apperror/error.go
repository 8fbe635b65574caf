package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a business error so handlers can map it to a
// transport status without string matching.
type Kind int

const (
	KindValidation  Kind = iota // bad input, never retried
	KindNotFound                // row absent or not owned by caller
	KindPolicy                  // operation blocked by a business rule
	KindConsistency             // store rejected an atomic multi-row write
)

// Error is a business error safe to show to the caller.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status maps the error kind to an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindPolicy:
		return http.StatusConflict
	case KindConsistency:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// Validation creates a validation error.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Validationf creates a validation error with formatting.
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a not-found error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Policy creates a policy error (deletion blocked by references etc.).
func Policy(message string) *Error {
	return &Error{Kind: KindPolicy, Message: message}
}

// Consistency wraps a store failure of an atomic multi-row write.
func Consistency(message string, err error) *Error {
	return &Error{Kind: KindConsistency, Message: message, Err: err}
}

// As extracts an *Error from an error chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}
