// Package apperr holds the typed errors shared by the services and the HTTP
// layer. The router maps a Kind to a status code so handlers can simply
// return the error.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindUnknown Kind = iota
	// KindFetch: the remote catalog could not be reached or decoded.
	KindFetch
	// KindPersistence: constraint violation or lost connectivity at the store.
	KindPersistence
	KindNotFound
	KindBadRequest
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindFetch:
		return "fetch"
	case KindPersistence:
		return "persistence"
	case KindNotFound:
		return "not_found"
	case KindBadRequest:
		return "bad_request"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is a domain error with a Kind used for HTTP mapping.
type Error struct {
	Kind    Kind
	Message string
	Op      string // operation that failed, optional
	Err     error  // underlying cause, optional
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus returns the status code the HTTP layer answers with.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindFetch:
		return http.StatusBadGateway
	case KindNotFound:
		return http.StatusNotFound
	case KindBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WithOp sets the failing operation and returns the same error.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Fetch(message string, err error) *Error       { return Wrap(KindFetch, message, err) }
func Persistence(message string, err error) *Error { return Wrap(KindPersistence, message, err) }
func NotFound(message string) *Error               { return New(KindNotFound, message) }
func BadRequest(message string) *Error             { return New(KindBadRequest, message) }
func Internal(message string, err error) *Error    { return Wrap(KindInternal, message, err) }

// GetKind returns the Kind of the first *Error in err's chain.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}
