// Package apperr carries the error taxonomy used at service boundaries.
// Services create typed errors, handlers map them to an HTTP status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindValidation Kind = iota
	KindAuthorization
	KindNotFound
	KindConflict
	KindPersistence
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(format string, v ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, v...)}
}

func Authorization(format string, v ...any) error {
	return &Error{Kind: KindAuthorization, Msg: fmt.Sprintf(format, v...)}
}

func NotFound(format string, v ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, v...)}
}

func Conflict(format string, v ...any) error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, v...)}
}

// Persistence wraps a backing store failure.
func Persistence(err error, format string, v ...any) error {
	return &Error{Kind: KindPersistence, Msg: fmt.Sprintf(format, v...), Err: err}
}

func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// HTTPStatus maps an error to the status code written at the API boundary.
// Untyped errors count as persistence failures.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
