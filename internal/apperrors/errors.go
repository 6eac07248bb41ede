package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	InvalidFormat   Kind = "INVALID_FORMAT"
	Validation      Kind = "VALIDATION_ERROR"
	BadRequest      Kind = "BAD_REQUEST"
	NotFound        Kind = "NOT_FOUND"
	Unauthorized    Kind = "UNAUTHORIZED"
	Conflict        Kind = "CONFLICT"
	TooManyAttempts Kind = "TOO_MANY_ATTEMPTS"
	Internal        Kind = "INTERNAL_ERROR"
)

// MsgResourceNotFound is returned when a relation that must exist is missing.
const MsgResourceNotFound = "We dont found the recourse that you searching. Please, contact support."

// Error is the error type returned across service boundaries.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s [%s]: %s -> %v", e.Kind, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Kind, e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode maps the error kind to an HTTP status class.
func (e *Error) StatusCode() int {
	return StatusCodeFor(e.Kind)
}

func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

func Wrap(kind Kind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

func NewValidation(op, message string) *Error {
	return New(Validation, op, message)
}

func NewBadRequest(op, message string) *Error {
	return New(BadRequest, op, message)
}

func NewNotFound(op, message string) *Error {
	return New(NotFound, op, message)
}

func NewUnauthorized(op, message string) *Error {
	return New(Unauthorized, op, message)
}

func NewConflict(op, message string) *Error {
	return New(Conflict, op, message)
}

func NewInternal(op, message string, err error) *Error {
	return Wrap(Internal, op, message, err)
}

// WrapInternal passes application errors through untouched and turns
// anything else into an Internal error.
func WrapInternal(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	return NewInternal(op, "internal server error", err)
}

// KindOf returns the kind of the first *Error in the chain, or Internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}

func Is(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}

func StatusCodeFor(kind Kind) int {
	switch kind {
	case InvalidFormat, Validation, BadRequest, TooManyAttempts:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Unauthorized:
		return http.StatusUnauthorized
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Response is the caller-facing rendering of an error. Cause is only
// populated outside production.
type Response struct {
	Message    string `json:"message"`
	ErrorType  Kind   `json:"errorType"`
	StatusCode int    `json:"statusCode"`
	Cause      string `json:"cause,omitempty"`
}

func ToResponse(err error, production bool) Response {
	kind := KindOf(err)
	resp := Response{
		Message:    MessageOf(err),
		ErrorType:  kind,
		StatusCode: StatusCodeFor(kind),
	}
	if !production {
		resp.Cause = err.Error()
	}
	return resp
}
