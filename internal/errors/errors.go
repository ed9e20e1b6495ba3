// Package errors provides structured error handling with error codes
// for consistent HTTP status mapping across the API.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an error for transport mapping.
type Code string

const (
	CodeNotFound           Code = "NOT_FOUND"
	CodeAlreadyExists      Code = "ALREADY_EXISTS"
	CodeInvalidInput       Code = "INVALID_INPUT"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeForbidden          Code = "FORBIDDEN"
	CodeUpstream           Code = "UPSTREAM_ERROR"
	CodeInternal           Code = "INTERNAL_ERROR"
)

// Error is a structured error carrying a classification code, a
// client-safe message, and an optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error code to an HTTP status code.
//
// AlreadyExists and InvalidCredentials both map to 400 rather than the
// more conventional 409/401: clients depend on these statuses.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyExists, CodeInvalidInput, CodeInvalidCredentials:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// New creates a new Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a new Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new Error wrapping an underlying cause.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// NotFound creates a NOT_FOUND error.
func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

// AlreadyExists creates an ALREADY_EXISTS error.
func AlreadyExists(message string) *Error {
	return New(CodeAlreadyExists, message)
}

// InvalidInput creates an INVALID_INPUT error.
func InvalidInput(message string) *Error {
	return New(CodeInvalidInput, message)
}

// InvalidCredentials creates an INVALID_CREDENTIALS error.
func InvalidCredentials(message string) *Error {
	return New(CodeInvalidCredentials, message)
}

// Unauthorized creates an UNAUTHORIZED error.
func Unauthorized(message string) *Error {
	return New(CodeUnauthorized, message)
}

// Forbidden creates a FORBIDDEN error.
func Forbidden(message string) *Error {
	return New(CodeForbidden, message)
}

// Internal creates an INTERNAL_ERROR wrapping the cause.
func Internal(err error, message string) *Error {
	return Wrap(err, CodeInternal, message)
}

// Upstream creates an UPSTREAM_ERROR wrapping a failure from an external
// service such as the object store or speech synthesizer.
func Upstream(err error, message string) *Error {
	return Wrap(err, CodeUpstream, message)
}

// As extracts a structured *Error from an error chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	if e, ok := As(err); ok {
		return e.Code == code
	}
	return false
}
