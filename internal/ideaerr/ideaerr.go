package ideaerr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a class of failure in the enrichment pipeline.
type Code string

const (
	CodeNotFound           Code = "NOT_FOUND"           // 404
	CodePreconditionFailed Code = "PRECONDITION_FAILED" // 400
	CodeInvalidRequest     Code = "INVALID_REQUEST"     // 400
	CodeAdapterFatal       Code = "ADAPTER_FATAL"       // 500
	CodeInternal           Code = "INTERNAL"            // 500
)

// Error is a coded error carrying the HTTP status it maps to.
type Error struct {
	Code    Code
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// NewNotFound creates a 404 error for a missing or non-owned idea.
func NewNotFound() *Error {
	return &Error{
		Code:    CodeNotFound,
		Status:  http.StatusNotFound,
		Message: "Idea not found.",
	}
}

// NewPreconditionFailed creates a 400 error for a transition invoked before
// its prerequisite state.
func NewPreconditionFailed(msg string) *Error {
	return &Error{
		Code:    CodePreconditionFailed,
		Status:  http.StatusBadRequest,
		Message: msg,
	}
}

// NewInvalidRequest creates a 400 error for a malformed request payload.
func NewInvalidRequest(msg string) *Error {
	return &Error{
		Code:    CodeInvalidRequest,
		Status:  http.StatusBadRequest,
		Message: msg,
	}
}

// NewAdapterFatal creates a 500 error for a provider failure that is not rate
// limiting: malformed responses, outages, missing credentials.
func NewAdapterFatal(msg string, cause error) *Error {
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return &Error{
		Code:    CodeAdapterFatal,
		Status:  http.StatusInternalServerError,
		Message: msg,
		cause:   cause,
	}
}

// NewInternal wraps an unexpected error as a 500.
func NewInternal(err error) *Error {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &Error{
		Code:    CodeInternal,
		Status:  http.StatusInternalServerError,
		Message: msg,
		cause:   err,
	}
}

// Is checks if an error carries the given code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// StatusOf returns the HTTP status for an error, defaulting to 500.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}
