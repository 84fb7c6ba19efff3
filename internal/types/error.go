package types

import (
	"errors"
	"fmt"
	"net/http"
)

// Error types reported in the "type" field of error responses.
const (
	ErrTypeValidation     = "validation"
	ErrTypeAuthentication = "authentication"
	ErrTypeForbidden      = "forbidden"
	ErrTypeNotFound       = "not_found"
	ErrTypeConflict       = "conflict"
	ErrTypeUpstream       = "upstream"
	ErrTypeInternal       = "internal"
)

// CustomError carries an HTTP status, a client-facing message and an error type.
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Err     error  `json:"-"`
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d: %s [type: %s]: %v", e.Code, e.Message, e.Type, e.Err)
	}
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithErr attaches the underlying cause, kept for logs only.
func (e *CustomError) WithErr(err error) *CustomError {
	e.Err = err
	return e
}

func BadRequest(format string, args ...any) *CustomError {
	return &CustomError{Code: http.StatusBadRequest, Message: fmt.Sprintf(format, args...), Type: ErrTypeValidation}
}

func Unauthorized(message string) *CustomError {
	return &CustomError{Code: http.StatusUnauthorized, Message: message, Type: ErrTypeAuthentication}
}

func Forbidden(format string, args ...any) *CustomError {
	return &CustomError{Code: http.StatusForbidden, Message: fmt.Sprintf(format, args...), Type: ErrTypeForbidden}
}

func NotFound(format string, args ...any) *CustomError {
	return &CustomError{Code: http.StatusNotFound, Message: fmt.Sprintf(format, args...), Type: ErrTypeNotFound}
}

func Conflict(format string, args ...any) *CustomError {
	return &CustomError{Code: http.StatusConflict, Message: fmt.Sprintf(format, args...), Type: ErrTypeConflict}
}

func Upstream(err error, format string, args ...any) *CustomError {
	return &CustomError{Code: http.StatusBadGateway, Message: fmt.Sprintf(format, args...), Type: ErrTypeUpstream, Err: err}
}

// Internal wraps an unexpected failure. The underlying error is kept for logs
// and never rendered to the client.
func Internal(err error) *CustomError {
	return &CustomError{Code: http.StatusInternalServerError, Message: "Internal server error", Type: ErrTypeInternal, Err: err}
}

// AsCustomError returns err as a *CustomError, wrapping anything else as Internal.
func AsCustomError(err error) *CustomError {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce
	}
	return Internal(err)
}

// IsType reports whether err is a CustomError of the given type.
func IsType(err error, errType string) bool {
	var ce *CustomError
	return errors.As(err, &ce) && ce.Type == errType
}
