package errors

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// FieldError is a validation failure of a request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (f FieldError) String() string {
	return fmt.Sprintf("%s: %s", f.Field, f.Message)
}

// ErrorMessage is the message of *echo.HTTPError created in this package.
//
// It is rendered as "message" and "errors" of the response envelope.
type ErrorMessage struct {
	Message string
	Errors  []FieldError
	Cause   error
}

func (e ErrorMessage) String() string {
	lines := []string{e.Message}
	for _, f := range e.Errors {
		lines = append(lines, "  "+f.String())
	}
	if e.Cause != nil {
		lines = append(lines, fmt.Sprint(" caused by: ", e.Cause.Error()))
	}
	return strings.Join(lines, "\n")
}

func (e ErrorMessage) Error() string {
	return e.String()
}

func (e ErrorMessage) Unwrap() error {
	return e.Cause
}

type ErrorMessageOption func(in *ErrorMessage) *ErrorMessage

func WithError(err error) ErrorMessageOption {
	return func(in *ErrorMessage) *ErrorMessage {
		if err != nil {
			in.Cause = err
		}
		return in
	}
}

func WithFieldErrors(fields ...FieldError) ErrorMessageOption {
	return func(in *ErrorMessage) *ErrorMessage {
		in.Errors = append(in.Errors, fields...)
		return in
	}
}

func NewErrorMessage(code int, message string, opts ...ErrorMessageOption) *echo.HTTPError {
	msg := ErrorMessage{Message: message}
	for _, opt := range opts {
		msg = *opt(&msg)
	}

	return echo.NewHTTPError(code, msg).SetInternal(msg)
}

func BadRequest(message string, err error) *echo.HTTPError {
	return NewErrorMessage(http.StatusBadRequest, message, WithError(err))
}

// Validation is 400 "Validation failed" with messages per field.
func Validation(fields ...FieldError) *echo.HTTPError {
	return NewErrorMessage(
		http.StatusBadRequest, "Validation failed", WithFieldErrors(fields...),
	)
}

func Unauthorized(message string, err error) *echo.HTTPError {
	return NewErrorMessage(http.StatusUnauthorized, message, WithError(err))
}

func Forbidden(message string) *echo.HTTPError {
	return NewErrorMessage(http.StatusForbidden, message)
}

// = Forbidden("Access denied")
func AccessDenied() *echo.HTTPError {
	return Forbidden("Access denied")
}

func NotFound(message string) *echo.HTTPError {
	return NewErrorMessage(http.StatusNotFound, message)
}

func Conflict(message string, options ...ErrorMessageOption) *echo.HTTPError {
	return NewErrorMessage(http.StatusConflict, message, options...)
}

func InternalServerError(err error) *echo.HTTPError {
	return NewErrorMessage(
		http.StatusInternalServerError,
		"Internal Server Error",
		WithError(err),
	)
}

func ServiceUnavailable(message string, err error) *echo.HTTPError {
	return NewErrorMessage(http.StatusServiceUnavailable, message, WithError(err))
}
