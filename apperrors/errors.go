package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error represents an application error with an HTTP status attached.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithMessage returns a copy of e carrying a more specific message.
func (e *Error) WithMessage(message string) *Error {
	return &Error{Code: e.Code, Message: message, Err: e.Err}
}

// Authentication error types
var (
	ErrNotAuthenticated = New(http.StatusUnauthorized, "Not authenticated", nil)
	ErrSessionExpired   = New(http.StatusUnauthorized, "Session expired", nil)
	ErrInvalidToken     = New(http.StatusUnauthorized, "Invalid authentication token", nil)
	ErrForbidden        = New(http.StatusForbidden, "Forbidden", nil)
)

// Validation and upstream error types
var (
	ErrValidation  = New(http.StatusBadRequest, "Validation error", nil)
	ErrInvalidBody = New(http.StatusBadRequest, "Invalid request body", nil)
	ErrUpstream    = New(http.StatusBadGateway, "Platform API unavailable", nil)
)

// Validation builds a field-level validation error.
func Validation(message string) *Error {
	return New(http.StatusBadRequest, message, nil)
}

// Upstream wraps a platform API failure, preserving the upstream status and
// message when the failure is already an *Error.
func Upstream(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return New(http.StatusBadGateway, "Platform API unavailable", err)
}

// IsUnauthorized reports whether err carries a 401 status.
func IsUnauthorized(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Code == http.StatusUnauthorized
}

// IsCanceled reports whether err stems from a canceled or timed-out context.
// Aborted requests are non-errors: the caller went away.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Respond writes err as a JSON response. Canceled requests get no body; the
// client that asked is already gone.
func Respond(c *gin.Context, err error) {
	if IsCanceled(err) {
		c.Abort()
		return
	}

	var appErr *Error
	if !errors.As(err, &appErr) {
		appErr = New(http.StatusInternalServerError, "Internal server error", err)
	}
	c.AbortWithStatusJSON(appErr.Code, gin.H{"message": appErr.Message})
}
