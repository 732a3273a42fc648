package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Exception is an error that carries the HTTP status it should surface as.
type Exception struct {
	Message    string
	StatusCode int
}

func (e *Exception) Error() string {
	return e.Message
}

// Sentinels for the four error classes the API distinguishes.
var (
	ErrValidation = &Exception{Message: "invalid input", StatusCode: http.StatusBadRequest}
	ErrAuth       = &Exception{Message: "invalid or missing credentials", StatusCode: http.StatusUnauthorized}
	ErrForbidden  = &Exception{Message: "you do not have permission to perform this action", StatusCode: http.StatusForbidden}
	ErrNotFound   = &Exception{Message: "not found", StatusCode: http.StatusNotFound}
)

// Validation returns a 400 error with a caller-supplied message.
func Validation(format string, args ...any) error {
	return &Exception{Message: fmt.Sprintf(format, args...), StatusCode: http.StatusBadRequest}
}

// Forbidden returns a 403 error with a caller-supplied message.
func Forbidden(message string) error {
	return &Exception{Message: message, StatusCode: http.StatusForbidden}
}

// NotFound returns a 404 error naming the missing resource.
func NotFound(resource string) error {
	return &Exception{Message: resource + " not found", StatusCode: http.StatusNotFound}
}

// StatusCode maps an error to the HTTP status it should be reported with.
// Errors outside the taxonomy are treated as internal.
func StatusCode(err error) int {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// Is reports whether err belongs to the same error class as target. Exceptions
// compare by status code so wrapped, message-bearing instances still match
// their sentinel.
func Is(err error, target *Exception) bool {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode == target.StatusCode
	}
	return false
}
