package httpx

import (
	"fmt"
	"net/http"
)

// Business error codes
const (
	// Success
	CodeSuccess = 0

	// Authentication/Authorization errors (1000-1099)
	CodeUnauthorized = 1001 // Not logged in / Token missing
	CodeInvalidToken = 1002 // Token invalid
	CodeTokenExpired = 1003 // Token expired
	CodePermission   = 1004 // Not deal owner and no elevated role

	// Validation errors (2000-2099)
	CodeValidation = 2001 // Malformed or out-of-range input

	// Resource errors (3000-3999)
	CodeNotFound = 3001 // Deal or stage absent

	// System errors (5000-5999)
	CodeInternalError = 5001 // Internal service error
	CodeTransaction   = 5002 // Infrastructure failure mid-transition, rolled back
)

// AppError represents an application error with HTTP status and business code
type AppError struct {
	HTTPStatus int         // HTTP status code
	Code       int         // Business error code
	Message    string      // User-facing error message
	Err        error       // Internal error (for logging only, not returned to client)
	Data       interface{} // Additional data (for detailed error information)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("code=%d, message=%s, err=%v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("code=%d, message=%s", e.Code, e.Message)
}

// Unwrap exposes the internal error for errors.Is/As chains
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithData adds additional data to the error
func (e *AppError) WithData(data interface{}) *AppError {
	e.Data = data
	return e
}

// NewAppError creates a new AppError
func NewAppError(httpStatus, code int, message string, err error) *AppError {
	return &AppError{
		HTTPStatus: httpStatus,
		Code:       code,
		Message:    message,
		Err:        err,
	}
}

// ErrUnauthorized creates a 401 unauthorized error
func ErrUnauthorized(message string) *AppError {
	if message == "" {
		message = "unauthorized"
	}
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, nil)
}

// ErrInvalidToken creates a 401 invalid token error
func ErrInvalidToken(message string) *AppError {
	if message == "" {
		message = "invalid token"
	}
	return NewAppError(http.StatusUnauthorized, CodeInvalidToken, message, nil)
}

// ErrTokenExpired creates a 401 token expired error
func ErrTokenExpired(message string) *AppError {
	if message == "" {
		message = "token expired"
	}
	return NewAppError(http.StatusUnauthorized, CodeTokenExpired, message, nil)
}

// ErrPermission creates a 403 error: the acting user is neither the deal's
// assigned user nor holds an elevated role. Rejected before any state change.
func ErrPermission(message string) *AppError {
	if message == "" {
		message = "permission denied"
	}
	return NewAppError(http.StatusForbidden, CodePermission, message, nil)
}

// ErrValidation creates a 400 error for malformed or out-of-range input,
// rejected before any mutation.
func ErrValidation(message string) *AppError {
	if message == "" {
		message = "invalid input"
	}
	return NewAppError(http.StatusBadRequest, CodeValidation, message, nil)
}

// ErrNotFound creates a 404 error for an absent deal or stage
func ErrNotFound(message string) *AppError {
	if message == "" {
		message = "resource not found"
	}
	return NewAppError(http.StatusNotFound, CodeNotFound, message, nil)
}

// ErrInternalError creates a 500 internal error
func ErrInternalError(message string, err error) *AppError {
	if message == "" {
		message = "internal error"
	}
	return NewAppError(http.StatusInternalServerError, CodeInternalError, message, err)
}

// ErrTransaction creates a 500 error for an infrastructure failure inside a
// transition transaction. The transaction has been rolled back in full.
func ErrTransaction(message string, err error) *AppError {
	if message == "" {
		message = "transaction failed"
	}
	return NewAppError(http.StatusInternalServerError, CodeTransaction, message, err)
}
