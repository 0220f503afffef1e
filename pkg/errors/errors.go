package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the error type every layer hands back to the HTTP layer.
//   - Code is the business code the client switches on.
//   - Message is safe to show to end users.
//   - Err is the internal cause; it is logged but never serialized.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap supports errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the business code class onto an HTTP status.
func (e *AppError) HTTPStatus() int {
	switch {
	case e.Code == ErrCodeForbidden:
		return http.StatusForbidden
	case e.Code >= 40100 && e.Code < 40200:
		return http.StatusUnauthorized
	case e.Code >= 40400 && e.Code < 40500:
		return http.StatusNotFound
	case e.Code == ErrCodeDuplicateEntry, e.Code == ErrCodeEmailDuplicate:
		return http.StatusConflict
	case e.Code >= 40000 && e.Code < 41000:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// New creates an AppError without an internal cause.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap hides a system error (database, network) behind an internal error code.
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// =========================================
// Error codes
// =========================================
// - 4xxxx: client errors (bad params, business rule violations)
// - 5xxxx: server errors (database, cache, broker)

const (
	// System (50000-50099)
	ErrCodeInternal      = 50000
	ErrCodeDatabaseError = 50001
	ErrCodeRedisError    = 50002

	// Authentication / authorization (40100-40199)
	ErrCodeUnauthorized    = 40100
	ErrCodeInvalidToken    = 40101
	ErrCodeTokenExpired    = 40102
	ErrCodeInvalidPassword = 40103
	ErrCodeForbidden       = 40104

	// Missing resources (40400-40499)
	ErrCodeNotFound     = 40400
	ErrCodeUserNotFound = 40401
	ErrCodeBookNotFound = 40402

	// Business rules (40000-40099)
	ErrCodeBusinessError  = 40000
	ErrCodeInvalidRating  = 40001
	ErrCodeEmptyComment   = 40002
	ErrCodeEmailDuplicate = 40003
	ErrCodeWeakPassword   = 40005
	ErrCodeDuplicateEntry = 40009

	// Parameters (40900-40999)
	ErrCodeInvalidParams = 40900
	ErrCodeBindError     = 40901
)

var (
	ErrInternal      = New(ErrCodeInternal, "internal server error")
	ErrDatabaseError = New(ErrCodeDatabaseError, "database error")
	ErrRedisError    = New(ErrCodeRedisError, "cache service error")

	ErrUnauthorized    = New(ErrCodeUnauthorized, "please log in first")
	ErrInvalidToken    = New(ErrCodeInvalidToken, "invalid token")
	ErrTokenExpired    = New(ErrCodeTokenExpired, "token has expired")
	ErrTokenRevoked    = New(ErrCodeTokenExpired, "token has been revoked, please log in again")
	ErrInvalidPassword = New(ErrCodeInvalidPassword, "incorrect email or password")
	ErrForbidden       = New(ErrCodeForbidden, "you are not allowed to do this")

	ErrUserNotFound = New(ErrCodeUserNotFound, "user not found")

	ErrEmailDuplicate = New(ErrCodeEmailDuplicate, "email is already registered")
	ErrWeakPassword   = New(ErrCodeWeakPassword, "password must be 8-20 characters and contain letters and digits")

	ErrInvalidParams = New(ErrCodeInvalidParams, "invalid parameters")
	ErrBindError     = New(ErrCodeBindError, "malformed request body")
)

// IsAppError reports whether err carries an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts the AppError, wrapping anything else as internal.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "internal server error")
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code int) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}
