package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies application errors for callers and HTTP mapping
type ErrorKind string

const (
	KindValidation        ErrorKind = "validation_error"
	KindUnauthorized      ErrorKind = "unauthorized"
	KindForbidden         ErrorKind = "forbidden"
	KindNotFound          ErrorKind = "not_found"
	KindInsufficientFunds ErrorKind = "insufficient_funds"
	KindInsufficientStock ErrorKind = "insufficient_stock"
	KindAlreadyProcessed  ErrorKind = "already_processed"
	KindExpired           ErrorKind = "expired"
	KindLimitReached      ErrorKind = "limit_reached"
	KindMinimumNotMet     ErrorKind = "minimum_not_met"
	KindUpstream          ErrorKind = "upstream_failure"
)

var kindStatus = map[ErrorKind]int{
	KindValidation:        http.StatusBadRequest,
	KindUnauthorized:      http.StatusUnauthorized,
	KindForbidden:         http.StatusForbidden,
	KindNotFound:          http.StatusNotFound,
	KindInsufficientFunds: http.StatusPaymentRequired,
	KindInsufficientStock: http.StatusConflict,
	KindAlreadyProcessed:  http.StatusConflict,
	KindExpired:           http.StatusBadRequest,
	KindLimitReached:      http.StatusBadRequest,
	KindMinimumNotMet:     http.StatusBadRequest,
	KindUpstream:          http.StatusInternalServerError,
}

// GenericFailureMessage is shown to users instead of internal error text
const GenericFailureMessage = "Something went wrong. Please try again later."

// AppError represents an application error
type AppError struct {
	Code    int       `json:"code"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError of the given kind
func NewAppError(kind ErrorKind, message string, err error) *AppError {
	code, ok := kindStatus[kind]
	if !ok {
		code = http.StatusInternalServerError
	}
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// ValidationErr creates a user-correctable input error
func ValidationErr(message string) *AppError {
	return NewAppError(KindValidation, message, nil)
}

// UnauthorizedErr creates a missing-session error
func UnauthorizedErr(message string) *AppError {
	return NewAppError(KindUnauthorized, message, nil)
}

// ForbiddenErr creates a wrong-role error
func ForbiddenErr(message string) *AppError {
	return NewAppError(KindForbidden, message, nil)
}

// NotFoundErr creates a missing-entity error
func NotFoundErr(message string) *AppError {
	return NewAppError(KindNotFound, message, nil)
}

// UpstreamErr wraps a store or storage failure. The message stays generic.
func UpstreamErr(err error) *AppError {
	return NewAppError(KindUpstream, GenericFailureMessage, err)
}

// GetAppError returns the AppError in err's chain, if any
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsKind reports whether err carries the given kind. errors.Is compares
// sentinel identity, so two errors of one kind stay distinguishable.
func IsKind(err error, kind ErrorKind) bool {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Kind == kind
	}
	return false
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
