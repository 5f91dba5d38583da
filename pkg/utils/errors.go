package utils

import (
	"errors"
	"net/http"
)

// AppError is a service-level failure that already knows its HTTP status.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func ErrBadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, nil)
}

func ErrUnauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, message, nil)
}

// ErrPaymentRequired is returned at login for deactivated accounts.
func ErrPaymentRequired(message string) *AppError {
	return NewAppError(http.StatusPaymentRequired, message, nil)
}

func ErrForbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, message, nil)
}

func ErrNotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, nil)
}

func ErrConflict(message string) *AppError {
	return NewAppError(http.StatusConflict, message, nil)
}

func ErrUnprocessable(message string) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, message, nil)
}

func ErrInternal(message string, err error) *AppError {
	return NewAppError(http.StatusInternalServerError, message, err)
}

// StatusOf returns the HTTP status carried by err, or 500.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
