package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInactive indicates a mutation was attempted on a deactivated wallet.
var ErrInactive = errors.New("wallet is inactive")

// ErrInsufficientFunds indicates the wallet balance cannot cover amount plus fee.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrInvalidTransition indicates a donation status change that the transition table forbids.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrServiceUnavailable indicates every upstream dependency for an operation failed.
var ErrServiceUnavailable = errors.New("service unavailable")

// AppError carries an HTTP-ish status code alongside an underlying infrastructure error.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError wraps err with a status code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}
