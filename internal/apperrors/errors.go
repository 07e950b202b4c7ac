package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed a business rule check.
// No side effects have occurred when this is returned.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConcurrencyConflict indicates the entity's latest settings pointer moved between
// read and commit. Callers should retry the whole stage/validate/commit cycle.
var ErrConcurrencyConflict = errors.New("concurrent settings commit detected")

// ErrPersistence indicates a storage failure during an atomic commit.
// The transaction was rolled back; no partial commit is observable.
var ErrPersistence = errors.New("persistence failure")

// ErrProgramming signals a caller contract violation, such as bulk-mutating
// settings records or re-persisting an already committed snapshot. It is not
// meant to be caught by business logic.
var ErrProgramming = errors.New("programming error")

// AppError carries an error code and message around a lower-level error.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is maps storage-layer AppErrors (code >= 500) onto ErrPersistence so callers
// can classify commit failures without inspecting codes.
func (e *AppError) Is(target error) bool {
	return target == ErrPersistence && e.Code >= 500
}

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates a not-found AppError.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
