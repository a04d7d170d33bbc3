package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates a lost optimistic-concurrency race: the resource changed
// between read and write.
var ErrConflict = errors.New("resource was modified concurrently")

// ErrInternal indicates an infrastructure failure (database, lock service).
var ErrInternal = errors.New("internal error")

// ErrModuleDisabled indicates that the module owning the operation is switched off.
var ErrModuleDisabled = errors.New("module is disabled")

// AppError carries an HTTP-like status code alongside the underlying error.
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

// Is lets errors.Is(err, ErrInternal) match any server-side AppError.
func (e *AppError) Is(target error) bool {
	return target == ErrInternal && e.Code >= http.StatusInternalServerError
}
