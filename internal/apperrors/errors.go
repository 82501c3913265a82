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

// ErrForbidden indicates that the caller lacks the capability for the requested operation.
var ErrForbidden = errors.New("operation forbidden")

// ErrInvalidTransition indicates a state machine precondition was violated.
var ErrInvalidTransition = errors.New("invalid state transition")

// ErrConflictingSettlement indicates a confirmation carried a settlement
// reference different from the one already recorded.
var ErrConflictingSettlement = errors.New("conflicting settlement reference")

// ErrInsufficientFunds indicates a milestone release would exceed the raised amount.
var ErrInsufficientFunds = errors.New("insufficient raised funds")

// ErrLedgerUnderflow indicates a refund would drive the raised amount below
// zero. This signals a prior invariant breach; callers must log it at high
// severity rather than clamp.
var ErrLedgerUnderflow = errors.New("ledger underflow")

// ErrMissingReason indicates a rejection without the mandatory justification.
var ErrMissingReason = errors.New("reason is required")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// AppError wraps an underlying error with an HTTP-ish status code and context.
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

// NewAppError creates an AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that unwraps to ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
