package result

import (
	"context"
	"errors"
	"fmt"
)

// Status discriminates the two variants of a Result.
type Status string

const (
	// StatusOK marks a successful Result carrying data.
	StatusOK Status = "ok"

	// StatusError marks a failed Result carrying a message and optional code.
	StatusError Status = "error"
)

// Code classifies expected failure categories.
type Code string

const (
	// CodeValidation means the payload failed a pure precondition check.
	// State is never mutated for validation failures.
	CodeValidation Code = "VALIDATION"

	// CodeNotFound means a referenced identifier is absent from state.
	CodeNotFound Code = "NOT_FOUND"

	// CodeExternal means an underlying side-effecting call failed.
	CodeExternal Code = "EXTERNAL"

	// CodeCanceled means the caller abandoned the operation before the
	// mutation step.
	CodeCanceled Code = "CANCELED"
)

// Result is a discriminated success/failure value. Actions return Results
// instead of throwing: expected domain failures ride in the error variant,
// and callers branch on OK(). Exactly one variant is populated.
type Result[T any] struct {
	Status  Status `json:"status"`
	Data    T      `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Code    Code   `json:"code,omitempty"`
}

// Ok returns a success Result carrying data.
func Ok[T any](data T) Result[T] {
	return Result[T]{Status: StatusOK, Data: data}
}

// Err returns a failure Result with the given code and message.
func Err[T any](code Code, message string) Result[T] {
	return Result[T]{Status: StatusError, Code: code, Message: message}
}

// Errf returns a failure Result with a formatted message.
func Errf[T any](code Code, format string, args ...any) Result[T] {
	return Err[T](code, fmt.Sprintf(format, args...))
}

// OK reports whether the Result is the success variant.
func (r Result[T]) OK() bool {
	return r.Status == StatusOK
}

// Err returns nil for a success Result, or an *Error describing the failure.
func (r Result[T]) Err() error {
	if r.Status == StatusOK {
		return nil
	}
	return &Error{Code: r.Code, Message: r.Message}
}

// Error is the error form of a failed Result. It is used internally to carry
// coded failures across plain error returns, and is what Result.Err yields.
type Error struct {
	Code    Code
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return string(e.Code) + ": " + e.Message
}

// NewError returns a coded error suitable for conversion via FromError.
func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Errorf returns a coded error with a formatted message.
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// FromError converts an error into the failure variant of a Result.
// Coded errors keep their code and message; context cancellation maps to
// CodeCanceled; anything else carries only its message.
func FromError[T any](err error) Result[T] {
	var coded *Error
	if errors.As(err, &coded) {
		return Err[T](coded.Code, coded.Message)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Err[T](CodeCanceled, "canceled")
	}
	return Result[T]{Status: StatusError, Message: err.Error()}
}
