// Package errors defines the coded error taxonomy returned by the game engine.
//
// Every engine operation validates before it mutates a character, so any
// *Error returned from an operation implies the character was left unchanged.
package errors

import (
	"errors"
	"fmt"
)

// Error is a structured engine error carrying a Code, a user-facing message,
// an optional cause, and optional metadata.
type Error struct {
	Code    Code           `json:"code"`
	Message string         `json:"message"`
	Cause   error          `json:"-"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same Code.
// This lets callers match with errors.Is(err, ErrNotFound).
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// WithMeta attaches a metadata value and returns e for chaining.
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any)
	}
	e.Meta[key] = value
	return e
}

// Sentinels for errors.Is matching. Only the Code is compared.
var (
	ErrInsufficientResource = &Error{Code: CodeInsufficientResource}
	ErrNotPrepared          = &Error{Code: CodeNotPrepared}
	ErrInvalidOperation     = &Error{Code: CodeInvalidOperation}
	ErrNotFound             = &Error{Code: CodeNotFound}
	ErrDuplicateID          = &Error{Code: CodeDuplicateID}
	ErrParse                = &Error{Code: CodeParseError}
	ErrCancelled            = &Error{Code: CodeCancelled}
)

// New creates an error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps err with code and message. Returns nil when err is nil.
func Wrap(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Cause: err}
}

// InsufficientResourcef reports a spent resource such as an empty spell slot.
func InsufficientResourcef(format string, args ...any) *Error {
	return Newf(CodeInsufficientResource, format, args...)
}

// NotPreparedf reports a prepared caster casting an unprepared spell.
func NotPreparedf(format string, args ...any) *Error {
	return Newf(CodeNotPrepared, format, args...)
}

// InvalidOperationf reports an operation that does not apply to the character.
func InvalidOperationf(format string, args ...any) *Error {
	return Newf(CodeInvalidOperation, format, args...)
}

// NotFoundf reports a missing spell, ability, class or character.
func NotFoundf(format string, args ...any) *Error {
	return Newf(CodeNotFound, format, args...)
}

// DuplicateIDf reports an id collision on a character.
func DuplicateIDf(format string, args ...any) *Error {
	return Newf(CodeDuplicateID, format, args...)
}

// Cancelledf reports an operation declined through a prompt.
func Cancelledf(format string, args ...any) *Error {
	return Newf(CodeCancelled, format, args...)
}
