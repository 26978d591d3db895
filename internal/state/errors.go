package state

import (
	"errors"
	"fmt"
)

// Error is returned by Send, SendEvent, Query and QueryState.
// Errors are never handled inside the store; they go straight back to the caller.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Operation is the event or query name involved.
	Operation string

	// ContactID is the targeted contact, for ErrCodeContactNotFound.
	ContactID int64
}

// ErrorCode categorizes store errors.
type ErrorCode string

const (
	// ErrCodeUnrecognized indicates an event or query name the store does not know.
	ErrCodeUnrecognized ErrorCode = "UNRECOGNIZED_OPERATION"

	// ErrCodeContactNotFound indicates no contact has the targeted id.
	ErrCodeContactNotFound ErrorCode = "CONTACT_NOT_FOUND"

	// ErrCodeInvalidArgument indicates query data of the wrong shape.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
)

// ErrorCodes lists every code the store can return.
var ErrorCodes = []ErrorCode{
	ErrCodeUnrecognized,
	ErrCodeContactNotFound,
	ErrCodeInvalidArgument,
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("%s: %s (operation=%s)", e.Code, e.Message, e.Operation)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsUnrecognized reports whether err is an unrecognized event or query error.
// Uses errors.As to handle wrapped errors.
func IsUnrecognized(err error) bool {
	return hasCode(err, ErrCodeUnrecognized)
}

// IsContactNotFound reports whether err is a missing-contact error.
func IsContactNotFound(err error) bool {
	return hasCode(err, ErrCodeContactNotFound)
}

// IsInvalidArgument reports whether err was caused by malformed query data.
func IsInvalidArgument(err error) bool {
	return hasCode(err, ErrCodeInvalidArgument)
}

// CodeOf returns the ErrorCode carried by err, or "" if err is not a store error.
func CodeOf(err error) ErrorCode {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

func hasCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// NewUnrecognizedError creates an Error for an unknown event or query name.
func NewUnrecognizedError(kind, name string) *Error {
	return &Error{
		Code:      ErrCodeUnrecognized,
		Message:   fmt.Sprintf("unrecognized %s: %s", kind, name),
		Operation: name,
	}
}

// NewContactNotFoundError creates an Error for an id that matches no contact.
func NewContactNotFoundError(operation string, id int64) *Error {
	return &Error{
		Code:      ErrCodeContactNotFound,
		Message:   fmt.Sprintf("no contact with id %d", id),
		Operation: operation,
		ContactID: id,
	}
}

// NewInvalidArgumentError creates an Error for malformed query data.
func NewInvalidArgumentError(operation, message string) *Error {
	return &Error{
		Code:      ErrCodeInvalidArgument,
		Message:   message,
		Operation: operation,
	}
}
