package domain

import (
	"errors"
	"fmt"
)

// Application error codes, exposed to clients as extensions.code
const (
	EUNAUTHENTICATED = "unauthenticated"          // No or invalid session where one is required
	EFORBIDDEN       = "forbidden"                // Authenticated but lacking ownership or permission
	ENOTFOUND        = "not_found"                // Referenced entity absent
	EVALIDATION      = "validation"               // Malformed input or mismatched confirmation
	ECREDENTIAL      = "invalid_credential"       // Sign-in password mismatch
	ETOKEN           = "invalid_or_expired_token" // Reset token unknown or past its expiry
	ECONFLICT        = "conflict"                 // Unique constraint, e.g. duplicate email
	EPAYMENT         = "payment"                  // Gateway refused or failed the charge
	EINTERNAL        = "internal"                 // Anything else; details are hidden
)

const internalMessage = "An internal error occurred. Please try again later."

// Error is an application error carrying a code and a user-facing message
type Error struct {
	Code    string // Machine readable code
	Message string // Safe to show to users
	Op      string // Operation that failed, for logs
	Err     error  // Underlying cause, for logs
}

// Error implements the error interface
func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Op != "":
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Unwrap exposes the cause to errors.Is and errors.As
func (e *Error) Unwrap() error {
	return e.Err
}

// Extensions is picked up by the GraphQL executor and attached to the error payload
func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.Code}
}

// Errorf creates a new application error with a formatted message
func Errorf(code, op, format string, args ...interface{}) error {
	return &Error{Code: code, Op: op, Message: fmt.Sprintf(format, args...)}
}

// WrapError attaches a code, operation and message to err. Returns nil if err is nil.
func WrapError(err error, code, op, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Op: op, Message: message, Err: err}
}

// ErrorCode extracts the code from err, EINTERNAL for foreign errors
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage extracts a message that is safe to return to clients
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Code != EINTERNAL {
		return e.Message
	}
	return internalMessage
}

// IsCode reports whether err carries the given code
func IsCode(err error, code string) bool {
	return ErrorCode(err) == code
}
