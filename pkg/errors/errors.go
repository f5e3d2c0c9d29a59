package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Reason is the machine-checkable sub-code carried by authorization
// denials so callers can distinguish why an operation was refused.
type Reason string

const (
	ReasonInsufficientRole Reason = "insufficient-role"
	ReasonOutOfScope       Reason = "out-of-scope"
	ReasonSelfProtection   Reason = "self-protection"
	ReasonSelfDeletion     Reason = "self-deletion"
	ReasonFieldRestricted  Reason = "field-restricted"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Reason  Reason `json:"reason,omitempty"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors mapping the domain taxonomy.
var (
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid email or password")
	ErrInactiveAccount    = New("ACCOUNT_INACTIVE", http.StatusForbidden, "account is not active")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrNotFoundOrInactive = New("NOT_FOUND_OR_INACTIVE", http.StatusNotFound, "resource not found or already inactive")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrFieldRestricted    = New("FORBIDDEN", http.StatusUnprocessableEntity, "field not editable by caller")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrReference          = New("REFERENCE_ERROR", http.StatusBadRequest, "referenced resource does not exist")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
)

// ErrCacheMiss marks a cache lookup that found nothing. It is internal
// plumbing, never surfaced to HTTP clients.
var ErrCacheMiss = errors.New("cache miss")

// Forbidden builds an authorization denial with its sub-reason.
func Forbidden(reason Reason, message string) *Error {
	e := Clone(ErrForbidden, message)
	e.Reason = reason
	return e
}

// FieldRestricted builds the 422-class denial for write-protected fields.
func FieldRestricted(message string) *Error {
	e := Clone(ErrFieldRestricted, message)
	e.Reason = ReasonFieldRestricted
	return e
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// IsCode reports whether err is a typed error carrying the given code.
func IsCode(err error, code string) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
