// Package apperr classifies failures into the categories the API surfaces
// to callers: validation, missing credential, access denial, not found,
// and everything else.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the failure category an error belongs to.
type Kind uint8

const (
	KindUnexpected Kind = iota
	KindValidation
	KindUnauthorized
	KindAccessDenied
	KindNotFound
)

// Error carries a caller-facing message plus its category. Validation errors
// raised for absent input also carry the offending field names.
type Error struct {
	kind   Kind
	msg    string
	Fields []string
	cause  error
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.cause }

// Kind reports the failure category.
func (e *Error) Kind() Kind { return e.kind }

// Validation builds a 400-class error from a format string.
func Validation(format string, args ...any) *Error {
	return &Error{kind: KindValidation, msg: fmt.Sprintf(format, args...)}
}

// MissingFields builds a validation error listing every absent required field.
func MissingFields(fields []string) *Error {
	return &Error{
		kind:   KindValidation,
		msg:    "missing required fields: " + strings.Join(fields, ", "),
		Fields: fields,
	}
}

// Unauthorized builds a 401-class error (missing or unusable credential).
func Unauthorized(msg string) *Error {
	return &Error{kind: KindUnauthorized, msg: msg}
}

// AccessDenied builds a 403-class error (role blocked or tenant mismatch).
func AccessDenied(msg string) *Error {
	return &Error{kind: KindAccessDenied, msg: msg}
}

// NotFound builds a 404-class error for the named record kind.
func NotFound(what string) *Error {
	return &Error{kind: KindNotFound, msg: what + " not found"}
}

// Unexpected wraps any other failure, typically a store call gone wrong.
func Unexpected(err error) *Error {
	return &Error{kind: KindUnexpected, msg: err.Error(), cause: err}
}

// KindOf extracts the category from err, defaulting to KindUnexpected.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindUnexpected
}
