// Package apperr defines the error kinds shared by the work-order pipeline.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers that need to decide how to react.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation is a missing or malformed required field. Raised before any processing.
	KindValidation
	// KindDependency is a failure of the store or another external collaborator.
	KindDependency
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDependency:
		return "dependency"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Error is a classified error. Op names the failing operation, Field the
// offending input (validation only).
type Error struct {
	Kind  Kind
	Op    string
	Field string
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	switch {
	case e.Field != "":
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Field, msg)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, msg)
	default:
		return msg
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by kind, so errors.Is(err, &Error{Kind: KindValidation}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Op == "" || t.Op == e.Op)
}

// Validation returns a KindValidation error for field.
func Validation(op, field, msg string) *Error {
	return &Error{Kind: KindValidation, Op: op, Field: field, Msg: msg}
}

// Dependency wraps err as a KindDependency error.
func Dependency(op string, err error) *Error {
	return &Error{Kind: KindDependency, Op: op, Err: err}
}

func NotFound(op string, err error) *Error {
	return &Error{Kind: KindNotFound, Op: op, Err: err}
}

func Conflict(op, msg string) *Error {
	return &Error{Kind: KindConflict, Op: op, Msg: msg}
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
