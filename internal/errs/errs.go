// Package errs provides the categorized error type shared by the data-access
// layer, the services and the HTTP handlers.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can react to it.
type Kind string

const (
	KindUnknown    Kind = "unknown"
	KindNotFound   Kind = "not-found"
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindDatabase   Kind = "database"
	KindIO         Kind = "io"
)

// Error carries a Kind, the failing operation and the wrapped cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
	// Fields holds per-field validation messages, if any.
	Fields map[string]string
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by Kind so errors.Is(err, errs.ErrNotFound) works.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrValidation = &Error{Kind: KindValidation}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrDatabase   = &Error{Kind: KindDatabase}
	ErrIO         = &Error{Kind: KindIO}
)

func newErr(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func NotFound(op string, err error) error { return newErr(KindNotFound, op, err) }
func Conflict(op string, err error) error { return newErr(KindConflict, op, err) }
func Database(op string, err error) error { return newErr(KindDatabase, op, err) }
func IO(op string, err error) error       { return newErr(KindIO, op, err) }

// Validation builds a validation error with optional per-field messages.
func Validation(op string, fields map[string]string) error {
	e := newErr(KindValidation, op, nil)
	if len(fields) > 0 {
		e.Fields = fields
	}
	return e
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// FieldsOf returns validation details carried by err, if any.
func FieldsOf(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }
