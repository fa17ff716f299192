// Package engineerr defines the engine's user-facing error kinds (Parse,
// Resolve, NotImplemented, Schema, Type, IO) on top of
// github.com/juju/errors. Every exported operation that can fail returns
// an *Error so the invocation shim (cmd/morganaquery) can map it to an
// HTTP status code without re-inspecting error strings.
package engineerr

import (
	stderrors "errors"
	"fmt"

	"github.com/juju/errors"
)

// Kind classifies an engine failure. NotFound splits the "unknown
// table/column" half of Resolve out to its own status code (404, distinct
// from the 400 given to other resolution failures).
type Kind int

const (
	Parse Kind = iota
	Resolve
	NotImplemented
	Schema
	TypeMismatch
	IO
	NotFound
)

func (k Kind) String() string {
	switch k {
	case Parse:
		return "parse"
	case Resolve:
		return "resolve"
	case NotImplemented:
		return "not_implemented"
	case Schema:
		return "schema"
	case TypeMismatch:
		return "type"
	case IO:
		return "io"
	case NotFound:
		return "not_found"
	}
	return "unknown"
}

// StatusCode maps a Kind to the invocation shim's HTTP-ish status code:
// 400 parse/resolve/type error, 404 unknown table/column, 500 I/O failure
// or not-implemented.
func (k Kind) StatusCode() int {
	switch k {
	case Parse, Resolve, TypeMismatch, Schema:
		return 400
	case NotFound:
		return 404
	case NotImplemented, IO:
		return 500
	}
	return 500
}

// Error is a juju/errors cause annotated with one of the seven engine kinds.
type Error struct {
	Kind  Kind
	cause error
}

func (e *Error) Error() string { return e.cause.Error() }

// Unwrap lets errors.Is/As (and juju/errors.Cause) see through to the cause.
func (e *Error) Unwrap() error { return e.cause }

// StatusCode is a convenience forward to e.Kind.StatusCode().
func (e *Error) StatusCode() int { return e.Kind.StatusCode() }

func newf(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, cause: errors.Errorf(format, args...)}
}

// Parsef builds a Parse-kind error: malformed SQL, unbalanced parens,
// missing FROM, more than one top-level statement.
func Parsef(format string, args ...any) *Error { return newf(Parse, format, args...) }

// Resolvef builds a Resolve-kind error: a mismatched JOIN ON or any other
// reference that names real schema objects incoherently. Use NotFoundf for
// unknown table/column references.
func Resolvef(format string, args ...any) *Error { return newf(Resolve, format, args...) }

// NotFoundf builds a NotFound-kind error: an unknown table or column
// reference (404, distinct from Resolve's 400).
func NotFoundf(format string, args ...any) *Error { return newf(NotFound, format, args...) }

// NotImplementedf builds a NotImplemented-kind error: DDL/DML, a non-INNER
// join at execution, or any aggregation/ORDER/LIMIT/OFFSET construct.
func NotImplementedf(format string, args ...any) *Error { return newf(NotImplemented, format, args...) }

// Schemaf builds a Schema-kind error: missing/invalid schema document, or a
// TABLE/DATABASE schema_type mismatch against what the caller expected.
func Schemaf(format string, args ...any) *Error { return newf(Schema, format, args...) }

// Typef builds a TypeMismatch-kind error: a literal cannot be cast to a
// column's declared type.
func Typef(format string, args ...any) *Error { return newf(TypeMismatch, format, args...) }

// IOf annotates an underlying connector failure (missing file, permission
// denied, network error) as an IO-kind error, preserving err as the cause
// via errors.Annotate so callers can still errors.Cause() down to it. err
// may be nil, in which case IOf behaves like a plain IO-kind Errorf.
func IOf(err error, format string, args ...any) *Error {
	if err == nil {
		return newf(IO, format, args...)
	}
	return &Error{Kind: IO, cause: errors.Annotate(err, fmt.Sprintf(format, args...))}
}

// Is reports whether err is an *Error of the given Kind.
func Is(err error, k Kind) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind == k
	}
	return false
}
