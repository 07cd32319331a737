// Package mxerrors defines the typed error taxonomy shared by every MXF
// coordination-core component. Components never leak backend-specific or
// provider-specific exceptions; they wrap failures into an *Error carrying
// one of the Kind values below, which callers can branch on with Is/KindOf.
package mxerrors

import "fmt"

// Kind identifies the class of failure a component reports.
type Kind string

const (
	NotFound            Kind = "NotFound"
	InvalidRequest      Kind = "InvalidRequest"
	InvalidTransition   Kind = "InvalidTransition"
	InvalidDependency   Kind = "InvalidDependency"
	CyclicDependency    Kind = "CyclicDependency"
	InvalidRelationship Kind = "InvalidRelationship"
	ProviderUnavailable Kind = "ProviderUnavailable"
	Timeout             Kind = "Timeout"
	SandboxFailure      Kind = "SandboxFailure"
	StorageFailure      Kind = "StorageFailure"
	Conflict            Kind = "Conflict"
)

// Error is the single error type surfaced across package boundaries.
type Error struct {
	Kind    Kind   // failure class, see §7 of the spec
	Op      string // operation that failed, e.g. "task.UpdateStatus"
	Message string // human-readable detail
	Err     error  // wrapped cause, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an *Error for the given kind.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap builds an *Error for the given kind around an existing cause.
func Wrap(kind Kind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

// KindOf returns the Kind carried by err, or "" if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if as(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// as is a narrow local re-implementation of errors.As for the one type we
// care about, avoiding an import cycle concern and keeping this package
// stdlib-errors-only at the call site (callers still get errors.Is/As
// compatibility via Unwrap).
func as(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// HTTPStatus maps a Kind to the status code specified in §7 of the spec.
func HTTPStatus(kind Kind) int {
	switch kind {
	case NotFound:
		return 404
	case InvalidRequest, InvalidTransition, InvalidDependency, CyclicDependency, InvalidRelationship:
		return 400
	case Conflict:
		return 409
	case ProviderUnavailable:
		return 503
	case Timeout:
		return 504
	default:
		return 500
	}
}
