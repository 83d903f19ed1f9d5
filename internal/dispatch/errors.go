package dispatch

import "errors"

// Kind is a stable machine-readable error code surfaced in the API error
// envelope.
type Kind string

const (
	KindNotFound           Kind = "NOT_FOUND"
	KindInvalidInput       Kind = "INVALID_INPUT"
	KindConflict           Kind = "CONFLICT"
	KindDependencyFailure  Kind = "DEPENDENCY_FAILURE"
	KindPersistenceFailure Kind = "PERSISTENCE_FAILURE"
)

// Error is the typed result contract for every dispatcher and store-facing
// operation. The API layer maps Kind to an HTTP status once, at the
// boundary.
type Error struct {
	Kind    Kind
	Message string
	Details any
}

func (e *Error) Error() string { return string(e.Kind) + ": " + e.Message }

// NotFound builds a NOT_FOUND error.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// InvalidInput builds an INVALID_INPUT error, optionally with details.
func InvalidInput(msg string, details any) *Error {
	return &Error{Kind: KindInvalidInput, Message: msg, Details: details}
}

// Conflict builds a CONFLICT error.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// DependencyFailure builds a DEPENDENCY_FAILURE error.
func DependencyFailure(msg string) *Error {
	return &Error{Kind: KindDependencyFailure, Message: msg}
}

// PersistenceFailure builds a PERSISTENCE_FAILURE error.
func PersistenceFailure(msg string) *Error {
	return &Error{Kind: KindPersistenceFailure, Message: msg}
}

// KindOf extracts the Kind from err, defaulting to PERSISTENCE_FAILURE for
// anything untyped that escapes the store.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindPersistenceFailure
}
