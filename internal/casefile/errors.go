package casefile

import (
	"errors"
	"fmt"
)

// Kind classifies a workflow failure so callers can branch on the class
// instead of parsing message text.
type Kind string

const (
	// KindValidation means the input was malformed (empty name, negative age).
	KindValidation Kind = "validation"

	// KindNotFound means a referenced record does not exist.
	KindNotFound Kind = "not_found"

	// KindPersistence means a store read or write failed or returned no data.
	KindPersistence Kind = "persistence"

	// KindExternal means an adapter call failed or timed out.
	KindExternal Kind = "external"
)

// Error carries a failure Kind alongside a human-readable message.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf builds an Error with a formatted message.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error around an underlying cause.
func Wrap(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the Kind from err, or KindPersistence if err carries none.
// A nil err has no kind and returns "".
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindPersistence
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
