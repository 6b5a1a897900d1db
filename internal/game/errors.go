package game

import (
	"errors"
	"fmt"
)

// Kind classifies a failed action for the caller.
type Kind string

const (
	// KindValidation marks malformed or phase-illegal input. Safe to retry after correction.
	KindValidation Kind = "validation"
	// KindNotFound marks a reference to a game, player, card or team that does not exist.
	KindNotFound Kind = "not_found"
	// KindConflict marks an action preempted by concurrent state. Safe to retry once.
	KindConflict Kind = "conflict"
	// KindInternal marks an unexpected fault that aborted the action.
	KindInternal Kind = "internal"
)

// Sentinels for errors.Is matching against any *Error of the same kind.
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrInternal   = &Error{Kind: KindInternal}
)

// Error is returned by every session operation. It is reported to the
// originating caller only.
type Error struct {
	Kind     Kind   `json:"kind"`
	Resource string `json:"resource,omitempty"`
	Message  string `json:"message"`
}

func (e *Error) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Resource, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches on kind so callers can write errors.Is(err, game.ErrConflict).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Resource: resource, Message: resource + " not found"}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func internal(msg string) *Error {
	return &Error{Kind: KindInternal, Message: msg}
}

// KindOf extracts the kind of err, treating foreign errors as internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// AsError converts err into an *Error suitable for sending to a client.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return internal("internal error")
}
