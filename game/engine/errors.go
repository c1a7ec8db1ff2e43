package engine

import (
	"errors"
	"fmt"
)

// ErrKind identifies the closed set of engine error categories. Every
// rejected command yields exactly one kind plus a detail payload.
type ErrKind string

const (
	ErrTokenNotFound       ErrKind = "token_not_found"
	ErrPlayerNotFound      ErrKind = "player_not_found"
	ErrPlayerAlreadyExists ErrKind = "player_already_exists"
	ErrInsufficientAP      ErrKind = "insufficient_ap"
	ErrOutOfRange          ErrKind = "out_of_range"
	ErrInvalidMove         ErrKind = "invalid_move"
	ErrBoardSize           ErrKind = "board_size_error"
)

// Error is the engine's error type. Kind is one of the ErrKind constants and
// Detail identifies the offending ids or values.
type Error struct {
	Kind   ErrKind
	Detail string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// IsKind reports whether err is an engine error of the given kind.
func IsKind(err error, kind ErrKind) bool {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind == kind
	}
	return false
}

// KindOf returns the error kind of err, or "" if err is not an engine error.
func KindOf(err error) ErrKind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return ""
}

func newError(kind ErrKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
