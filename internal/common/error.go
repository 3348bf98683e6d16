// Package common defines shared constants and error values used across the
// server layers. Repository code returns the sentinel errors below; services
// translate them into *Error values carrying a Kind, which the HTTP layer maps
// onto status codes. Callers should use errors.Is / errors.As to match them.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Token errors returned by the auth package.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Kind classifies an application error.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindInvalidToken
	KindTokenExpiredOrReused
	KindConflict
	KindNotFound
)

var kindNames = map[Kind]string{
	KindInternal:             "internal",
	KindBadRequest:           "bad request",
	KindUnauthorized:         "unauthorized",
	KindInvalidToken:         "invalid token",
	KindTokenExpiredOrReused: "token expired or reused",
	KindConflict:             "conflict",
	KindNotFound:             "not found",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the single error type returned by the service layer.
//
// Message is safe to show to clients. Details lists per-field problems.
// Err is the underlying cause and is never exposed outside the process.
type Error struct {
	Kind    Kind
	Message string
	Details []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds an *Error of the given kind.
func NewError(kind Kind, message string, details ...string) *Error {
	return &Error{Kind: kind, Message: message, Details: details}
}

// WrapError builds an *Error of the given kind around cause.
func WrapError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// Internal wraps cause into a generic internal error.
func Internal(cause error) *Error {
	return WrapError(KindInternal, "internal server error", cause)
}

// KindOf reports the Kind of err. Errors that are not *Error are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
