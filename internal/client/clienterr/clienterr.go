// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package clienterr defines the error taxonomy surfaced by the map client.

Every failure the client reports is an [*Error] with a [Kind]. Callers branch
on the kind rather than on messages:

	if errors.Is(err, clienterr.ErrUnauthorized) {
		// any token problem: prompt for login
	}
	if clienterr.KindOf(err) == clienterr.KindExpiredToken {
		// the session simply ran out
	}
*/
package clienterr

import (
	"errors"
	"fmt"
)

// Kind classifies a client-side failure.
type Kind string

const (
	KindNoToken            Kind = "no_token"
	KindExpiredToken       Kind = "expired_token"
	KindInvalidToken       Kind = "invalid_token"
	KindRevokedToken       Kind = "revoked_token"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindPasswordMismatch   Kind = "password_mismatch"
	KindConflict           Kind = "conflict"
	KindNotFound           Kind = "not_found"
	KindBadRequest         Kind = "bad_request"
	KindNetwork            Kind = "network_error"
	KindServer             Kind = "server_error"
)

// IsUnauthorized reports whether the kind is a refused bearer token.
func (k Kind) IsUnauthorized() bool {
	switch k {
	case KindNoToken, KindExpiredToken, KindInvalidToken, KindRevokedToken:
		return true
	}
	return false
}

// ErrUnauthorized matches, through [errors.Is], every token rejection kind.
var ErrUnauthorized = errors.New("unauthorized")

// Error is a classified client failure.
type Error struct {
	Kind Kind

	// Message is human readable, usually the server's own wording.
	Message string

	// Status is the HTTP status that produced the error, 0 for local failures.
	Status int

	// Code is the server's machine-readable code, when it sent one.
	Code string

	Cause error
}

// New builds a local error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an error of the given kind around cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func (e *Error) Error() string {
	switch {
	case e.Status != 0 && e.Cause != nil:
		return fmt.Sprintf("%s (%d): %s: %v", e.Kind, e.Status, e.Message, e.Cause)
	case e.Status != 0:
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	case e.Cause != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches [ErrUnauthorized] for token kinds, and any *Error of the same kind.
func (e *Error) Is(target error) bool {
	if target == ErrUnauthorized {
		return e.Kind.IsUnauthorized()
	}
	var other *Error
	if errors.As(target, &other) {
		return other.Kind == e.Kind
	}
	return false
}

// KindOf returns the kind carried by err, or "" when err is not an [*Error].
func KindOf(err error) Kind {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}
	return ""
}
