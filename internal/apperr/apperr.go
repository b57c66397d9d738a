// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package apperr defines the coded errors citelink surfaces to callers.
package apperr

import (
	"errors"
	"fmt"
)

// Code identifies an error kind.
type Code string

const (
	// NoCitations is informational: the document has no citation with a
	// linkable author. Callers report it and stop without failing.
	NoCitations Code = "NO_CITATIONS"

	// StaleCitation means the citation text is no longer present in the
	// document, so an edit was not applied.
	StaleCitation Code = "STALE_CITATION"

	// SearchFailed is a failed author search. It belongs to one author
	// and never aborts its siblings.
	SearchFailed Code = "SEARCH_FAILED"

	// InvalidFilter is a user-supplied filter expression that does not compile.
	InvalidFilter Code = "INVALID_FILTER"

	// WikiAPI is an error response from the MediaWiki API.
	WikiAPI Code = "WIKI_API"

	// SessionClosed is an operation on a session that was torn down.
	SessionClosed Code = "SESSION_CLOSED"

	// InvalidRequest is a bad argument: unknown citation or author, empty title.
	InvalidRequest Code = "INVALID_REQUEST"
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error { return e.Err }

// New creates an error with the given code.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error with the given code around a cause.
func Wrap(code Code, err error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// Is reports whether err, or any error it wraps, carries code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf returns the code of the first coded error in err's chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
