// Copyright © 2018 One Concern

// Package errors provides sentinel errors which may carry a cause.
//
// A sentinel is declared once with New. Wrap returns a copy of the sentinel
// holding the cause, so the sentinel itself is never mutated and remains
// comparable with errors.Is from any goroutine.
package errors

import (
	stderr "errors"
)

var _ error = New("")

// New sentinel error
func New(msg string) *Error {
	return &Error{msg: msg}
}

// Error is a sentinel error, optionally wrapping a cause.
type Error struct {
	msg      string
	err      error
	sentinel *Error
}

// Error message, followed by the cause when there is one
func (e *Error) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

// Unwrap nested error
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// Wrap a cause into a copy of this error.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, sentinel: e.root()}
}

// Is this error, or the sentinel it was wrapped from, the target?
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t == e || t == e.root()
}

func (e *Error) root() *Error {
	if e.sentinel != nil {
		return e.sentinel
	}
	return e
}

// As finds the first error in err's chain that matches target
// (a shortcut to standard lib errors.As)
func As(err error, target interface{}) bool {
	return stderr.As(err, target)
}

// Is reports whether any error in err's chain matches target
// (a shortcut to standard lib errors.Is)
func Is(err, target error) bool {
	return stderr.Is(err, target)
}
