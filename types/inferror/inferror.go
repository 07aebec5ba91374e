// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package inferror defines the failure taxonomy of shape inference.
//
// Every rule failure is an *Error with a Kind. UnresolvedInput is the only non-fatal kind: it
// means one of the inputs is not concrete yet, and the caller should retry once it is resolved.
// All other kinds reject the node.
//
// Errors are created with Errorf, which records a stack trace (see github.com/pkg/errors), and
// can be inspected through any number of wrappings with KindOf, Is and IsUnresolved.
package inferror

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind of inference failure.
type Kind int

//go:generate go tool enumer -type=Kind -output=gen_kind_enumer.go inferror.go

const (
	// Internal is used for bugs: rules called with the wrong attributes type, or panics caught while
	// running a rule.
	Internal Kind = iota

	// UnresolvedInput indicates an input type is not yet known. It is not a rejection.
	UnresolvedInput

	// LayoutError indicates a required canonical axis is missing or split, or a layout string
	// can't be parsed.
	LayoutError

	// ShapeRankMismatch indicates a vector length disagrees with a tensor rank or with the
	// number of spatial axes.
	ShapeRankMismatch

	// ConfigMismatch indicates two sources of the same value disagree: e.g. an explicit attribute
	// and the value derived from the weight shape.
	ConfigMismatch

	// InvalidValue indicates a numeric attribute is outside its domain (e.g. negative padding).
	InvalidValue
)

// Error is the error returned by inference rules.
type Error struct {
	Kind  Kind
	cause error
}

// Errorf creates an *Error of the given kind, with a formatted message and a stack trace.
func Errorf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, cause: errors.Errorf(format, args...)}
}

// Wrapf converts err to an *Error of the given kind, prefixing it with the formatted message.
// If err is nil it returns nil.
func Wrapf(kind Kind, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, cause: errors.Wrapf(err, format, args...)}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.cause.Error())
}

// Unwrap returns the underlying error, which holds the stack trace.
func (e *Error) Unwrap() error { return e.cause }

// Format implements fmt.Formatter: "%+v" prints the stack trace as well.
func (e *Error) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "%s: %+v", e.Kind, e.cause)
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

// KindOf returns the Kind of the first *Error in err's chain. It returns false if there is none.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return Internal, false
}

// Is returns whether err carries an *Error of the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsUnresolved returns whether err only signals an unresolved input.
func IsUnresolved(err error) bool {
	return Is(err, UnresolvedInput)
}
