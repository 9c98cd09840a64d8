package errors

import (
	stderrors "errors"
	"slices"

	"github.com/pkg/errors"
)

// Re-exported functions from github.com/pkg/errors and the standard library so
// that callers only need to import this package.
var (
	// New returns an error with the given text and a stack trace.
	New = errors.New
	// Errorf formats according to a format specifier and returns the string as a
	// value that satisfies error.
	Errorf = errors.Errorf
	// Wrap annotates err with a stack trace and the supplied message. If err is
	// nil, Wrap returns nil.
	Wrap = errors.Wrap
	// Wrapf annotates err with a stack trace and the format specifier. If err is
	// nil, Wrapf returns nil.
	Wrapf = errors.Wrapf
	// WithStack annotates err with a stack trace at the point WithStack was called.
	WithStack = errors.WithStack
	// WithMessage annotates err with a new message without adding a stack trace.
	WithMessage = errors.WithMessage
	// Cause returns the innermost error that does not implement causer.
	Cause = errors.Cause
	Is    = stderrors.Is
	As    = stderrors.As
	Join  = stderrors.Join
)

// Annotate wraps the error pointed to by err with the formatted message if err is non-nil.
// Intended for defer statements:
//
//	func decode() (err error) {
//	    defer errors.Annotate(&err, "decoding set %v", id)
//	    ...
//	}
func Annotate(err *error, msg string, args ...any) {
	if *err != nil {
		*err = errors.Wrapf(*err, msg, args...)
	}
}

// OneOf reports whether the root cause of received matches any of errs.
func OneOf(received error, errs ...error) bool {
	return slices.Contains(errs, Cause(received))
}
