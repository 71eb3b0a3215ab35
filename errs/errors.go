// Package errs defines the error type shared by all columnar packages.
//
// Every error carries a Kind, a message, an optional cause and the stack
// captured when it was created. Format with %+v to print the stack.
package errs

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// Kind classifies an Error.
type Kind int

const (
	// ParseError reports a malformed textual encoding of an enum value.
	ParseError Kind = iota + 1
	// Unsupported reports a shape or conversion outside what can be represented.
	Unsupported
	// ArrowError wraps a failure raised by the arrow runtime itself.
	ArrowError
)

func (k Kind) String() string {
	switch k {
	case ParseError:
		return "ParseError"
	case Unsupported:
		return "Unsupported"
	case ArrowError:
		return "ArrowError"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// Error is the typed error returned by this module.
type Error struct {
	Kind    Kind
	Message string

	cause error
	stack errors.StackTrace
}

func newError(kind Kind, cause error, msg string) *Error {
	e := &Error{Kind: kind, Message: msg, cause: cause}
	if st, ok := errors.New(msg).(stackTracer); ok {
		// drop newError and the exported constructor
		if frames := st.StackTrace(); len(frames) > 2 {
			e.stack = frames[2:]
		}
	}
	return e
}

// New returns an error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return newError(kind, nil, fmt.Sprintf(format, args...))
}

// Wrap returns an error of the given kind that keeps err as its cause.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return newError(kind, err, fmt.Sprintf(format, args...))
}

// Unsupportedf is shorthand for New(Unsupported, ...).
func Unsupportedf(format string, args ...any) *Error {
	return newError(Unsupported, nil, fmt.Sprintf(format, args...))
}

// Parsef is shorthand for New(ParseError, ...).
func Parsef(format string, args ...any) *Error {
	return newError(ParseError, nil, fmt.Sprintf(format, args...))
}

// Arrow wraps an error raised by the arrow runtime.
func Arrow(err error, format string, args ...any) *Error {
	return newError(ArrowError, err, fmt.Sprintf(format, args...))
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// StackTrace returns the frames captured when the error was created.
func (e *Error) StackTrace() errors.StackTrace { return e.stack }

// Format implements fmt.Formatter. %+v appends the stack trace.
func (e *Error) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = io.WriteString(s, e.Error())
			e.stack.Format(s, verb)
			return
		}
		_, _ = io.WriteString(s, e.Error())
	case 's':
		_, _ = io.WriteString(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Is reports whether err's chain contains an *Error of the given kind.
func Is(err error, kind Kind) bool {
	for err != nil {
		var e *Error
		if !stderrors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.cause
	}
	return false
}
