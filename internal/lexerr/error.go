package lexerr

import (
	"errors"
	"fmt"
)

// Pos is an offset into a source file, or -1 if no position applies.
// It is a plain int so that lexerr imports no other utf8lex package.
type Pos int

// Error is the one error type every exported utf8lex entry point returns.
// Wrapping every failure in a single structured type (rather than the
// teacher's sentinel var Err... style) lets the CLI always recover a
// numeric Code for its exit status, per spec.md §6/§7.
type Error struct {
	Code Code
	Pos  Pos // -1 if not applicable
	Name string
	Err  error // wrapped cause, if any
}

func (e *Error) Error() string {
	msg := e.Code.String()
	if e.Name != "" {
		msg = fmt.Sprintf("%s: %q", msg, e.Name)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error with no position information.
func New(code Code) *Error {
	return &Error{Code: code, Pos: -1}
}

// Newf builds an *Error wrapping a formatted cause.
func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Pos: -1, Err: fmt.Errorf(format, args...)}
}

// WithName returns a copy of e with Name set, used to point diagnostics at
// an offending identifier (e.g. an unresolved reference name).
func (e *Error) WithName(name string) *Error {
	c := *e
	c.Name = name
	return &c
}

// WithPos returns a copy of e with Pos set.
func (e *Error) WithPos(p Pos) *Error {
	c := *e
	c.Pos = p
	return &c
}

// CodeOf extracts the Code from err if it is (or wraps) an *Error,
// otherwise returns ErrState as a conservative fallback.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrState
}
