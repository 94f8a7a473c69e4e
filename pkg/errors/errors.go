// Package errors defines the error kinds produced while comparing two directory trees.
//
// Every failure carries a Code so callers can branch on the kind without string matching:
//
//	if errors.Is(err, dcerrors.ErrRootNotFound) { ... }
package errors

import (
	stderrors "errors"
	"fmt"
)

// Code identifies a class of failure.
type Code string

const (
	// CodeRootNotFound means a root path is empty, missing, or not a directory.
	CodeRootNotFound Code = "ROOT_NOT_FOUND"

	// CodeIO means a file that was enumerated could not be opened, stat'ed or read.
	CodeIO Code = "IO_ERROR"

	// CodeInvalidInput means an argument such as a strategy name or pattern is malformed.
	CodeInvalidInput Code = "INVALID_INPUT"
)

// Sentinels for errors.Is. They match any *Error with the same Code.
var (
	ErrRootNotFound = &Error{Code: CodeRootNotFound}
	ErrIO           = &Error{Code: CodeIO}
	ErrInvalidInput = &Error{Code: CodeInvalidInput}
)

// Error is a coded error with the operation and path that produced it.
type Error struct {
	Code Code
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := string(e.Code)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Path != "" {
		msg += fmt.Sprintf(" (%s)", e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// RootNotFound builds a CodeRootNotFound error for root.
func RootNotFound(op, root string, err error) error {
	return &Error{Code: CodeRootNotFound, Op: op, Path: root, Err: err}
}

// IO builds a CodeIO error for path.
func IO(op, path string, err error) error {
	return &Error{Code: CodeIO, Op: op, Path: path, Err: err}
}

// InvalidInput builds a CodeInvalidInput error.
func InvalidInput(op, value string, err error) error {
	return &Error{Code: CodeInvalidInput, Op: op, Path: value, Err: err}
}

// CodeOf returns the Code of the first *Error in err's chain, or "" if there is none.
func CodeOf(err error) Code {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ""
}
