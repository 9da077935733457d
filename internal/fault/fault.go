// Package fault defines the typed failures surfaced by walks and comparisons.
// Every failure carries the offending path so callers can report it.
package fault

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a failure. Codes are strings so they read well in logs
// and serialize naturally.
type ErrorCode string

const (
	// CodeNotFound indicates a requested file does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeReadFailed indicates a stat, directory listing or file read failed.
	CodeReadFailed ErrorCode = "READ_FAILED"

	// CodeWriteFailed indicates a directory could not be created or a file
	// could not be written.
	CodeWriteFailed ErrorCode = "WRITE_FAILED"

	// CodeInvalidConfig indicates the configuration cannot be used, for
	// example a malformed exclude glob.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// CodeUnknown is reported for errors that did not originate here.
	CodeUnknown ErrorCode = "UNKNOWN"
)

// Error is a failure tied to a path.
type Error struct {
	Code ErrorCode
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an Error.
func New(code ErrorCode, op, path string, err error) *Error {
	return &Error{Code: code, Op: op, Path: path, Err: err}
}

// Read wraps an I/O failure on path.
func Read(op, path string, err error) *Error {
	return New(CodeReadFailed, op, path, err)
}

// Write wraps a failure to create or write path.
func Write(op, path string, err error) *Error {
	return New(CodeWriteFailed, op, path, err)
}

// CodeOf returns the code of the first Error in err's chain.
func CodeOf(err error) ErrorCode {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return CodeUnknown
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// PathOf returns the offending path recorded in err's chain, if any.
func PathOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Path
	}
	return ""
}
