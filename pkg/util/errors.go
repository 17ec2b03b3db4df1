// Package util provides logging and the common error types.
package util

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across packages
var (
	ErrNotFound     = errors.New("resource not found")
	ErrNoCandidates = errors.New("nothing to choose from")
	ErrCancelled    = errors.New("cancelled by operator")
	ErrInvalidInput = errors.New("invalid input")
	ErrRemote       = errors.New("dashboard request failed")
)

// UsageError is a fatal initialization problem with the command line or its
// inputs. The CLI prints usage text before the message.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string {
	return e.Msg
}

func (e *UsageError) Unwrap() error {
	return ErrInvalidInput
}

// NewUsageError creates a usage error from a format string
func NewUsageError(format string, args ...interface{}) *UsageError {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

// RemoteError describes a failed call against the dashboard API
type RemoteError struct {
	Op         string
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *RemoteError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
	case e.Body != "":
		return fmt.Sprintf("%s %s: status %d: %s", e.Op, e.URL, e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("%s %s: status %d", e.Op, e.URL, e.StatusCode)
	}
}

// Is lets errors.Is match both ErrRemote and, for 404 responses, ErrNotFound.
func (e *RemoteError) Is(target error) bool {
	switch target {
	case ErrRemote:
		return true
	case ErrNotFound:
		return e.StatusCode == 404
	}
	return false
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// ParseError represents malformed tabular input
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

func (e *ParseError) Unwrap() error {
	return ErrInvalidInput
}

// NewParseError creates a parse error for the given 1-based line
func NewParseError(line int, format string, args ...interface{}) *ParseError {
	return &ParseError{Line: line, Msg: fmt.Sprintf(format, args...)}
}
