package file

import (
	"errors"
	"fmt"
)

// -- Sentinels --

// Each FileOperationError kind has one sentinel; *OpError matches it with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrPathEscape         = errors.New("path escapes project root")
	ErrUnsupportedContent = errors.New("unsupported content")
	ErrIO                 = errors.New("i/o error")
)

// Causes attached to kinds that need more detail.
var (
	ErrIsDirectory  = errors.New("path is a directory")
	ErrNotDirectory = errors.New("path is not a directory")
	ErrNotText      = errors.New("content is not text")
	ErrTooLarge     = errors.New("content exceeds size limit")
)

// -- Error Types --

// OpError describes a failed file operation.
type OpError struct {
	Kind  error  // one of the kind sentinels
	Op    string // operation name
	Path  string // workspace-relative path as requested
	Cause error
}

func (e *OpError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Path, e.Kind, e.Cause)
}

func (e *OpError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// KindName returns the taxonomy name of a file operation error,
// or "" when err is not one.
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	case errors.Is(err, ErrAlreadyExists):
		return "AlreadyExists"
	case errors.Is(err, ErrPathEscape):
		return "PathEscape"
	case errors.Is(err, ErrUnsupportedContent):
		return "UnsupportedContent"
	case errors.Is(err, ErrIO):
		return "IOError"
	default:
		return ""
	}
}
