package fs

import (
	"errors"
	"fmt"
)

// AtomicWriteError reports which stage of an atomic write failed.
// The target file is left untouched for every stage before "rename".
type AtomicWriteError struct {
	Stage string // create-temp, write, sync, close, chmod, rename
	Path  string
	Cause error
}

func (e *AtomicWriteError) Error() string {
	return fmt.Sprintf("atomic write of %s failed at %s: %v", e.Path, e.Stage, e.Cause)
}
func (e *AtomicWriteError) Unwrap() error { return e.Cause }

// -- Sentinels --

var (
	ErrTooLarge = errors.New("file exceeds size limit")
)
