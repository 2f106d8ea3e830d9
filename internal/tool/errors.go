package tool

import (
	"errors"
	"fmt"
)

// ErrToolResolution is the class of every failure to map a tool call onto
// a catalog operation.
var ErrToolResolution = errors.New("tool resolution failed")

var (
	ErrUnknownTool      = fmt.Errorf("%w: unknown tool", ErrToolResolution)
	ErrInvalidArguments = fmt.Errorf("%w: invalid arguments", ErrToolResolution)
)
