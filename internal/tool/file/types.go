package file

import (
	"fmt"
	"strings"

	"github.com/Cyclone1070/codr/internal/tool"
)

// Request is one validated file operation.
type Request struct {
	Kind      tool.Kind
	Path      string
	Content   string
	Overwrite bool // create only
	Recursive bool // list_folder only
}

// Validate checks the request shape before any path resolution.
func (r Request) Validate() error {
	switch r.Kind {
	case tool.KindCreate, tool.KindRead, tool.KindReplace, tool.KindAppend,
		tool.KindCreateFolder, tool.KindListFolder:
	default:
		return fmt.Errorf("%w: unsupported operation %d", tool.ErrInvalidArguments, r.Kind)
	}
	if strings.TrimSpace(r.Path) == "" {
		return fmt.Errorf("%w: path is required", tool.ErrInvalidArguments)
	}
	return nil
}

// Result is the outcome of a successful operation.
type Result struct {
	Kind         tool.Kind
	Path         string // canonical workspace-relative path
	AbsolutePath string

	Content      string   // read
	BytesWritten int      // create, replace, append
	Created      bool     // create, create_folder: false when the target already existed
	Entries      []string // list_folder, folders end with "/"
	Truncated    bool     // list_folder hit the entry cap
}

// Summary is a one-line human description of the result.
func (r *Result) Summary() string {
	switch r.Kind {
	case tool.KindCreate:
		if r.Created {
			return fmt.Sprintf("created %s (%d bytes)", r.Path, r.BytesWritten)
		}
		return fmt.Sprintf("overwrote %s (%d bytes)", r.Path, r.BytesWritten)
	case tool.KindRead:
		return fmt.Sprintf("read %s (%d bytes)", r.Path, len(r.Content))
	case tool.KindReplace:
		return fmt.Sprintf("replaced %s (%d bytes)", r.Path, r.BytesWritten)
	case tool.KindAppend:
		return fmt.Sprintf("appended %d bytes to %s", r.BytesWritten, r.Path)
	case tool.KindCreateFolder:
		if r.Created {
			return fmt.Sprintf("created folder %s", displayPath(r.Path))
		}
		return fmt.Sprintf("folder %s already exists", displayPath(r.Path))
	case tool.KindListFolder:
		s := fmt.Sprintf("listed %s (%d entries)", displayPath(r.Path), len(r.Entries))
		if r.Truncated {
			s += ", truncated"
		}
		return s
	default:
		return r.Path
	}
}

func displayPath(rel string) string {
	if rel == "" {
		return "."
	}
	return rel
}
