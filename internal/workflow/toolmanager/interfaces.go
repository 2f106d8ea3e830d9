package toolmanager

import (
	"context"

	"github.com/Cyclone1070/codr/internal/policy"
	"github.com/Cyclone1070/codr/internal/tool/file"
)

// fileExecutor performs file operations inside the workspace.
type fileExecutor interface {
	// Resolve returns the absolute path a request path refers to.
	Resolve(path string) (string, error)

	// Execute runs one file operation.
	Execute(ctx context.Context, req file.Request) (*file.Result, error)
}

// permissionChecker decides whether a call may run.
type permissionChecker interface {
	Check(ctx context.Context, req policy.Request) error
}
