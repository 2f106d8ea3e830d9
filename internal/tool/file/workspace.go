package file

import (
	"fmt"

	"github.com/Cyclone1070/codr/internal/config"
	"github.com/Cyclone1070/codr/internal/tool/service/fs"
	"github.com/Cyclone1070/codr/internal/tool/service/git"
	"github.com/Cyclone1070/codr/internal/tool/service/path"
)

// NewWorkspaceExecutor wires an Executor over the real filesystem. The root
// is canonicalised once here; it must be an existing directory.
func NewWorkspaceExecutor(root string, cfg *config.Config) (*Executor, string, error) {
	canonical, err := path.CanonicaliseRoot(root)
	if err != nil {
		return nil, "", err
	}

	osfs := fs.NewOSFileSystem()
	ignore, err := git.NewIgnoreMatcher(canonical, osfs)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load ignore rules: %w", err)
	}
	return NewExecutor(osfs, path.NewResolver(canonical, osfs), ignore, cfg), canonical, nil
}
