package path

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// maxHops bounds the number of symlinks followed for a single path.
const maxHops = 64

// FileSystem is the subset of filesystem operations needed to follow symlinks.
type FileSystem interface {
	Lstat(path string) (os.FileInfo, error)
	Readlink(path string) (string, error)
}

// Resolver provides path resolution within a workspace boundary.
type Resolver struct {
	workspaceRoot string
	fs            FileSystem
}

// NewResolver creates a new path resolver for the given canonical workspace root.
func NewResolver(workspaceRoot string, fs FileSystem) *Resolver {
	return &Resolver{
		workspaceRoot: filepath.Clean(workspaceRoot),
		fs:            fs,
	}
}

// Root returns the canonical workspace root.
func (r *Resolver) Root() string {
	return r.workspaceRoot
}

// CanonicaliseRoot canonicalises a workspace root path by making it absolute and resolving symlinks.
// Returns an error if the path doesn't exist or isn't a directory.
func CanonicaliseRoot(root string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", &WorkspaceRootError{Root: root, Cause: err}
	}

	resolved, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", &WorkspaceRootError{Root: absRoot, Cause: err}
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", &WorkspaceRootError{Root: resolved, Cause: err}
	}
	if !info.IsDir() {
		return "", &WorkspaceRootError{Root: resolved, Cause: fmt.Errorf("%w: %s", ErrNotADirectory, resolved)}
	}
	return resolved, nil
}

// Lexical joins path onto the workspace root and cleans it without touching
// the filesystem. It fails with ErrOutsideWorkspace when ".." components or an
// absolute path leave the root.
func (r *Resolver) Lexical(path string) (abs string, rel string, err error) {
	if r.workspaceRoot == "" || r.workspaceRoot == "." {
		return "", "", ErrWorkspaceRootNotSet
	}
	if strings.TrimSpace(path) == "" {
		return "", "", ErrPathRequired
	}

	if filepath.IsAbs(path) {
		abs = filepath.Clean(path)
	} else {
		abs = filepath.Join(r.workspaceRoot, path)
	}
	if !r.contains(abs) {
		return "", "", fmt.Errorf("%w: %s", ErrOutsideWorkspace, path)
	}
	return abs, r.rel(abs), nil
}

// Resolve maps path to an absolute path inside the workspace, following
// symlinks one component at a time. Every link target must stay inside the
// root. Missing trailing components are allowed so callers can create them.
// The lexical check runs before any filesystem call.
func (r *Resolver) Resolve(path string) (abs string, rel string, err error) {
	_, lexRel, err := r.Lexical(path)
	if err != nil {
		return "", "", err
	}
	if lexRel == "" {
		return r.workspaceRoot, "", nil
	}

	hops := 0
	abs, err = r.walk(lexRel, &hops)
	if err != nil {
		return "", "", err
	}
	if !r.contains(abs) {
		return "", "", fmt.Errorf("%w: %s", ErrOutsideWorkspace, path)
	}
	return abs, r.rel(abs), nil
}

// walk resolves a root-relative, already cleaned path component by component.
func (r *Resolver) walk(rel string, hops *int) (string, error) {
	current := r.workspaceRoot
	if rel == "" {
		return current, nil
	}

	parts := strings.Split(rel, "/")
	for i, part := range parts {
		next := filepath.Join(current, part)

		info, err := r.fs.Lstat(next)
		if err != nil {
			if os.IsNotExist(err) {
				// Nothing below a missing component can be a symlink.
				return filepath.Join(append([]string{next}, parts[i+1:]...)...), nil
			}
			return "", &LinkError{Path: next, Cause: err}
		}
		if info.Mode()&os.ModeSymlink == 0 {
			current = next
			continue
		}

		*hops++
		if *hops > maxHops {
			return "", fmt.Errorf("%w: %s", ErrSymlinkLoop, r.rel(next))
		}

		target, err := r.fs.Readlink(next)
		if err != nil {
			return "", &LinkError{Path: next, Cause: err}
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(current, target)
		}
		target = filepath.Clean(target)
		if !r.contains(target) {
			return "", fmt.Errorf("%w: %s links to %s", ErrOutsideWorkspace, r.rel(next), target)
		}

		// The target may itself traverse symlinks.
		current, err = r.walk(r.rel(target), hops)
		if err != nil {
			return "", err
		}
	}
	return current, nil
}

// contains reports whether p is the root or a descendant of it.
func (r *Resolver) contains(p string) bool {
	return p == r.workspaceRoot || strings.HasPrefix(p, r.workspaceRoot+string(filepath.Separator))
}

func (r *Resolver) rel(abs string) string {
	rel, err := filepath.Rel(r.workspaceRoot, abs)
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}
