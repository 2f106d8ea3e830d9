package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/Cyclone1070/codr/internal/tool/helper/content"
)

// maxIgnoreFileSize bounds how much of a .gitignore is read.
const maxIgnoreFileSize = 1 << 20

// GitignoreReadError is returned when .gitignore cannot be read.
type GitignoreReadError struct {
	Path  string
	Cause error
}

func (e *GitignoreReadError) Error() string {
	return fmt.Sprintf("failed to read .gitignore at %s: %v", e.Path, e.Cause)
}
func (e *GitignoreReadError) Unwrap() error { return e.Cause }

// fileSystem defines the minimal filesystem interface needed for the matcher.
type fileSystem interface {
	ReadFile(path string, limit int64) ([]byte, error)
}

// IgnoreMatcher filters workspace-relative paths through the root .gitignore
// using go-git's matcher. The .git directory is always ignored.
type IgnoreMatcher struct {
	matcher gitignore.Matcher
}

// NewIgnoreMatcher loads .gitignore from the workspace root.
// A missing .gitignore yields a matcher that only hides .git.
func NewIgnoreMatcher(workspaceRoot string, fs fileSystem) (*IgnoreMatcher, error) {
	gitignorePath := filepath.Join(workspaceRoot, ".gitignore")

	data, err := fs.ReadFile(gitignorePath, maxIgnoreFileSize)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &IgnoreMatcher{}, nil
		}
		return nil, &GitignoreReadError{Path: gitignorePath, Cause: err}
	}

	return &IgnoreMatcher{matcher: gitignore.NewMatcher(ParsePatterns(string(data)))}, nil
}

// ParsePatterns turns .gitignore text into patterns, skipping blanks and comments.
func ParsePatterns(text string) []gitignore.Pattern {
	var patterns []gitignore.Pattern
	for _, line := range content.SplitLines(text) {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	return patterns
}

// ShouldIgnore reports whether a workspace-relative path is ignored.
func (m *IgnoreMatcher) ShouldIgnore(relativePath string, isDir bool) bool {
	segments := splitPath(relativePath)
	if len(segments) == 0 {
		return false
	}
	for _, s := range segments {
		if s == ".git" {
			return true
		}
	}
	if m.matcher == nil {
		return false
	}
	return m.matcher.Match(segments, isDir)
}

// splitPath splits a path into segments for gitignore matching.
// It normalizes path separators and filters out empty and "." segments.
func splitPath(path string) []string {
	var segments []string
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part != "" && part != "." {
			segments = append(segments, part)
		}
	}
	return segments
}
