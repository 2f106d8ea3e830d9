package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// OSFileSystem implements filesystem operations using the local OS filesystem primitives.
type OSFileSystem struct{}

// NewOSFileSystem creates a new OSFileSystem.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// Stat returns file info for a path (follows symlinks).
func (fs *OSFileSystem) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// Lstat returns file info for a path without following symlinks.
func (fs *OSFileSystem) Lstat(path string) (os.FileInfo, error) {
	return os.Lstat(path)
}

// Readlink reads the target of a symlink.
func (fs *OSFileSystem) Readlink(path string) (string, error) {
	return os.Readlink(path)
}

// ReadFile reads the whole file, refusing files larger than limit bytes.
// A limit <= 0 disables the check.
func (fs *OSFileSystem) ReadFile(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if limit <= 0 {
		return io.ReadAll(f)
	}

	// Read one byte past the limit so growth after a stat is still caught.
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s (limit %d bytes)", ErrTooLarge, path, limit)
	}
	return data, nil
}

// WriteFileAtomic writes content to a file atomically using temp file + rename pattern.
// The temp file is created in the same directory as the target so the rename
// never crosses a filesystem boundary. perm is applied before the rename, so
// readers never observe the new content with the wrong mode.
func (fs *OSFileSystem) WriteFileAtomic(path string, content []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".codr-tmp-*")
	if err != nil {
		return &AtomicWriteError{Stage: "create-temp", Path: path, Cause: err}
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return &AtomicWriteError{Stage: "write", Path: path, Cause: err}
	}
	if err := tmp.Sync(); err != nil {
		return &AtomicWriteError{Stage: "sync", Path: path, Cause: err}
	}
	if err := tmp.Chmod(perm); err != nil {
		return &AtomicWriteError{Stage: "chmod", Path: path, Cause: err}
	}
	if err := tmp.Close(); err != nil {
		return &AtomicWriteError{Stage: "close", Path: path, Cause: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return &AtomicWriteError{Stage: "rename", Path: path, Cause: err}
	}
	committed = true
	return nil
}

// AppendFile appends content to an existing file. It never creates the file;
// a missing path surfaces as an os.ErrNotExist error.
func (fs *OSFileSystem) AppendFile(path string, content []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return err
	}
	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// EnsureDirs creates a directory and its parents if they don't exist.
func (fs *OSFileSystem) EnsureDirs(path string) error {
	return os.MkdirAll(path, 0o755)
}

// ReadDir lists the entries of a directory sorted by name.
func (fs *OSFileSystem) ReadDir(path string) ([]os.DirEntry, error) {
	return os.ReadDir(path)
}
