package file

import "os"

// fileSystem is the filesystem surface the executor needs.
type fileSystem interface {
	Stat(path string) (os.FileInfo, error)
	ReadFile(path string, limit int64) ([]byte, error)
	WriteFileAtomic(path string, content []byte, perm os.FileMode) error
	AppendFile(path string, content []byte) error
	EnsureDirs(path string) error
	ReadDir(path string) ([]os.DirEntry, error)
}

// pathResolver maps a requested path to its canonical location in the workspace.
type pathResolver interface {
	Resolve(path string) (abs string, rel string, err error)
}

// ignoreMatcher hides entries from folder listings.
type ignoreMatcher interface {
	ShouldIgnore(relativePath string, isDir bool) bool
}
