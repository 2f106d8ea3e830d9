package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// maxSessionFileSize bounds how much of a session file is read.
const maxSessionFileSize = 64 * 1024 * 1024

type fileSystem interface {
	ReadFile(path string, limit int64) ([]byte, error)
	WriteFileAtomic(path string, content []byte, perm os.FileMode) error
	EnsureDirs(path string) error
}

// Store persists snapshots to a single YAML file.
type Store struct {
	path string
	fs   fileSystem
}

func NewStore(path string, fs fileSystem) *Store {
	return &Store{path: path, fs: fs}
}

// Path returns the session file path.
func (s *Store) Path() string { return s.path }

// Load reads the snapshot. A missing file returns (nil, nil).
func (s *Store) Load() (*Snapshot, error) {
	data, err := s.fs.ReadFile(s.path, maxSessionFileSize)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session file %s: %w", s.path, err)
	}

	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse session file %s: %w", s.path, err)
	}
	return &snap, nil
}

// Save replaces the session file atomically.
func (s *Store) Save(snap *Snapshot) error {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return err
	}
	if err := s.fs.EnsureDirs(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	return s.fs.WriteFileAtomic(s.path, data, 0o640)
}
