package file

import (
	"os"
	"path/filepath"
)

const defaultFileMode os.FileMode = 0o644

func (e *Executor) create(t target, content string, overwrite bool) (*Result, error) {
	if err := e.checkSize(t, len(content)); err != nil {
		return nil, err
	}

	perm := defaultFileMode
	created := true
	info, err := e.fs.Stat(t.abs)
	switch {
	case err == nil && info.IsDir():
		return nil, t.fail(ErrAlreadyExists, ErrIsDirectory)
	case err == nil && !overwrite:
		return nil, t.fail(ErrAlreadyExists, nil)
	case err == nil:
		perm = info.Mode().Perm()
		created = false
	case !os.IsNotExist(err):
		return nil, t.fail(ErrIO, err)
	}

	if err := e.fs.EnsureDirs(filepath.Dir(t.abs)); err != nil {
		return nil, t.fail(ErrIO, err)
	}
	if err := e.fs.WriteFileAtomic(t.abs, []byte(content), perm); err != nil {
		return nil, t.fail(ErrIO, err)
	}

	return &Result{
		Kind:         t.kind,
		Path:         t.rel,
		AbsolutePath: t.abs,
		BytesWritten: len(content),
		Created:      created,
	}, nil
}

func (e *Executor) replace(t target, content string) (*Result, error) {
	info, err := e.statExisting(t)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, t.fail(ErrIO, ErrIsDirectory)
	}
	if err := e.checkSize(t, len(content)); err != nil {
		return nil, err
	}

	if err := e.fs.WriteFileAtomic(t.abs, []byte(content), info.Mode().Perm()); err != nil {
		return nil, t.fail(ErrIO, err)
	}

	return &Result{
		Kind:         t.kind,
		Path:         t.rel,
		AbsolutePath: t.abs,
		BytesWritten: len(content),
	}, nil
}

func (e *Executor) append(t target, content string) (*Result, error) {
	info, err := e.statExisting(t)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, t.fail(ErrIO, ErrIsDirectory)
	}

	if err := e.fs.AppendFile(t.abs, []byte(content)); err != nil {
		if os.IsNotExist(err) {
			return nil, t.fail(ErrNotFound, nil)
		}
		return nil, t.fail(ErrIO, err)
	}

	return &Result{
		Kind:         t.kind,
		Path:         t.rel,
		AbsolutePath: t.abs,
		BytesWritten: len(content),
	}, nil
}
