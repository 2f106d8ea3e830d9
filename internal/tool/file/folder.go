package file

import (
	"context"
	"os"
	"path/filepath"
	"sort"
)

func (e *Executor) createFolder(t target) (*Result, error) {
	info, err := e.fs.Stat(t.abs)
	switch {
	case err == nil && info.IsDir():
		return &Result{Kind: t.kind, Path: t.rel, AbsolutePath: t.abs}, nil
	case err == nil:
		return nil, t.fail(ErrAlreadyExists, ErrNotDirectory)
	case !os.IsNotExist(err):
		return nil, t.fail(ErrIO, err)
	}

	if err := e.fs.EnsureDirs(t.abs); err != nil {
		return nil, t.fail(ErrIO, err)
	}
	return &Result{Kind: t.kind, Path: t.rel, AbsolutePath: t.abs, Created: true}, nil
}

func (e *Executor) listFolder(ctx context.Context, t target, recursive bool) (*Result, error) {
	info, err := e.statExisting(t)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, t.fail(ErrIO, ErrNotDirectory)
	}

	l := lister{fs: e.fs, ignore: e.ignore, limit: e.config.Tools.MaxListEntries, recursive: recursive}
	if err := l.walk(ctx, t.abs, t.rel); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, t.fail(ErrIO, err)
	}
	sort.Strings(l.entries)

	return &Result{
		Kind:         t.kind,
		Path:         t.rel,
		AbsolutePath: t.abs,
		Entries:      l.entries,
		Truncated:    l.truncated,
	}, nil
}

type lister struct {
	fs        fileSystem
	ignore    ignoreMatcher
	limit     int
	recursive bool

	entries   []string
	truncated bool
}

// walk appends entries below dir as workspace-relative paths.
func (l *lister) walk(ctx context.Context, dir, rel string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	items, err := l.fs.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, item := range items {
		if l.truncated {
			return nil
		}
		childRel := item.Name()
		if rel != "" {
			childRel = rel + "/" + item.Name()
		}
		isDir := item.IsDir()
		if l.ignore != nil && l.ignore.ShouldIgnore(childRel, isDir) {
			continue
		}
		if len(l.entries) >= l.limit {
			l.truncated = true
			return nil
		}

		if !isDir {
			l.entries = append(l.entries, childRel)
			continue
		}
		l.entries = append(l.entries, childRel+"/")
		if l.recursive {
			if err := l.walk(ctx, filepath.Join(dir, item.Name()), childRel); err != nil {
				return err
			}
		}
	}
	return nil
}
