package file

import (
	"errors"
	"fmt"

	"github.com/Cyclone1070/codr/internal/tool/helper/content"
	"github.com/Cyclone1070/codr/internal/tool/service/fs"
)

func (e *Executor) read(t target) (*Result, error) {
	info, err := e.statExisting(t)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, t.fail(ErrIO, ErrIsDirectory)
	}

	limit := e.config.Tools.MaxFileSize
	if info.Size() > limit {
		return nil, t.fail(ErrUnsupportedContent, fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, info.Size(), limit))
	}

	data, err := e.fs.ReadFile(t.abs, limit)
	if err != nil {
		if errors.Is(err, fs.ErrTooLarge) {
			return nil, t.fail(ErrUnsupportedContent, ErrTooLarge)
		}
		return nil, t.fail(ErrIO, err)
	}
	if reason := content.Describe(data); reason != "" {
		return nil, t.fail(ErrUnsupportedContent, fmt.Errorf("%w: %s", ErrNotText, reason))
	}

	return &Result{
		Kind:         t.kind,
		Path:         t.rel,
		AbsolutePath: t.abs,
		Content:      string(data),
	}, nil
}
