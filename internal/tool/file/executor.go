package file

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Cyclone1070/codr/internal/config"
	"github.com/Cyclone1070/codr/internal/tool"
	"github.com/Cyclone1070/codr/internal/tool/service/path"
)

// Executor performs single file operations confined to one workspace root.
type Executor struct {
	fs       fileSystem
	resolver pathResolver
	ignore   ignoreMatcher
	config   *config.Config
}

// NewExecutor creates an Executor with injected dependencies.
func NewExecutor(fs fileSystem, resolver pathResolver, ignore ignoreMatcher, cfg *config.Config) *Executor {
	return &Executor{
		fs:       fs,
		resolver: resolver,
		ignore:   ignore,
		config:   cfg,
	}
}

// Resolve returns the canonical absolute path a request path maps to.
// Failures carry the same kinds Execute would report.
func (e *Executor) Resolve(p string) (string, error) {
	abs, _, err := e.resolver.Resolve(p)
	if err != nil {
		return "", resolveError("resolve", p, err)
	}
	return abs, nil
}

// Execute validates and performs req.
// Paths escaping the workspace fail with ErrPathEscape before any other
// filesystem access.
func (e *Executor) Execute(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	abs, rel, err := e.resolver.Resolve(req.Path)
	if err != nil {
		return nil, resolveError(req.Kind.String(), req.Path, err)
	}
	t := target{kind: req.Kind, requested: req.Path, abs: abs, rel: rel}

	switch req.Kind {
	case tool.KindCreate:
		return e.create(t, req.Content, req.Overwrite)
	case tool.KindRead:
		return e.read(t)
	case tool.KindReplace:
		return e.replace(t, req.Content)
	case tool.KindAppend:
		return e.append(t, req.Content)
	case tool.KindCreateFolder:
		return e.createFolder(t)
	case tool.KindListFolder:
		return e.listFolder(ctx, t, req.Recursive)
	}
	// Unreachable after Validate.
	return nil, t.fail(ErrIO, nil)
}

// target carries the resolved location of one request.
type target struct {
	kind      tool.Kind
	requested string
	abs       string
	rel       string
}

func (t target) fail(kind, cause error) *OpError {
	return &OpError{Kind: kind, Op: t.kind.String(), Path: t.requested, Cause: cause}
}

// statExisting stats a target that must already exist.
func (e *Executor) statExisting(t target) (os.FileInfo, error) {
	info, err := e.fs.Stat(t.abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, t.fail(ErrNotFound, nil)
		}
		return nil, t.fail(ErrIO, err)
	}
	return info, nil
}

func (e *Executor) checkSize(t target, n int) error {
	if limit := e.config.Tools.MaxFileSize; int64(n) > limit {
		return t.fail(ErrUnsupportedContent, ErrTooLarge)
	}
	return nil
}

func resolveError(op, requested string, err error) error {
	switch {
	case errors.Is(err, path.ErrOutsideWorkspace):
		return &OpError{Kind: ErrPathEscape, Op: op, Path: requested, Cause: err}
	case errors.Is(err, path.ErrPathRequired):
		return fmt.Errorf("%w: path is required", tool.ErrInvalidArguments)
	default:
		return &OpError{Kind: ErrIO, Op: op, Path: requested, Cause: err}
	}
}
