package toolmanager

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Cyclone1070/codr/internal/config"
	"github.com/Cyclone1070/codr/internal/policy"
	"github.com/Cyclone1070/codr/internal/provider"
	"github.com/Cyclone1070/codr/internal/tool"
	"github.com/Cyclone1070/codr/internal/tool/file"
	"github.com/Cyclone1070/codr/internal/workflow"
)

// ToolManager turns the tool calls of one assistant message into results.
type ToolManager struct {
	files          fileExecutor
	policy         permissionChecker
	allowOverwrite bool
	maxParallel    int
	logger         *zap.Logger
}

func NewToolManager(files fileExecutor, checker permissionChecker, cfg *config.Config, logger *zap.Logger) *ToolManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ToolManager{
		files:          files,
		policy:         checker,
		allowOverwrite: cfg.Policy.AllowOverwrite,
		maxParallel:    max(cfg.Tools.MaxParallelCalls, 1),
		logger:         logger.Named("tools"),
	}
}

// Declarations returns all tool schemas for the LLM.
func (m *ToolManager) Declarations() []tool.Declaration {
	return tool.Catalog()
}

// prepared is a call that passed resolution, decoding and confirmation.
type prepared struct {
	index int
	call  provider.ToolCall
	req   file.Request
	key   string // resolved absolute path
}

// ExecuteBatch returns exactly one result per call, in call order.
//
// Preparation runs sequentially in call order. Execution groups calls whose
// resolved paths are equal or nested: groups run concurrently, calls in a
// group run in order.
// A batch holding a directory operation runs sequentially. Calls that never
// ran because ctx was cancelled get an Aborted result.
func (m *ToolManager) ExecuteBatch(ctx context.Context, calls []provider.ToolCall, events chan<- workflow.Event) []Result {
	results := make([]Result, len(calls))
	var ready []prepared
	sequential := false

	for i, call := range calls {
		if ctx.Err() != nil {
			results[i] = aborted(call)
			continue
		}
		p, res, ok := m.prepare(ctx, i, call)
		if !ok {
			results[i] = res
			workflow.Emit(events, workflow.ToolEndEvent{CallID: call.ID, ToolName: call.Function.Name, Summary: res.Summary})
			continue
		}
		if p.req.Kind.IsDirectoryOp() {
			sequential = true
		}
		ready = append(ready, p)
	}

	if sequential {
		for _, p := range ready {
			results[p.index] = m.run(ctx, p, events)
		}
		return results
	}

	var eg errgroup.Group
	eg.SetLimit(m.maxParallel)
	for _, group := range groupByPath(ready) {
		eg.Go(func() error {
			for _, p := range group {
				results[p.index] = m.run(ctx, p, events)
			}
			return nil
		})
	}
	_ = eg.Wait()

	return results
}

// groupByPath partitions calls so that calls whose paths are equal or nested
// share a group. Groups and their calls keep call order.
func groupByPath(ready []prepared) [][]prepared {
	parent := make([]int, len(ready))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	for i := range ready {
		for j := 0; j < i; j++ {
			if overlaps(ready[i].key, ready[j].key) {
				parent[find(i)] = find(j)
			}
		}
	}

	var groups [][]prepared
	byRoot := make(map[int]int)
	for i, p := range ready {
		r := find(i)
		g, ok := byRoot[r]
		if !ok {
			g = len(groups)
			byRoot[r] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], p)
	}
	return groups
}

// overlaps reports whether a and b are the same path or one contains the other.
func overlaps(a, b string) bool {
	return a == b || within(a, b) || within(b, a)
}

func within(p, dir string) bool {
	return strings.HasPrefix(p, strings.TrimSuffix(dir, string(filepath.Separator))+string(filepath.Separator))
}

// prepare resolves, decodes and confirms one call. On failure the returned
// Result is the error result for the call.
func (m *ToolManager) prepare(ctx context.Context, index int, call provider.ToolCall) (prepared, Result, bool) {
	name := call.Function.Name
	spec, err := tool.Lookup(name)
	if err != nil {
		return prepared{}, failure(call.ID, name, KindToolResolution,
			fmt.Errorf("%w; available tools: %v", err, tool.Names())), false
	}

	args, err := spec.Decode(call.Function.Arguments)
	if err != nil {
		return prepared{}, failure(call.ID, name, KindToolResolution, err), false
	}

	req := file.Request{
		Kind:      spec.Kind,
		Path:      args.Path(),
		Content:   args.Content,
		Overwrite: args.Overwrite != nil && *args.Overwrite && m.allowOverwrite,
		Recursive: args.Recursive == nil || *args.Recursive,
	}
	if err := req.Validate(); err != nil {
		return prepared{}, failure(call.ID, name, KindToolResolution, err), false
	}

	abs, err := m.files.Resolve(req.Path)
	if err != nil {
		return prepared{}, m.fileFailure(call, err), false
	}

	// The create variant is only destructive once overwrite is effective.
	args.Overwrite = &req.Overwrite
	err = m.policy.Check(ctx, policy.Request{
		Tool:        name,
		Path:        req.Path,
		Content:     req.Content,
		Destructive: spec.IsDestructive(args),
	})
	switch {
	case err == nil:
	case errors.Is(err, policy.ErrUserDenied):
		return prepared{}, failure(call.ID, name, KindUserDenied, err), false
	case ctx.Err() != nil:
		return prepared{}, aborted(call), false
	default:
		return prepared{}, failure(call.ID, name, KindUserDenied, err), false
	}

	return prepared{index: index, call: call, req: req, key: abs}, Result{}, true
}

func (m *ToolManager) run(ctx context.Context, p prepared, events chan<- workflow.Event) Result {
	name := p.call.Function.Name
	if ctx.Err() != nil {
		return aborted(p.call)
	}

	workflow.Emit(events, workflow.ToolStartEvent{
		CallID:         p.call.ID,
		ToolName:       name,
		RequestDisplay: fmt.Sprintf("%s %s", name, p.req.Path),
	})

	res, err := m.files.Execute(ctx, p.req)
	var out Result
	switch {
	case err == nil:
		out = success(p.call.ID, name, res)
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		out = aborted(p.call)
	default:
		out = m.fileFailure(p.call, err)
	}

	m.logger.Debug("tool call finished",
		zap.String("tool", name),
		zap.String("call_id", p.call.ID),
		zap.String("status", string(out.Status)),
		zap.String("kind", out.Kind))
	workflow.Emit(events, workflow.ToolEndEvent{CallID: p.call.ID, ToolName: name, OK: out.OK(), Summary: out.Summary})
	return out
}

func (m *ToolManager) fileFailure(call provider.ToolCall, err error) Result {
	kind := file.KindName(err)
	switch {
	case kind != "":
	case errors.Is(err, tool.ErrToolResolution):
		kind = KindToolResolution
	default:
		kind = "IOError"
	}
	return failure(call.ID, call.Function.Name, kind, err)
}

func aborted(call provider.ToolCall) Result {
	return failure(call.ID, call.Function.Name, KindAborted, errors.New("not executed: turn aborted"))
}
