package loop

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Cyclone1070/codr/internal/conversation"
	"github.com/Cyclone1070/codr/internal/provider"
	"github.com/Cyclone1070/codr/internal/workflow"
)

var (
	// ErrIterationLimitExceeded is returned when a turn makes too many model requests.
	ErrIterationLimitExceeded = errors.New("iteration limit exceeded")
	// ErrTurnAborted is returned when the turn's context is cancelled.
	ErrTurnAborted = errors.New("turn aborted")
)

// TurnResult summarises a completed turn.
type TurnResult struct {
	Answer     string
	Iterations int // model requests made
	ToolCalls  int
	Appended   int // messages added to the conversation
}

type Loop struct {
	client        llmClient
	tools         toolManager
	events        chan<- workflow.Event
	maxIterations int
	logger        *zap.Logger

	mu    sync.Mutex
	state workflow.State
}

func NewLoop(client llmClient, tools toolManager, events chan<- workflow.Event, maxIterations int, logger *zap.Logger) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		client:        client,
		tools:         tools,
		events:        events,
		maxIterations: maxIterations,
		logger:        logger.Named("loop"),
		state:         workflow.StateAwaitingUserInput,
	}
}

// State returns the current turn state.
func (l *Loop) State() workflow.State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *Loop) setState(s workflow.State) {
	l.mu.Lock()
	from := l.state
	l.state = s
	l.mu.Unlock()
	if from != s {
		workflow.Emit(l.events, workflow.StateEvent{From: from, To: s})
	}
}

// RunTurn appends input to conv and drives the model until it answers
// without tool calls. Messages appended before a failure stay in conv.
// The loop leaves StateFailed when the next turn starts.
func (l *Loop) RunTurn(ctx context.Context, conv *conversation.Conversation, input string) (res *TurnResult, err error) {
	res = &TurnResult{}
	defer func() {
		if err != nil {
			l.setState(workflow.StateFailed)
			l.logger.Warn("turn failed", zap.Int("iterations", res.Iterations), zap.Error(err))
		}
		workflow.Emit(l.events, workflow.DoneEvent{Err: err})
	}()

	l.setState(workflow.StateAwaitingUserInput)
	if err := conv.Append(provider.UserMessage(input)); err != nil {
		return res, err
	}
	res.Appended++
	l.setState(workflow.StateModelRequested)

	for res.Iterations < l.maxIterations {
		if ctx.Err() != nil {
			return res, fmt.Errorf("%w: %w", ErrTurnAborted, ctx.Err())
		}

		res.Iterations++
		workflow.Emit(l.events, workflow.ThinkingEvent{Iteration: res.Iterations})

		resp, err := l.client.Send(ctx, conv.Messages(), l.tools.Declarations())
		if err != nil {
			if ctx.Err() != nil {
				return res, fmt.Errorf("%w: %w", ErrTurnAborted, ctx.Err())
			}
			return res, err
		}

		if err := conv.Append(resp.Message()); err != nil {
			perr := provider.Malformed("assistant message rejected")
			perr.Underlying = err
			return res, perr
		}
		res.Appended++

		if resp.Text != "" {
			workflow.Emit(l.events, workflow.TextEvent{Text: resp.Text})
		}

		if len(resp.ToolCalls) == 0 {
			l.setState(workflow.StateResponding)
			res.Answer = resp.Text
			l.setState(workflow.StateAwaitingUserInput)
			return res, nil
		}

		l.setState(workflow.StateToolCallsPending)
		l.setState(workflow.StateToolsExecuting)
		results := l.tools.ExecuteBatch(ctx, resp.ToolCalls, l.events)
		res.ToolCalls += len(results)

		msgs := make([]provider.Message, len(results))
		for i, r := range results {
			msgs[i] = r.Message()
		}
		if err := conv.Append(msgs...); err != nil {
			return res, fmt.Errorf("recording tool results: %w", err)
		}
		res.Appended += len(msgs)

		if ctx.Err() != nil {
			return res, fmt.Errorf("%w: %w", ErrTurnAborted, ctx.Err())
		}
		l.setState(workflow.StateModelRequested)
	}

	return res, fmt.Errorf("%w: %d model requests without a final answer", ErrIterationLimitExceeded, l.maxIterations)
}
