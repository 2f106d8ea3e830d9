package loop

import (
	"context"

	"github.com/Cyclone1070/codr/internal/provider"
	"github.com/Cyclone1070/codr/internal/tool"
	"github.com/Cyclone1070/codr/internal/workflow"
	"github.com/Cyclone1070/codr/internal/workflow/toolmanager"
)

// llmClient communicates with an LLM.
type llmClient interface {
	// Send delivers the conversation and tool catalog and returns the reply.
	Send(ctx context.Context, messages []provider.Message, tools []tool.Declaration) (*provider.Response, error)
}

// toolManager dispatches the tool calls of one assistant message.
type toolManager interface {
	// Declarations returns all tool schemas for the LLM.
	Declarations() []tool.Declaration

	// ExecuteBatch returns one result per call, in call order.
	// It emits ToolStartEvent and ToolEndEvent to the events channel.
	ExecuteBatch(ctx context.Context, calls []provider.ToolCall, events chan<- workflow.Event) []toolmanager.Result
}
