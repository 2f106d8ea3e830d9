package workflow

// Event is the interface for all workflow events.
// UI handles events via type switch.
type Event interface {
	isEvent()
}

// TextEvent is emitted when the LLM produces text output.
type TextEvent struct {
	Text string
}

func (TextEvent) isEvent() {}

// ThinkingEvent is emitted when a model request starts.
type ThinkingEvent struct {
	Iteration int
}

func (ThinkingEvent) isEvent() {}

// StateEvent is emitted on every turn state transition.
type StateEvent struct {
	From State
	To   State
}

func (StateEvent) isEvent() {}

// DoneEvent is emitted when a turn completes. Err is nil on success.
type DoneEvent struct {
	Err error
}

func (DoneEvent) isEvent() {}

// ToolStartEvent is emitted when a tool execution begins.
type ToolStartEvent struct {
	CallID         string
	ToolName       string
	RequestDisplay string // e.g., "read_file src/index.ts"
}

func (ToolStartEvent) isEvent() {}

// ToolEndEvent is emitted when a tool call has a result.
type ToolEndEvent struct {
	CallID   string
	ToolName string
	OK       bool
	Summary  string
}

func (ToolEndEvent) isEvent() {}
