package workflow

// State is the position of a session in the turn state machine.
type State int

const (
	StateAwaitingUserInput State = iota
	StateModelRequested
	StateToolCallsPending
	StateToolsExecuting
	StateResponding
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateAwaitingUserInput:
		return "AwaitingUserInput"
	case StateModelRequested:
		return "ModelRequested"
	case StateToolCallsPending:
		return "ToolCallsPending"
	case StateToolsExecuting:
		return "ToolsExecuting"
	case StateResponding:
		return "Responding"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Emit sends ev on events when events is non-nil.
func Emit(events chan<- Event, ev Event) {
	if events != nil {
		events <- ev
	}
}
