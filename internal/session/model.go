package session

// Snapshot is the YAML form of a persisted session.
type Snapshot struct {
	ID       string    `yaml:"id"`
	Model    string    `yaml:"model,omitempty"`
	Turns    int       `yaml:"turns"`
	Messages []Message `yaml:"messages"`
}

type Message struct {
	Role       string     `yaml:"role"`
	Content    string     `yaml:"content,omitempty"`
	Name       string     `yaml:"name,omitempty"`
	ToolCallID string     `yaml:"tool_call_id,omitempty"`
	ToolCalls  []ToolCall `yaml:"tool_calls,omitempty"`
}

type ToolCall struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Arguments string `yaml:"arguments"`
}
