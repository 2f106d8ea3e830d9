package provider

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one entry of the conversation sent to the model.
type Message struct {
	Role       Role
	Content    string
	ToolCalls  []ToolCall // assistant only
	ToolCallID string     // tool only: the call this message answers
	Name       string     // tool only: the called tool's name
}

// ToolCall is a structured request from the model to invoke one tool.
type ToolCall struct {
	ID       string
	Function FunctionCall
}

// FunctionCall names the tool and carries its arguments as JSON object text.
type FunctionCall struct {
	Name      string
	Arguments string
}

// Response is the model's reply to one request.
type Response struct {
	Text      string
	ToolCalls []ToolCall
}

// Message converts the response into the assistant message to append.
func (r *Response) Message() Message {
	return Message{
		Role:      RoleAssistant,
		Content:   r.Text,
		ToolCalls: append([]ToolCall(nil), r.ToolCalls...),
	}
}

// SystemMessage returns a system message with the given content.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage returns a user message with the given content.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// ToolMessage returns the tool message answering the call with id.
func ToolMessage(id, name, content string) Message {
	return Message{Role: RoleTool, Content: content, ToolCallID: id, Name: name}
}
