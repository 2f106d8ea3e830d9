package session

import "github.com/Cyclone1070/codr/internal/provider"

func fromMessages(messages []provider.Message) []Message {
	out := make([]Message, 0, len(messages))
	for _, m := range messages {
		msg := Message{
			Role:       string(m.Role),
			Content:    m.Content,
			Name:       m.Name,
			ToolCallID: m.ToolCallID,
		}
		for _, c := range m.ToolCalls {
			msg.ToolCalls = append(msg.ToolCalls, ToolCall{ID: c.ID, Name: c.Function.Name, Arguments: c.Function.Arguments})
		}
		out = append(out, msg)
	}
	return out
}

func toMessages(messages []Message) []provider.Message {
	out := make([]provider.Message, 0, len(messages))
	for _, m := range messages {
		msg := provider.Message{
			Role:       provider.Role(m.Role),
			Content:    m.Content,
			Name:       m.Name,
			ToolCallID: m.ToolCallID,
		}
		for _, c := range m.ToolCalls {
			msg.ToolCalls = append(msg.ToolCalls, provider.ToolCall{
				ID:       c.ID,
				Function: provider.FunctionCall{Name: c.Name, Arguments: c.Arguments},
			})
		}
		out = append(out, msg)
	}
	return out
}
