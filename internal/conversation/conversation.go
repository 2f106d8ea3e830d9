// Package conversation holds the ordered message log of one session.
package conversation

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Cyclone1070/codr/internal/provider"
)

var (
	// ErrInvalidMessage is returned for messages that break the log's invariants.
	ErrInvalidMessage = errors.New("invalid message")
	// ErrUnknownToolCall is returned when a tool message answers no pending call.
	ErrUnknownToolCall = fmt.Errorf("%w: tool message answers no pending call", ErrInvalidMessage)
)

// Conversation is an append-only message log. Every tool message must answer
// a call emitted by an earlier assistant message that has not been answered yet.
type Conversation struct {
	mu       sync.RWMutex
	messages []provider.Message
	pending  map[string]struct{}
}

// New creates a conversation. A non-empty system prompt becomes the first message.
func New(systemPrompt string) *Conversation {
	c := &Conversation{pending: make(map[string]struct{})}
	if systemPrompt != "" {
		c.messages = append(c.messages, provider.SystemMessage(systemPrompt))
	}
	return c
}

// FromMessages rebuilds a conversation, checking every message in order.
func FromMessages(messages []provider.Message) (*Conversation, error) {
	c := New("")
	if err := c.Append(messages...); err != nil {
		return nil, err
	}
	return c, nil
}

// Append adds messages to the end of the log. Either all messages are
// appended or, on error, none are.
func (c *Conversation) Append(messages ...provider.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	pending := make(map[string]struct{}, len(c.pending))
	for id := range c.pending {
		pending[id] = struct{}{}
	}

	for i, msg := range messages {
		if err := check(msg, pending); err != nil {
			return fmt.Errorf("message %d: %w", len(c.messages)+i, err)
		}
	}

	for _, msg := range messages {
		c.messages = append(c.messages, clone(msg))
	}
	c.pending = pending
	return nil
}

func check(msg provider.Message, pending map[string]struct{}) error {
	switch msg.Role {
	case provider.RoleSystem, provider.RoleUser:
		return nil

	case provider.RoleAssistant:
		for _, call := range msg.ToolCalls {
			if call.ID == "" {
				return fmt.Errorf("%w: tool call without id", ErrInvalidMessage)
			}
			if _, dup := pending[call.ID]; dup {
				return fmt.Errorf("%w: duplicate tool call id %q", ErrInvalidMessage, call.ID)
			}
			pending[call.ID] = struct{}{}
		}
		return nil

	case provider.RoleTool:
		if _, ok := pending[msg.ToolCallID]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownToolCall, msg.ToolCallID)
		}
		delete(pending, msg.ToolCallID)
		return nil

	default:
		return fmt.Errorf("%w: unknown role %q", ErrInvalidMessage, msg.Role)
	}
}

// Messages returns a copy of the log.
func (c *Conversation) Messages() []provider.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]provider.Message, len(c.messages))
	for i, m := range c.messages {
		out[i] = clone(m)
	}
	return out
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

// Last returns the most recent message.
func (c *Conversation) Last() (provider.Message, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.messages) == 0 {
		return provider.Message{}, false
	}
	return clone(c.messages[len(c.messages)-1]), true
}

// Pending reports how many tool calls are still unanswered.
func (c *Conversation) Pending() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pending)
}

func clone(m provider.Message) provider.Message {
	if m.ToolCalls != nil {
		m.ToolCalls = append([]provider.ToolCall(nil), m.ToolCalls...)
	}
	return m
}
