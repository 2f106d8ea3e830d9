package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cyclone1070/codr/internal/provider"
)

func assistantCalling(ids ...string) provider.Message {
	m := provider.Message{Role: provider.RoleAssistant}
	for _, id := range ids {
		m.ToolCalls = append(m.ToolCalls, provider.ToolCall{ID: id, Function: provider.FunctionCall{Name: "read_file"}})
	}
	return m
}

func TestNew_SystemPrompt(t *testing.T) {
	c := New("you are helpful")
	require.Equal(t, 1, c.Len())
	first, _ := c.Last()
	assert.Equal(t, provider.RoleSystem, first.Role)

	assert.Equal(t, 0, New("").Len())
}

func TestAppend_ToolMessagesAnswerPendingCalls(t *testing.T) {
	c := New("")

	require.NoError(t, c.Append(provider.UserMessage("hi"), assistantCalling("a", "b")))
	assert.Equal(t, 2, c.Pending())

	require.NoError(t, c.Append(
		provider.ToolMessage("a", "read_file", "{}"),
		provider.ToolMessage("b", "read_file", "{}"),
	))
	assert.Equal(t, 0, c.Pending())
	assert.Equal(t, 4, c.Len())
}

func TestAppend_RejectsUnknownToolCall(t *testing.T) {
	c := New("")
	require.NoError(t, c.Append(assistantCalling("a")))

	err := c.Append(provider.ToolMessage("zzz", "read_file", "{}"))

	assert.ErrorIs(t, err, ErrUnknownToolCall)
	assert.ErrorIs(t, err, ErrInvalidMessage)
	assert.Equal(t, 1, c.Len())
}

func TestAppend_RejectsDoubleAnswer(t *testing.T) {
	c := New("")
	require.NoError(t, c.Append(assistantCalling("a"), provider.ToolMessage("a", "read_file", "{}")))

	err := c.Append(provider.ToolMessage("a", "read_file", "{}"))

	assert.ErrorIs(t, err, ErrUnknownToolCall)
}

func TestAppend_IsAllOrNothing(t *testing.T) {
	c := New("")
	require.NoError(t, c.Append(assistantCalling("a")))

	err := c.Append(
		provider.ToolMessage("a", "read_file", "{}"),
		provider.ToolMessage("b", "read_file", "{}"),
	)

	require.Error(t, err)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 1, c.Pending(), "pending set is unchanged after a rejected append")
}

func TestAppend_InvalidAssistantCalls(t *testing.T) {
	c := New("")

	assert.ErrorIs(t, c.Append(assistantCalling("")), ErrInvalidMessage)
	assert.ErrorIs(t, c.Append(assistantCalling("x", "x")), ErrInvalidMessage)
	assert.ErrorIs(t, c.Append(provider.Message{Role: "robot"}), ErrInvalidMessage)
}

func TestMessages_ReturnsCopy(t *testing.T) {
	c := New("")
	require.NoError(t, c.Append(assistantCalling("a")))

	msgs := c.Messages()
	msgs[0].ToolCalls[0].ID = "mutated"

	fresh := c.Messages()
	assert.Len(t, fresh, 1)
	assert.Equal(t, "a", fresh[0].ToolCalls[0].ID)
}

func TestFromMessages(t *testing.T) {
	c, err := FromMessages([]provider.Message{
		provider.SystemMessage("sys"),
		provider.UserMessage("hi"),
		assistantCalling("a"),
		provider.ToolMessage("a", "read_file", "{}"),
	})
	require.NoError(t, err)
	assert.Equal(t, 4, c.Len())

	_, err = FromMessages([]provider.Message{provider.ToolMessage("a", "read_file", "{}")})
	assert.ErrorIs(t, err, ErrUnknownToolCall)
}
