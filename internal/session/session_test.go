package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cyclone1070/codr/internal/config"
	"github.com/Cyclone1070/codr/internal/conversation"
	"github.com/Cyclone1070/codr/internal/provider"
	"github.com/Cyclone1070/codr/internal/tool/service/fs"
	"github.com/Cyclone1070/codr/internal/workflow/loop"
)

type mockRunner struct {
	runFunc func(ctx context.Context, conv *conversation.Conversation, input string) (*loop.TurnResult, error)
	calls   int
}

func (m *mockRunner) RunTurn(ctx context.Context, conv *conversation.Conversation, input string) (*loop.TurnResult, error) {
	m.calls++
	return m.runFunc(ctx, conv, input)
}

// echoRunner answers every input with a fixed reply.
func echoRunner(reply string) *mockRunner {
	return &mockRunner{runFunc: func(ctx context.Context, conv *conversation.Conversation, input string) (*loop.TurnResult, error) {
		if err := conv.Append(provider.UserMessage(input), provider.Message{Role: provider.RoleAssistant, Content: reply}); err != nil {
			return nil, err
		}
		return &loop.TurnResult{Answer: reply, Iterations: 1, Appended: 2}, nil
	}}
}

func failingRunner(err error) *mockRunner {
	return &mockRunner{runFunc: func(context.Context, *conversation.Conversation, string) (*loop.TurnResult, error) {
		return &loop.TurnResult{}, err
	}}
}

func TestNew_StartsWithSystemPrompt(t *testing.T) {
	s, err := New(config.DefaultConfig(), echoRunner("hi"), WithSystemPrompt("be nice"))
	require.NoError(t, err)

	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, provider.RoleSystem, msgs[0].Role)
	assert.Equal(t, "be nice", msgs[0].Content)
	assert.NotEmpty(t, s.ID())
}

func TestSubmit_CountsTurns(t *testing.T) {
	s, err := New(config.DefaultConfig(), echoRunner("hi"))
	require.NoError(t, err)

	res, err := s.Submit(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi", res.Answer)

	_, err = s.Submit(context.Background(), "again")
	require.NoError(t, err)
	assert.Equal(t, 2, s.Turns())
	assert.Len(t, s.Messages(), 5)
}

func TestSubmit_TransportErrorKeepsSessionOpen(t *testing.T) {
	runner := failingRunner(provider.FromStatus(503, "", nil))
	s, err := New(config.DefaultConfig(), runner)
	require.NoError(t, err)

	_, err = s.Submit(context.Background(), "one")
	assert.ErrorIs(t, err, provider.ErrTransport)
	_, err = s.Submit(context.Background(), "two")
	assert.ErrorIs(t, err, provider.ErrTransport)

	assert.NoError(t, s.Err())
	assert.Equal(t, 2, runner.calls)
}

func TestSubmit_AuthErrorClosesSession(t *testing.T) {
	runner := failingRunner(provider.FromStatus(401, "bad key", nil))
	s, err := New(config.DefaultConfig(), runner)
	require.NoError(t, err)

	_, err = s.Submit(context.Background(), "one")
	require.ErrorIs(t, err, provider.ErrAuth)

	_, err = s.Submit(context.Background(), "two")
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.ErrorIs(t, err, provider.ErrAuth)
	assert.Equal(t, 1, runner.calls)
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(provider.FromStatus(403, "", nil)))
	assert.True(t, IsFatal(config.ErrMissingRequired))
	assert.False(t, IsFatal(loop.ErrIterationLimitExceeded))
	assert.False(t, IsFatal(errors.New("other")))
}

func TestStore_SaveAndRestore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session.yaml")
	store := NewStore(path, fs.NewOSFileSystem())
	cfg := config.DefaultConfig()
	cfg.Provider.Model = "qwen3"

	runner := &mockRunner{runFunc: func(ctx context.Context, conv *conversation.Conversation, input string) (*loop.TurnResult, error) {
		err := conv.Append(
			provider.UserMessage(input),
			provider.Message{Role: provider.RoleAssistant, ToolCalls: []provider.ToolCall{
				{ID: "c1", Function: provider.FunctionCall{Name: "read_file", Arguments: `{"file_path":"a"}`}},
			}},
			provider.ToolMessage("c1", "read_file", `{"status":"success"}`),
			provider.Message{Role: provider.RoleAssistant, Content: "done"},
		)
		return &loop.TurnResult{Answer: "done"}, err
	}}

	s, err := New(cfg, runner, WithStore(store), WithSystemPrompt("sys"))
	require.NoError(t, err)
	_, err = s.Submit(context.Background(), "read a")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tool_call_id: c1")
	assert.Contains(t, string(data), "model: qwen3")

	restored, err := New(cfg, echoRunner("x"), WithStore(store))
	require.NoError(t, err)
	assert.Equal(t, s.ID(), restored.ID())
	assert.Equal(t, 1, restored.Turns())
	assert.Equal(t, s.Messages(), restored.Messages())
}

func TestStore_MissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "none.yaml"), fs.NewOSFileSystem())

	snap, err := store.Load()

	assert.NoError(t, err)
	assert.Nil(t, snap)
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("messages: [unclosed"), 0o644))

	_, err := New(config.DefaultConfig(), echoRunner("x"), WithStore(NewStore(path, fs.NewOSFileSystem())))

	assert.Error(t, err)
}

func TestStore_InconsistentConversation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("id: x\nmessages:\n  - role: tool\n    tool_call_id: ghost\n"), 0o644))

	_, err := New(config.DefaultConfig(), echoRunner("x"), WithStore(NewStore(path, fs.NewOSFileSystem())))

	assert.ErrorIs(t, err, conversation.ErrUnknownToolCall)
}

func TestLoadSystemPrompt(t *testing.T) {
	root := t.TempDir()

	prompt, err := LoadSystemPrompt(root, "system_prompt.md")
	require.NoError(t, err)
	assert.Equal(t, DefaultSystemPrompt, prompt)

	require.NoError(t, os.WriteFile(filepath.Join(root, "system_prompt.md"), []byte("  custom prompt\n"), 0o644))
	prompt, err = LoadSystemPrompt(root, "system_prompt.md")
	require.NoError(t, err)
	assert.Equal(t, "custom prompt", prompt)
}
