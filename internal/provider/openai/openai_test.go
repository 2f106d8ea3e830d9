package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cyclone1070/codr/internal/config"
	"github.com/Cyclone1070/codr/internal/provider"
	"github.com/Cyclone1070/codr/internal/tool"
)

func newTestBackend(t *testing.T, handler http.HandlerFunc) *Backend {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(config.ProviderConfig{BaseURL: srv.URL, APIKey: "sk-test", Model: "test-model"})
}

func TestComplete_SendsConversationAndTools(t *testing.T) {
	var body map[string]any
	var auth string
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"1","object":"chat.completion","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"done"}}]}`)
	})

	messages := []provider.Message{
		provider.SystemMessage("sys"),
		provider.UserMessage("make hello.txt"),
		{Role: provider.RoleAssistant, ToolCalls: []provider.ToolCall{
			{ID: "c1", Function: provider.FunctionCall{Name: "create_file", Arguments: `{"file_path":"hello.txt","content":"hi"}`}},
		}},
		provider.ToolMessage("c1", "create_file", `{"ok":true}`),
	}

	resp, err := b.Complete(context.Background(), messages, tool.Catalog())

	require.NoError(t, err)
	assert.Equal(t, "done", resp.Text)
	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, "test-model", body["model"])

	sent := body["messages"].([]any)
	require.Len(t, sent, 4)
	assert.Equal(t, "system", sent[0].(map[string]any)["role"])
	call := sent[2].(map[string]any)["tool_calls"].([]any)[0].(map[string]any)
	assert.Equal(t, "c1", call["id"])
	assert.Equal(t, "create_file", call["function"].(map[string]any)["name"])
	toolMsg := sent[3].(map[string]any)
	assert.Equal(t, "tool", toolMsg["role"])
	assert.Equal(t, "c1", toolMsg["tool_call_id"])

	tools := body["tools"].([]any)
	assert.Len(t, tools, len(tool.Catalog()))
}

func TestComplete_ParsesToolCalls(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"choices":[{"finish_reason":"tool_calls","message":{"role":"assistant","content":"","tool_calls":[
			{"id":"a","type":"function","function":{"name":"read_file","arguments":"{\"file_path\":\"x\"}"}},
			{"id":"b","type":"function","function":{"name":"get_folder_files","arguments":"{}"}}
		]}}]}`)
	})

	resp, err := b.Complete(context.Background(), []provider.Message{provider.UserMessage("hi")}, nil)

	require.NoError(t, err)
	require.Len(t, resp.ToolCalls, 2)
	assert.Equal(t, "a", resp.ToolCalls[0].ID)
	assert.Equal(t, "read_file", resp.ToolCalls[0].Function.Name)
	assert.Equal(t, `{"file_path":"x"}`, resp.ToolCalls[0].Function.Arguments)
	assert.Equal(t, "get_folder_files", resp.ToolCalls[1].Function.Name)
}

func TestComplete_StatusMapping(t *testing.T) {
	tests := []struct {
		status    int
		class     error
		retryable bool
	}{
		{http.StatusUnauthorized, provider.ErrAuth, false},
		{http.StatusForbidden, provider.ErrAuth, false},
		{http.StatusTooManyRequests, provider.ErrTransport, true},
		{http.StatusInternalServerError, provider.ErrTransport, true},
		{http.StatusBadGateway, provider.ErrTransport, true},
		{http.StatusBadRequest, provider.ErrTransport, false},
		{http.StatusNotFound, provider.ErrTransport, false},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, `{"error":{"message":"nope"}}`)
			})

			_, err := b.Complete(context.Background(), []provider.Message{provider.UserMessage("hi")}, nil)

			assert.ErrorIs(t, err, tt.class)
			assert.Equal(t, tt.retryable, provider.IsRetryable(err))
		})
	}
}

func TestComplete_RetryAfterHeader(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "3")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := b.Complete(context.Background(), []provider.Message{provider.UserMessage("hi")}, nil)

	d := provider.GetRetryAfter(err)
	require.NotNil(t, d)
	assert.Equal(t, 3*time.Second, *d)
}

func TestComplete_MalformedBody_IsProtocolError(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"choices": [`)
	})

	_, err := b.Complete(context.Background(), []provider.Message{provider.UserMessage("hi")}, nil)

	assert.ErrorIs(t, err, provider.ErrProtocol)
	assert.False(t, provider.IsRetryable(err))
}

func TestComplete_NoChoices_IsProtocolError(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"choices":[]}`)
	})

	_, err := b.Complete(context.Background(), []provider.Message{provider.UserMessage("hi")}, nil)

	assert.ErrorIs(t, err, provider.ErrProtocol)
}

func TestComplete_ContentFilter_IsProtocolError(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"choices":[{"finish_reason":"content_filter","message":{"role":"assistant","content":""}}]}`)
	})

	_, err := b.Complete(context.Background(), []provider.Message{provider.UserMessage("hi")}, nil)

	assert.ErrorIs(t, err, provider.ErrProtocol)
}

func TestComplete_ConnectionRefused_IsRetryableTransport(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	b := New(config.ProviderConfig{BaseURL: url, Model: "m"})

	_, err := b.Complete(context.Background(), []provider.Message{provider.UserMessage("hi")}, nil)

	assert.ErrorIs(t, err, provider.ErrTransport)
	assert.True(t, provider.IsRetryable(err))
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Nil(t, parseRetryAfter("", now))
	assert.Nil(t, parseRetryAfter("soon", now))

	d := parseRetryAfter("Wed, 01 Jan 2025 00:00:10 GMT", now)
	require.NotNil(t, d)
	assert.Equal(t, 10*time.Second, *d)
}
