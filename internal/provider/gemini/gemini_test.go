package gemini

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/Cyclone1070/codr/internal/config"
	"github.com/Cyclone1070/codr/internal/provider"
	"github.com/Cyclone1070/codr/internal/tool"
)

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: roleModel, Parts: []*genai.Part{genai.NewPartFromText(text)}},
		}},
	}
}

func TestComplete_TextResponse(t *testing.T) {
	var gotModel string
	var gotConfig *genai.GenerateContentConfig
	mock := &MockGeminiClient{
		GenerateContentFunc: func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			gotModel = model
			gotConfig = config
			return textResponse("hello"), nil
		},
	}
	b := New(mock, "gemini-2.5-flash")

	resp, err := b.Complete(context.Background(), []provider.Message{
		provider.SystemMessage("be brief"),
		provider.UserMessage("hi"),
	}, tool.Catalog())

	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Text)
	assert.Empty(t, resp.ToolCalls)
	assert.Equal(t, "gemini-2.5-flash", gotModel)
	require.NotNil(t, gotConfig.SystemInstruction)
	assert.Equal(t, "be brief", gotConfig.SystemInstruction.Parts[0].Text)
	require.Len(t, gotConfig.Tools, 1)
	assert.Len(t, gotConfig.Tools[0].FunctionDeclarations, len(tool.Catalog()))
}

func TestComplete_FunctionCalls(t *testing.T) {
	mock := &MockGeminiClient{
		GenerateContentFunc: func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			return &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{
					Content: &genai.Content{Role: roleModel, Parts: []*genai.Part{
						{FunctionCall: &genai.FunctionCall{ID: "call-1", Name: "read_file", Args: map[string]any{"file_path": "a.txt"}}},
						{FunctionCall: &genai.FunctionCall{Name: "get_folder_files", Args: map[string]any{"folder_path": "."}}},
					}},
				}},
			}, nil
		},
	}
	b := New(mock, "m")

	resp, err := b.Complete(context.Background(), []provider.Message{provider.UserMessage("go")}, nil)

	require.NoError(t, err)
	require.Len(t, resp.ToolCalls, 2)
	assert.Equal(t, "call-1", resp.ToolCalls[0].ID)
	assert.Equal(t, "read_file", resp.ToolCalls[0].Function.Name)
	assert.JSONEq(t, `{"file_path":"a.txt"}`, resp.ToolCalls[0].Function.Arguments)
	assert.NotEmpty(t, resp.ToolCalls[1].ID, "missing ids are generated")
	assert.NotEqual(t, resp.ToolCalls[0].ID, resp.ToolCalls[1].ID)
}

func TestComplete_SafetyBlock_IsProtocolError(t *testing.T) {
	mock := &MockGeminiClient{
		GenerateContentFunc: func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			return &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
			}, nil
		},
	}

	_, err := New(mock, "m").Complete(context.Background(), nil, nil)

	assert.ErrorIs(t, err, provider.ErrProtocol)
	assert.False(t, provider.IsRetryable(err))
}

func TestComplete_NoCandidates_IsProtocolError(t *testing.T) {
	mock := &MockGeminiClient{
		GenerateContentFunc: func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			return &genai.GenerateContentResponse{}, nil
		},
	}

	_, err := New(mock, "m").Complete(context.Background(), nil, nil)

	assert.ErrorIs(t, err, provider.ErrProtocol)
}

func TestMapGeminiError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		class     error
		retryable bool
	}{
		{"unauthorized", genai.APIError{Code: 401, Message: "bad key"}, provider.ErrAuth, false},
		{"forbidden pointer", &genai.APIError{Code: 403}, provider.ErrAuth, false},
		{"rate limited", genai.APIError{Code: 429}, provider.ErrTransport, true},
		{"bad request", genai.APIError{Code: 400}, provider.ErrTransport, false},
		{"server error", genai.APIError{Code: 503}, provider.ErrTransport, true},
		{"plain error", errors.New("connection reset"), provider.ErrTransport, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapGeminiError(tt.err)
			assert.ErrorIs(t, err, tt.class)
			assert.Equal(t, tt.retryable, provider.IsRetryable(err))
		})
	}
}

func TestMapGeminiError_RetryInfo(t *testing.T) {
	err := mapGeminiError(genai.APIError{
		Code: 429,
		Details: []map[string]any{
			{"@type": "type.googleapis.com/google.rpc.RetryInfo", "retryDelay": "7s"},
		},
	})

	d := provider.GetRetryAfter(err)
	require.NotNil(t, d)
	assert.Equal(t, "7s", d.String())
}

func TestNewFromConfig_UsesBaseURLAndKey(t *testing.T) {
	var path, key string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		key = r.Header.Get("x-goog-api-key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"hi"}]},"finishReason":"STOP"}]}`)
	}))
	defer srv.Close()

	b, err := NewFromConfig(context.Background(), config.ProviderConfig{
		Backend: config.BackendGemini,
		BaseURL: srv.URL,
		APIKey:  "gm-key",
		Model:   "gemini-test",
	})
	require.NoError(t, err)

	resp, err := b.Complete(context.Background(), []provider.Message{provider.UserMessage("hello")}, nil)

	require.NoError(t, err)
	assert.Equal(t, "hi", resp.Text)
	assert.Contains(t, path, "gemini-test:generateContent")
	assert.Equal(t, "gm-key", key)
}
