package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/Cyclone1070/codr/internal/config"
	"github.com/Cyclone1070/codr/internal/provider"
	"github.com/Cyclone1070/codr/internal/tool"
)

// Backend implements provider.Backend for Google Gemini.
type Backend struct {
	client ContentGenerator
	model  string
}

// New creates a new Backend with the specified client and model.
func New(client ContentGenerator, model string) *Backend {
	return &Backend{client: client, model: model}
}

// NewFromConfig builds a Backend on the official SDK. An empty BaseURL
// uses the public Gemini endpoint.
func NewFromConfig(ctx context.Context, cfg config.ProviderConfig) (*Backend, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return New(sdkGenerator{models: client.Models}, cfg.Model), nil
}

// Name returns the backend name.
func (b *Backend) Name() string { return config.BackendGemini }

// Complete sends one request to the Gemini API and returns the response.
func (b *Backend) Complete(ctx context.Context, messages []provider.Message, tools []tool.Declaration) (*provider.Response, error) {
	contents, system := toGeminiContents(messages)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: system,
		SafetySettings:    defaultSafetySettings(),
		Tools:             toGeminiTools(tools),
	}

	resp, err := b.client.GenerateContent(ctx, b.model, contents, cfg)
	if err != nil {
		return nil, mapGeminiError(err)
	}
	return fromGeminiResponse(resp)
}
