package gemini

import (
	"context"

	"google.golang.org/genai"
)

// ContentGenerator is the one SDK call the backend makes. Tests replace it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

var _ ContentGenerator = sdkGenerator{}

// sdkGenerator routes GenerateContent to genai's Models service.
type sdkGenerator struct {
	models *genai.Models
}

func (g sdkGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return g.models.GenerateContent(ctx, model, contents, config)
}
