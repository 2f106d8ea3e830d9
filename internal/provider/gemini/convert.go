package gemini

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/Cyclone1070/codr/internal/provider"
	"github.com/Cyclone1070/codr/internal/tool"
)

const (
	roleUser  = "user"
	roleModel = "model"
)

// toGeminiContents converts conversation messages to Gemini contents.
// System messages become the system instruction. Consecutive tool messages
// are merged into one user content, which is how Gemini pairs several
// function responses with one model turn.
func toGeminiContents(messages []provider.Message) ([]*genai.Content, *genai.Content) {
	var system *genai.Content
	contents := make([]*genai.Content, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case provider.RoleSystem:
			if system == nil {
				system = &genai.Content{}
			}
			system.Parts = append(system.Parts, genai.NewPartFromText(msg.Content))

		case provider.RoleTool:
			part := &genai.Part{FunctionResponse: &genai.FunctionResponse{
				ID:       msg.ToolCallID,
				Name:     msg.Name,
				Response: toolResponse(msg.Content),
			}}
			if n := len(contents); n > 0 && isFunctionResponses(contents[n-1]) {
				contents[n-1].Parts = append(contents[n-1].Parts, part)
				continue
			}
			contents = append(contents, &genai.Content{Role: roleUser, Parts: []*genai.Part{part}})

		case provider.RoleAssistant:
			parts := make([]*genai.Part, 0, len(msg.ToolCalls)+1)
			if msg.Content != "" {
				parts = append(parts, genai.NewPartFromText(msg.Content))
			}
			for _, call := range msg.ToolCalls {
				parts = append(parts, &genai.Part{FunctionCall: &genai.FunctionCall{
					ID:   call.ID,
					Name: call.Function.Name,
					Args: decodeArgs(call.Function.Arguments),
				}})
			}
			if len(parts) > 0 {
				contents = append(contents, &genai.Content{Role: roleModel, Parts: parts})
			}

		default:
			contents = append(contents, &genai.Content{
				Role:  roleUser,
				Parts: []*genai.Part{genai.NewPartFromText(msg.Content)},
			})
		}
	}

	return contents, system
}

func isFunctionResponses(c *genai.Content) bool {
	if c.Role != roleUser || len(c.Parts) == 0 {
		return false
	}
	for _, p := range c.Parts {
		if p.FunctionResponse == nil {
			return false
		}
	}
	return true
}

// toolResponse uses a JSON object payload as is and wraps anything else.
func toolResponse(content string) map[string]any {
	var m map[string]any
	if err := json.Unmarshal([]byte(content), &m); err == nil && m != nil {
		return m
	}
	return map[string]any{"output": content}
}

func decodeArgs(raw string) map[string]any {
	args := map[string]any{}
	if raw != "" {
		_ = json.Unmarshal([]byte(raw), &args)
	}
	return args
}

// defaultSafetySettings returns safety settings with BLOCK_NONE for all categories.
func defaultSafetySettings() []*genai.SafetySetting {
	return []*genai.SafetySetting{
		{
			Category:  genai.HarmCategoryHateSpeech,
			Threshold: genai.HarmBlockThresholdOff,
		},
		{
			Category:  genai.HarmCategoryDangerousContent,
			Threshold: genai.HarmBlockThresholdOff,
		},
		{
			Category:  genai.HarmCategoryHarassment,
			Threshold: genai.HarmBlockThresholdOff,
		},
		{
			Category:  genai.HarmCategorySexuallyExplicit,
			Threshold: genai.HarmBlockThresholdOff,
		},
	}
}

// toGeminiTools converts tool declarations to Gemini tools.
func toGeminiTools(decls []tool.Declaration) []*genai.Tool {
	if len(decls) == 0 {
		return nil
	}

	functionDeclarations := make([]*genai.FunctionDeclaration, 0, len(decls))
	for _, d := range decls {
		functionDeclarations = append(functionDeclarations, &genai.FunctionDeclaration{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  toGeminiSchema(d.Parameters),
		})
	}

	return []*genai.Tool{
		{FunctionDeclarations: functionDeclarations},
	}
}

// toGeminiSchema converts a tool schema to a Gemini schema.
func toGeminiSchema(s *tool.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	schema := &genai.Schema{
		Type:        toGeminiType(s.Type),
		Description: s.Description,
		Items:       toGeminiSchema(s.Items),
	}
	if len(s.Properties) > 0 {
		schema.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			schema.Properties[name] = toGeminiSchema(prop)
		}
	}
	if len(s.Required) > 0 {
		schema.Required = append([]string(nil), s.Required...)
	}
	if len(s.Enum) > 0 {
		schema.Enum = append([]string(nil), s.Enum...)
	}
	return schema
}

// toGeminiType converts a schema type to a Gemini type.
func toGeminiType(t tool.Type) genai.Type {
	switch t {
	case tool.TypeNumber:
		return genai.TypeNumber
	case tool.TypeInteger:
		return genai.TypeInteger
	case tool.TypeBoolean:
		return genai.TypeBoolean
	case tool.TypeArray:
		return genai.TypeArray
	case tool.TypeObject:
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

// fromGeminiResponse converts a Gemini response to a provider response.
// Calls without an id are given one so tool messages can answer them.
func fromGeminiResponse(resp *genai.GenerateContentResponse) (*provider.Response, error) {
	if resp == nil {
		return nil, provider.Malformed("nil response")
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, &provider.Error{
			Code:    provider.ErrorCodeContentBlocked,
			Message: fmt.Sprintf("prompt blocked: %s", resp.PromptFeedback.BlockReason),
		}
	}
	if len(resp.Candidates) == 0 {
		return nil, provider.Malformed("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return nil, &provider.Error{
			Code:    provider.ErrorCodeContentBlocked,
			Message: "content blocked by safety filters",
		}
	}

	out := &provider.Response{}
	if candidate.Content == nil {
		return out, nil
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		switch {
		case part.FunctionCall != nil:
			id := part.FunctionCall.ID
			if id == "" {
				id = uuid.NewString()
			}
			args, err := json.Marshal(part.FunctionCall.Args)
			if err != nil {
				return nil, provider.Malformed("function call %s: %v", part.FunctionCall.Name, err)
			}
			if part.FunctionCall.Args == nil {
				args = []byte("{}")
			}
			out.ToolCalls = append(out.ToolCalls, provider.ToolCall{
				ID:       id,
				Function: provider.FunctionCall{Name: part.FunctionCall.Name, Arguments: string(args)},
			})
		case part.Text != "" && !part.Thought:
			text.WriteString(part.Text)
		}
	}
	out.Text = text.String()
	return out, nil
}

// mapGeminiError maps Gemini API errors to provider errors.
func mapGeminiError(err error) error {
	if err == nil {
		return nil
	}

	apiErr, ok := asAPIError(err)
	if !ok {
		// Generic network error
		return &provider.Error{
			Code:       provider.ErrorCodeNetwork,
			Message:    "network error",
			Underlying: err,
			Retryable:  true,
		}
	}

	perr := provider.FromStatus(apiErr.Code, apiErr.Message, err)
	if perr.Code == provider.ErrorCodeRateLimit {
		perr.RetryAfter = parseRetryAfter(apiErr)
	}
	return perr
}

func asAPIError(err error) (*genai.APIError, bool) {
	var ptr *genai.APIError
	if errors.As(err, &ptr) {
		return ptr, true
	}
	var val genai.APIError
	if errors.As(err, &val) {
		return &val, true
	}
	return nil, false
}

// parseRetryAfter reads the retryDelay of a google.rpc.RetryInfo detail.
func parseRetryAfter(apiErr *genai.APIError) *time.Duration {
	for _, detail := range apiErr.Details {
		typ, _ := detail["@type"].(string)
		if !strings.HasSuffix(typ, "google.rpc.RetryInfo") {
			continue
		}
		delay, _ := detail["retryDelay"].(string)
		if d, err := time.ParseDuration(delay); err == nil && d > 0 {
			return &d
		}
	}
	return nil
}
