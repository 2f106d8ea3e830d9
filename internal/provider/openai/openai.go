// Package openai implements provider.Backend over any OpenAI-compatible
// chat completions endpoint.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	oai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/Cyclone1070/codr/internal/config"
	"github.com/Cyclone1070/codr/internal/provider"
	"github.com/Cyclone1070/codr/internal/tool"
)

// Backend sends non-streaming chat completion requests.
type Backend struct {
	client oai.Client
	model  string
}

// New creates a Backend for the configured endpoint. Retries are disabled
// in the SDK; provider.Client owns the retry policy.
func New(cfg config.ProviderConfig, opts ...option.RequestOption) *Backend {
	options := []option.RequestOption{
		option.WithBaseURL(cfg.BaseURL),
		option.WithMaxRetries(0),
	}
	if cfg.APIKey != "" {
		options = append(options, option.WithAPIKey(cfg.APIKey))
	}
	options = append(options, opts...)
	return &Backend{
		client: oai.NewClient(options...),
		model:  cfg.Model,
	}
}

// Name returns the backend name.
func (b *Backend) Name() string { return config.BackendOpenAI }

// Complete performs one chat completion request.
func (b *Backend) Complete(ctx context.Context, messages []provider.Message, tools []tool.Declaration) (*provider.Response, error) {
	params := oai.ChatCompletionNewParams{
		Model:    b.model,
		Messages: toParams(messages),
		Tools:    toTools(tools),
	}

	// The body is decoded here so that a malformed reply is reported as a
	// protocol error instead of a transport failure.
	var raw []byte
	if _, err := b.client.Chat.Completions.New(ctx, params, option.WithResponseBodyInto(&raw)); err != nil {
		return nil, mapError(err)
	}

	var completion oai.ChatCompletion
	if err := json.Unmarshal(raw, &completion); err != nil {
		return nil, &provider.Error{
			Code:       provider.ErrorCodeMalformed,
			Message:    "response body is not valid JSON",
			Underlying: err,
		}
	}
	return fromCompletion(&completion)
}

// mapError maps SDK errors to provider errors.
func mapError(err error) error {
	var apiErr *oai.Error
	if !errors.As(err, &apiErr) {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return &provider.Error{
			Code:       provider.ErrorCodeNetwork,
			Message:    "network error",
			Underlying: err,
			Retryable:  true,
		}
	}

	perr := provider.FromStatus(apiErr.StatusCode, apiErr.Message, err)
	if perr.Retryable && apiErr.Response != nil {
		perr.RetryAfter = parseRetryAfter(apiErr.Response.Header.Get("Retry-After"), time.Now())
	}
	return perr
}

// parseRetryAfter accepts both delta-seconds and HTTP-date forms.
func parseRetryAfter(v string, now time.Time) *time.Duration {
	if v == "" {
		return nil
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		d := time.Duration(secs) * time.Second
		return &d
	}
	if at, err := http.ParseTime(v); err == nil {
		d := max(at.Sub(now), 0)
		return &d
	}
	return nil
}

func fromCompletion(c *oai.ChatCompletion) (*provider.Response, error) {
	if len(c.Choices) == 0 {
		return nil, provider.Malformed("response has no choices")
	}
	choice := c.Choices[0]
	msg := choice.Message

	if choice.FinishReason == "content_filter" || (msg.Refusal != "" && msg.Content == "" && len(msg.ToolCalls) == 0) {
		return nil, &provider.Error{
			Code:    provider.ErrorCodeContentBlocked,
			Message: fmt.Sprintf("model refused: %s", msg.Refusal),
		}
	}

	resp := &provider.Response{Text: msg.Content}
	for _, call := range msg.ToolCalls {
		if call.Type != "" && call.Type != "function" {
			return nil, provider.Malformed("unsupported tool call type %q", call.Type)
		}
		resp.ToolCalls = append(resp.ToolCalls, provider.ToolCall{
			ID: call.ID,
			Function: provider.FunctionCall{
				Name:      call.Function.Name,
				Arguments: call.Function.Arguments,
			},
		})
	}
	return resp, nil
}
