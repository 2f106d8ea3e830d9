package provider

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Cyclone1070/codr/internal/config"
	"github.com/Cyclone1070/codr/internal/tool"
)

// Backend performs a single request attempt against one model API.
// Implementations classify failures as *Error and must honor ctx.
type Backend interface {
	Name() string
	Complete(ctx context.Context, messages []Message, tools []tool.Declaration) (*Response, error)
}

// RetryPolicy bounds the attempts made by one Send call.
type RetryPolicy struct {
	MaxAttempts    int
	AttemptTimeout time.Duration
	BackoffBase    time.Duration
	BackoffMax     time.Duration
}

// PolicyFromConfig converts provider configuration into a RetryPolicy.
func PolicyFromConfig(cfg config.ProviderConfig) RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    cfg.MaxAttempts,
		AttemptTimeout: time.Duration(cfg.AttemptTimeoutMs) * time.Millisecond,
		BackoffBase:    time.Duration(cfg.BackoffBaseMs) * time.Millisecond,
		BackoffMax:     time.Duration(cfg.BackoffMaxMs) * time.Millisecond,
	}
}

// Backoff returns the delay before the attempt following failed attempt n
// (1-based): base * 2^(n-1), capped at BackoffMax. A retry-after hint
// lengthens the delay but never past the cap.
func (p RetryPolicy) Backoff(n int, retryAfter *time.Duration) time.Duration {
	d := p.BackoffBase
	for i := 1; i < n && d < p.BackoffMax; i++ {
		d *= 2
	}
	if retryAfter != nil && *retryAfter > d {
		d = *retryAfter
	}
	return min(d, p.BackoffMax)
}

// Client sends conversations to a Backend with per-attempt timeouts and
// bounded retries. Retry state is local to each Send call.
type Client struct {
	backend Backend
	policy  RetryPolicy
	logger  *zap.Logger
	sleep   func(ctx context.Context, d time.Duration) error
}

// Option configures a Client.
type Option func(*Client)

// WithSleep replaces the backoff sleep (for testing).
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Client) { c.sleep = sleep }
}

// NewClient creates a new Client. A nil logger disables logging.
func NewClient(backend Backend, policy RetryPolicy, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	c := &Client{
		backend: backend,
		policy:  policy,
		logger:  logger.Named("provider"),
		sleep:   sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send delivers messages and the tool catalog to the model and returns its
// reply. Cancellation of ctx returns ctx.Err() unchanged. Any other failure
// is a *Error whose class is ErrTransport, ErrProtocol or ErrAuth.
func (c *Client) Send(ctx context.Context, messages []Message, tools []tool.Declaration) (*Response, error) {
	for attempt := 1; ; attempt++ {
		resp, err := c.attempt(ctx, messages, tools)
		if err == nil {
			if err := validate(resp); err != nil {
				err.Attempts = attempt
				return nil, err
			}
			return resp, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		perr := classify(err)
		if !perr.Retryable || attempt >= c.policy.MaxAttempts {
			perr.Attempts = attempt
			c.logger.Warn("model request failed",
				zap.String("backend", c.backend.Name()),
				zap.String("code", string(perr.Code)),
				zap.Int("attempt", attempt),
				zap.Error(perr.Underlying))
			return nil, perr
		}

		delay := c.policy.Backoff(attempt, perr.RetryAfter)
		c.logger.Info("retrying model request",
			zap.String("backend", c.backend.Name()),
			zap.String("code", string(perr.Code)),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", delay))
		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
}

func (c *Client) attempt(ctx context.Context, messages []Message, tools []tool.Declaration) (*Response, error) {
	attemptCtx := ctx
	if c.policy.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, c.policy.AttemptTimeout)
		defer cancel()
	}

	resp, err := c.backend.Complete(attemptCtx, messages, tools)
	if err != nil && ctx.Err() == nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		return nil, &Error{Code: ErrorCodeTimeout, Message: "attempt timed out", Underlying: err, Retryable: true}
	}
	return resp, err
}

// classify turns any backend failure into a *Error. Unclassified errors are
// treated as retryable network failures.
func classify(err error) *Error {
	var perr *Error
	if errors.As(err, &perr) {
		return perr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Code: ErrorCodeTimeout, Message: "request timed out", Underlying: err, Retryable: true}
	}
	return &Error{Code: ErrorCodeNetwork, Message: "network error", Underlying: err, Retryable: true}
}

// validate rejects replies the conversation cannot record.
func validate(resp *Response) *Error {
	if resp == nil {
		return &Error{Code: ErrorCodeEmptyResponse, Message: "no response"}
	}
	seen := make(map[string]bool, len(resp.ToolCalls))
	for i, call := range resp.ToolCalls {
		if call.ID == "" {
			return Malformed("tool call %d has no id", i)
		}
		if seen[call.ID] {
			return Malformed("duplicate tool call id %q", call.ID)
		}
		seen[call.ID] = true
		if call.Function.Name == "" {
			return Malformed("tool call %s has no function name", call.ID)
		}
	}
	if resp.Text == "" && len(resp.ToolCalls) == 0 {
		return &Error{Code: ErrorCodeEmptyResponse, Message: "response has neither text nor tool calls"}
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
