// Package policy decides whether a tool call may run without asking the user.
package policy

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/Cyclone1070/codr/internal/config"
)

// ErrUserDenied is returned when a call is refused by the user or by the deny list.
var ErrUserDenied = errors.New("user denied")

// PermissionDecision represents the user's choice for a permission request
type PermissionDecision string

const (
	DecisionAllow       PermissionDecision = "allow"
	DecisionDeny        PermissionDecision = "deny"
	DecisionAllowAlways PermissionDecision = "allow_always"
)

// Request describes the call awaiting permission.
type Request struct {
	Tool        string
	Path        string
	Content     string
	Destructive bool
}

// Prompter asks the user to approve a call.
type Prompter interface {
	ReadPermission(ctx context.Context, prompt string, req Request) (PermissionDecision, error)
}

// Policy applies the configured allow and deny lists and remembers
// "allow always" answers for the rest of the session.
type Policy struct {
	cfg          config.PolicyConfig
	prompter     Prompter
	logger       *zap.Logger
	mu           sync.RWMutex // Protects sessionAllow
	sessionAllow map[string]bool
}

// New creates a Policy. A nil prompter refuses every call that needs confirmation.
func New(cfg config.PolicyConfig, prompter Prompter, logger *zap.Logger) *Policy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Policy{
		cfg:          cfg,
		prompter:     prompter,
		logger:       logger.Named("policy"),
		sessionAllow: make(map[string]bool),
	}
}

// Check returns nil when the call may proceed and an error wrapping
// ErrUserDenied when it may not. Denied tools are refused whether or not
// the call is destructive. Other failures (a cancelled prompt) are returned
// as is.
func (p *Policy) Check(ctx context.Context, req Request) error {
	if req.Tool == "" {
		return fmt.Errorf("tool name cannot be empty")
	}

	if slices.Contains(p.cfg.Deny, req.Tool) {
		p.logger.Info("tool denied by policy", zap.String("tool", req.Tool))
		return fmt.Errorf("%w: tool '%s' is denied by policy", ErrUserDenied, req.Tool)
	}
	if !req.Destructive || !p.cfg.ConfirmDestructive || slices.Contains(p.cfg.Allow, req.Tool) {
		return nil
	}

	p.mu.RLock()
	allowed := p.sessionAllow[req.Tool]
	p.mu.RUnlock()
	if allowed {
		return nil
	}

	if p.prompter == nil {
		return fmt.Errorf("%w: '%s' needs confirmation and no prompt is available", ErrUserDenied, req.Tool)
	}

	prompt := fmt.Sprintf("Agent wants to use %s on %s\nAllow this operation?", req.Tool, req.Path)
	decision, err := p.prompter.ReadPermission(ctx, prompt, req)
	if err != nil {
		return fmt.Errorf("failed to get user permission: %w", err)
	}

	p.logger.Debug("permission decision",
		zap.String("tool", req.Tool),
		zap.String("path", req.Path),
		zap.String("decision", string(decision)))

	switch decision {
	case DecisionAllow:
		return nil
	case DecisionDeny:
		return fmt.Errorf("%w: user denied %s on %s", ErrUserDenied, req.Tool, req.Path)
	case DecisionAllowAlways:
		p.mu.Lock()
		p.sessionAllow[req.Tool] = true
		p.mu.Unlock()
		return nil
	default:
		return fmt.Errorf("%w: invalid permission decision: %s", ErrUserDenied, decision)
	}
}
