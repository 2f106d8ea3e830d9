// Package session owns the conversation of one interactive session.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Cyclone1070/codr/internal/config"
	"github.com/Cyclone1070/codr/internal/conversation"
	"github.com/Cyclone1070/codr/internal/provider"
	"github.com/Cyclone1070/codr/internal/workflow/loop"
)

// ErrSessionClosed is returned by Submit after a fatal error.
var ErrSessionClosed = errors.New("session closed")

// turnRunner runs one turn against a conversation.
type turnRunner interface {
	RunTurn(ctx context.Context, conv *conversation.Conversation, input string) (*loop.TurnResult, error)
}

type Session struct {
	id     string
	cfg    *config.Config
	runner turnRunner
	store  *Store
	logger *zap.Logger
	prompt string

	mu     sync.Mutex
	conv   *conversation.Conversation
	turns  int
	closed error
}

// Option configures a Session.
type Option func(*Session)

// WithStore enables persistence to the given store.
func WithStore(store *Store) Option {
	return func(s *Session) { s.store = store }
}

// WithSystemPrompt sets the first message of a new conversation.
func WithSystemPrompt(prompt string) Option {
	return func(s *Session) { s.prompt = prompt }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// New creates a session. When a store holds a snapshot the conversation is
// restored from it; otherwise a fresh one starts with the system prompt.
func New(cfg *config.Config, runner turnRunner, opts ...Option) (*Session, error) {
	s := &Session{
		cfg:    cfg,
		runner: runner,
		prompt: DefaultSystemPrompt,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("session")

	if s.store != nil {
		snap, err := s.store.Load()
		if err != nil {
			return nil, err
		}
		if snap != nil {
			conv, err := conversation.FromMessages(toMessages(snap.Messages))
			if err != nil {
				return nil, fmt.Errorf("session file %s: %w", s.store.Path(), err)
			}
			s.id, s.conv, s.turns = snap.ID, conv, snap.Turns
			s.logger.Info("session restored",
				zap.String("id", s.id),
				zap.Int("messages", conv.Len()),
				zap.Int("turns", s.turns))
		}
	}

	if s.conv == nil {
		s.conv = conversation.New(s.prompt)
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Turns returns the number of turns submitted so far.
func (s *Session) Turns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turns
}

// Messages returns a copy of the conversation.
func (s *Session) Messages() []provider.Message { return s.conv.Messages() }

// Err returns the fatal error that closed the session, or nil.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Submit runs one turn. Turns are serialised. After a fatal error every
// call returns ErrSessionClosed wrapping the cause.
func (s *Session) Submit(ctx context.Context, input string) (*loop.TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed != nil {
		return nil, fmt.Errorf("%w: %w", ErrSessionClosed, s.closed)
	}

	s.turns++
	res, err := s.runner.RunTurn(ctx, s.conv, input)
	if err != nil && IsFatal(err) {
		s.closed = err
		s.logger.Error("session closed", zap.String("id", s.id), zap.Error(err))
	}

	if saveErr := s.save(); saveErr != nil {
		s.logger.Warn("failed to save session", zap.Error(saveErr))
		if err == nil {
			err = fmt.Errorf("failed to save session: %w", saveErr)
		}
	}
	return res, err
}

func (s *Session) save() error {
	if s.store == nil {
		return nil
	}
	return s.store.Save(&Snapshot{
		ID:       s.id,
		Model:    s.cfg.Provider.Model,
		Turns:    s.turns,
		Messages: fromMessages(s.conv.Messages()),
	})
}

// IsFatal reports whether err ends the session.
func IsFatal(err error) bool {
	return errors.Is(err, provider.ErrAuth) ||
		errors.Is(err, config.ErrMissingRequired) ||
		errors.Is(err, config.ErrInvalid)
}
