package chat

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// optionNumberRe strips the "1. " / "2) " numbering the model is asked to
// put in front of each candidate reply.
var optionNumberRe = regexp.MustCompile(`^\s*\d+\s*[.)]\s*`)

// SessionConfig configures a Session.
type SessionConfig struct {
	// Completer performs the chat-completion round trips. Required.
	Completer Completer

	// Router receives every user and assistant message for animation
	// command extraction. Required.
	Router Router

	// SystemPrompt seeds the conversation the first time the history
	// transitions from empty to non-empty. Required (see SystemPrompt for
	// the default persona).
	SystemPrompt string

	// Logger is optional. If nil, uses slog.Default().
	Logger *slog.Logger
}

// Session holds one conversation and its pending reply options.
//
// The history is append-only and guarded by a mutex, but sends are not
// serialized: two concurrent SendMessage calls interleave their appends in
// whichever order the network replies land. That matches the reference
// behavior and is an accepted race — callers wanting strict ordering must
// await each send before issuing the next.
type Session struct {
	id        string
	completer Completer
	router    Router
	prompt    string
	logger    *slog.Logger

	mu      sync.Mutex
	history []Turn
	options []string
}

// NewSession creates an empty session.
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.Completer == nil {
		return nil, fmt.Errorf("chat: SessionConfig.Completer is required")
	}
	if cfg.Router == nil {
		return nil, fmt.Errorf("chat: SessionConfig.Router is required")
	}
	if cfg.SystemPrompt == "" {
		return nil, fmt.Errorf("chat: SessionConfig.SystemPrompt is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.NewString()
	return &Session{
		id:        id,
		completer: cfg.Completer,
		router:    cfg.Router,
		prompt:    cfg.SystemPrompt,
		logger:    logger.With("session", id),
	}, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// History returns a copy of the conversation so far.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.history))
	copy(out, s.history)
	return out
}

// ReplyOptions returns the candidate replies produced by the last
// GenerateReplyOptions call, if any.
func (s *Session) ReplyOptions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.options))
	copy(out, s.options)
	return out
}

// SendMessage routes text for animation commands, appends it to the
// history, asks the model for a reply, appends that, and routes it too.
// It returns the assistant's reply text.
//
// On a transport failure the user turn that was already appended stays in
// the history, so the conversation reads "message sent, reply failed" and
// the user can retry. The returned error wraps *TransportError when the
// provider rejected the request.
func (s *Session) SendMessage(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)

	// A user message may itself carry an animation token.
	if err := s.router.Route(RoleUser, text); err != nil {
		return "", err
	}

	s.mu.Lock()
	if len(s.history) == 0 {
		s.history = append(s.history, Turn{Role: RoleSystem, Content: s.prompt})
	}
	s.history = append(s.history, Turn{Role: RoleUser, Content: text})
	turns := make([]Turn, len(s.history))
	copy(turns, s.history)
	s.options = nil
	s.mu.Unlock()

	s.logger.Debug("chat: sending", "turns", len(turns))
	reply, err := s.completer.Complete(ctx, turns)
	if err != nil {
		return "", fmt.Errorf("chat: send message: %w", err)
	}

	s.mu.Lock()
	s.history = append(s.history, Turn{Role: RoleAssistant, Content: reply})
	s.mu.Unlock()

	if err := s.router.Route(RoleAssistant, reply); err != nil {
		return "", err
	}
	return reply, nil
}

// GenerateReplyOptions asks the model for three candidate user replies,
// each carrying a bracketed animation token. The request is an isolated
// one-shot turn: neither the prompt nor the response is appended to the
// session history. The candidates are stored as pending proposals
// (ReplyOptions) and returned; selecting one is just a SendMessage call.
func (s *Session) GenerateReplyOptions(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	var b strings.Builder
	for _, turn := range s.history {
		if turn.Role == RoleSystem {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", turn.Role, turn.Content)
	}
	s.mu.Unlock()

	prompt := fmt.Sprintf(`Here is a conversation between a user and an AI companion:

%s
Suggest exactly three replies the user could send next. Number them 1. to 3.,
one per line, and end each reply with an animation in square brackets.`, b.String())

	response, err := s.completer.Complete(ctx, []Turn{{Role: RoleUser, Content: prompt}})
	if err != nil {
		return nil, fmt.Errorf("chat: generate reply options: %w", err)
	}

	options := parseReplyOptions(response)
	s.mu.Lock()
	s.options = options
	s.mu.Unlock()
	s.logger.Debug("chat: reply options generated", "count", len(options))
	return options, nil
}

// parseReplyOptions splits a numbered-list response into candidate
// replies, dropping blank lines and the leading numbering but keeping the
// bracketed tokens intact.
func parseReplyOptions(response string) []string {
	var options []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		options = append(options, optionNumberRe.ReplaceAllString(line, ""))
	}
	return options
}
