// Package chat holds the conversation state for one companion session and
// drives the round trip to the language model: append the user's turn,
// fetch the assistant's reply, and feed both sides of the exchange through
// the animation command router.
package chat

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/autocube/cubo/pkg/anim"
)

// Chat roles. The wire values match the chat-completion API.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message in a conversation.
type Turn struct {
	Role    string `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// Completer is the chat-completion client. Given the full conversation it
// returns the assistant's reply text. Transport failures are reported as
// *TransportError so callers can distinguish the out-of-credits case.
type Completer interface {
	Complete(ctx context.Context, turns []Turn) (string, error)
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, turns []Turn) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, turns []Turn) (string, error) {
	return f(ctx, turns)
}

// Router dispatches animation commands extracted from chat text. It is
// satisfied by command.Router.
type Router interface {
	Route(role, text string) error
}

// TransportError is a failed chat-completion request: a non-2xx HTTP
// status plus whatever error payload the provider returned.
type TransportError struct {
	Status  int
	Payload string
}

func (e *TransportError) Error() string {
	if e.OutOfCredits() {
		return fmt.Sprintf("chat: completion failed with status %d: account is out of credits: %s", e.Status, e.Payload)
	}
	return fmt.Sprintf("chat: completion failed with status %d: %s", e.Status, e.Payload)
}

// OutOfCredits reports whether the provider rejected the request because
// the account has no remaining credits (HTTP 402).
func (e *TransportError) OutOfCredits() bool {
	return e.Status == http.StatusPaymentRequired
}

// SystemPrompt renders the companion persona prompt, advertising the
// animation vocabulary the model may emote with.
func SystemPrompt(vocab *anim.Vocabulary) string {
	return fmt.Sprintf(`You are Cubo, an AI companion in a virtual 3D world. You have a cube body with two eyes.
You speak in elementary school level English.
You can emote %s.

At the end of your message, put your emote of choice in square brackets.`,
		strings.Join(vocab.Names(), ", "))
}
