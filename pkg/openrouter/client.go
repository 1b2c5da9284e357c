// Package openrouter implements the chat.Completer interface against the
// OpenRouter chat-completions API. OpenRouter speaks the OpenAI wire
// protocol, so the client is a thin layer over the official openai-go SDK
// pointed at the OpenRouter base URL.
package openrouter

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/autocube/cubo/pkg/chat"
)

const (
	// DefaultBaseURL is the OpenRouter API endpoint.
	DefaultBaseURL = "https://openrouter.ai/api/v1"

	// DefaultModel is used when Config.Model is empty. OpenRouter routes
	// the prefixed name to the upstream provider.
	DefaultModel = "openai/gpt-4o-mini"

	// DefaultTemperature keeps replies varied; the companion is meant to
	// be playful, not deterministic.
	DefaultTemperature = 1.0
)

// Config configures a Client.
type Config struct {
	// APIKey is the OpenRouter API key. Required.
	APIKey string

	// BaseURL overrides DefaultBaseURL; any OpenAI-compatible endpoint
	// works, which is how tests point the client at a local fake.
	BaseURL string

	// Model is the model identifier. Defaults to DefaultModel.
	Model string

	// Referer and Title identify the app to OpenRouter's ranking
	// headers. Optional.
	Referer string
	Title   string

	// Temperature for sampling. Defaults to DefaultTemperature.
	// Set a negative value to omit the parameter.
	Temperature float64
}

// Client is a chat.Completer backed by OpenRouter.
type Client struct {
	api         openai.Client
	model       string
	temperature float64
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter: Config.APIKey is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
	}
	if cfg.Referer != "" {
		opts = append(opts, option.WithHeader("HTTP-Referer", cfg.Referer))
	}
	if cfg.Title != "" {
		opts = append(opts, option.WithHeader("X-Title", cfg.Title))
	}

	return &Client{
		api:         openai.NewClient(opts...),
		model:       model,
		temperature: temperature,
	}, nil
}

// Complete sends the conversation and returns the assistant reply text.
// Provider rejections surface as *chat.TransportError carrying the HTTP
// status and the raw error payload, so callers can tell an out-of-credits
// 402 apart from everything else.
func (c *Client) Complete(ctx context.Context, turns []chat.Turn) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: convTurns(turns),
	}
	if c.temperature >= 0 {
		params.Temperature = openai.Float(c.temperature)
	}

	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		var apierr *openai.Error
		if errors.As(err, &apierr) {
			return "", &chat.TransportError{
				Status:  apierr.StatusCode,
				Payload: apierr.RawJSON(),
			}
		}
		return "", fmt.Errorf("openrouter: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openrouter: response has no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func convTurns(turns []chat.Turn) []openai.ChatCompletionMessageParamUnion {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns))
	for _, turn := range turns {
		switch turn.Role {
		case chat.RoleSystem:
			msgs = append(msgs, openai.SystemMessage(turn.Content))
		case chat.RoleAssistant:
			msgs = append(msgs, openai.AssistantMessage(turn.Content))
		default:
			msgs = append(msgs, openai.UserMessage(turn.Content))
		}
	}
	return msgs
}
