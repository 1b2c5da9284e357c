// Package config loads the engine configuration: animation vocabulary,
// avatar roster, role routing, provider credentials, and asset locations.
// Everything here is data supplied at startup; behavior lives in the
// packages that consume it.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/autocube/cubo/pkg/anim"
)

// DefaultClipPathTemplate resolves canonical animation names to clip
// asset paths. "{name}" is replaced with the canonical name.
const DefaultClipPathTemplate = "animations/{name}.fbx"

// Config is the root configuration document.
type Config struct {
	// Provider configures the chat-completion backend.
	Provider Provider `yaml:"provider"`

	// Assets configures where models and clips are fetched from.
	Assets Assets `yaml:"assets"`

	// Avatars is the roster created at startup, in order.
	Avatars []Avatar `yaml:"avatars"`

	// Roles maps chat roles to avatar ids. The "*" entry is the fallback
	// for roles without an explicit mapping.
	Roles map[string]string `yaml:"roles"`

	// Animations configures the vocabulary and playback.
	Animations Animations `yaml:"animations"`

	// Persona overrides the default system prompt. Optional.
	Persona string `yaml:"persona,omitempty"`

	// Server configures the WebSocket chat surface.
	Server Server `yaml:"server"`
}

// Provider is the chat-completion backend configuration.
type Provider struct {
	// APIKey authenticates against the provider. The OPENROUTER_API_KEY
	// environment variable overrides it.
	APIKey string `yaml:"api_key,omitempty"`

	// BaseURL overrides the default OpenRouter endpoint.
	BaseURL string `yaml:"base_url,omitempty"`

	// Model is the provider-prefixed model name.
	Model string `yaml:"model,omitempty"`

	// Referer and Title identify the app to the provider. Optional.
	Referer string `yaml:"referer,omitempty"`
	Title   string `yaml:"title,omitempty"`
}

// Assets configures asset fetching and caching.
type Assets struct {
	// Source selects the backend: "http" (default), "dir", or "s3".
	Source string `yaml:"source,omitempty"`

	// BaseURL is the HTTP source base (gateway or CDN).
	BaseURL string `yaml:"base_url,omitempty"`

	// Dir is the local directory for the "dir" source.
	Dir string `yaml:"dir,omitempty"`

	// Bucket and Prefix select the object location for the "s3" source.
	Bucket string `yaml:"bucket,omitempty"`
	Prefix string `yaml:"prefix,omitempty"`

	// CacheDir is where downloaded assets are cached. Empty disables
	// persistence (in-memory cache).
	CacheDir string `yaml:"cache_dir,omitempty"`
}

// Avatar is one roster entry.
type Avatar struct {
	ID    string `yaml:"id"`
	Model string `yaml:"model"`
}

// Animations configures the vocabulary and playback parameters.
type Animations struct {
	// Vocabulary lists the canonical animation names. Empty means the
	// built-in default vocabulary.
	Vocabulary []string `yaml:"vocabulary,omitempty"`

	// ClipPath is the path template for clip assets; "{name}" expands to
	// the canonical animation name. Defaults to DefaultClipPathTemplate.
	ClipPath string `yaml:"clip_path,omitempty"`

	// FadeDuration is the crossfade length in seconds. Defaults to
	// anim.DefaultFadeDuration.
	FadeDuration float64 `yaml:"fade_duration,omitempty"`
}

// Server configures the WebSocket chat surface.
type Server struct {
	// Addr is the listen address for `cubo serve`. Defaults to ":8787".
	Addr string `yaml:"addr,omitempty"`
}

// Default returns the built-in two-avatar configuration the examples
// ship with.
func Default() *Config {
	return &Config{
		Avatars: []Avatar{
			{ID: "avatar-a", Model: "models/avatar-a.vrm"},
			{ID: "avatar-b", Model: "models/avatar-b.vrm"},
		},
		Roles: map[string]string{
			"user": "avatar-a",
			"*":    "avatar-b",
		},
		Server: Server{Addr: ":8787"},
	}
}

// Load reads and validates the YAML config at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML config document.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field consistency: every role must map to a
// declared avatar, and avatar ids must be unique.
func (c *Config) Validate() error {
	ids := make(map[string]bool, len(c.Avatars))
	for _, a := range c.Avatars {
		if a.ID == "" {
			return fmt.Errorf("config: avatar with empty id")
		}
		if a.Model == "" {
			return fmt.Errorf("config: avatar %q has no model", a.ID)
		}
		if ids[a.ID] {
			return fmt.Errorf("config: duplicate avatar id %q", a.ID)
		}
		ids[a.ID] = true
	}
	for role, id := range c.Roles {
		if !ids[id] {
			return fmt.Errorf("config: role %q maps to undeclared avatar %q", role, id)
		}
	}
	if len(c.Roles) == 0 {
		return fmt.Errorf("config: no role mappings")
	}
	switch c.Assets.Source {
	case "", "http", "dir", "s3":
	default:
		return fmt.Errorf("config: unknown asset source %q", c.Assets.Source)
	}
	return nil
}

// Vocabulary builds the configured animation vocabulary.
func (c *Config) Vocabulary() *anim.Vocabulary {
	if len(c.Animations.Vocabulary) == 0 {
		return anim.DefaultVocabulary()
	}
	return anim.NewVocabulary(c.Animations.Vocabulary)
}

// ClipPath resolves a canonical animation name to its asset path using
// the configured template.
func (c *Config) ClipPath(name string) string {
	tmpl := c.Animations.ClipPath
	if tmpl == "" {
		tmpl = DefaultClipPathTemplate
	}
	return strings.ReplaceAll(tmpl, "{name}", name)
}

// ProviderAPIKey returns the provider key, preferring the
// OPENROUTER_API_KEY environment variable over the config file so keys
// stay out of checked-in YAML.
func (c *Config) ProviderAPIKey() string {
	if key := os.Getenv("OPENROUTER_API_KEY"); key != "" {
		return key
	}
	return c.Provider.APIKey
}
