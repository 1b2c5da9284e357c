package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleYAML = `
provider:
  base_url: https://openrouter.ai/api/v1
  model: openai/gpt-4o-mini
  referer: https://autocube.example
  title: AutoCube
assets:
  source: http
  base_url: https://w3s.link
  cache_dir: /tmp/cubo-cache
avatars:
  - id: player
    model: models/player.vrm
  - id: cubo
    model: https://w3s.link/ipfs/bafy.../cubo.vrm
roles:
  user: player
  "*": cubo
animations:
  fade_duration: 0.5
  clip_path: "animations/{name}.fbx"
server:
  addr: ":9000"
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Provider.Model != "openai/gpt-4o-mini" {
		t.Errorf("model = %q", cfg.Provider.Model)
	}
	if len(cfg.Avatars) != 2 || cfg.Avatars[1].ID != "cubo" {
		t.Errorf("avatars = %+v", cfg.Avatars)
	}
	if cfg.Roles["user"] != "player" || cfg.Roles["*"] != "cubo" {
		t.Errorf("roles = %v", cfg.Roles)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("server addr = %q", cfg.Server.Addr)
	}
	if cfg.Animations.FadeDuration != 0.5 {
		t.Errorf("fade duration = %v", cfg.Animations.FadeDuration)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cubo.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Assets.BaseURL != "https://w3s.link" {
		t.Errorf("assets base = %q", cfg.Assets.BaseURL)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load of missing file succeeded")
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "role maps to unknown avatar",
			mutate:  func(c *Config) { c.Roles["assistant"] = "ghost" },
			wantErr: "undeclared avatar",
		},
		{
			name: "duplicate avatar id",
			mutate: func(c *Config) {
				c.Avatars = append(c.Avatars, Avatar{ID: "avatar-a", Model: "m.vrm"})
			},
			wantErr: "duplicate avatar id",
		},
		{
			name:    "avatar without model",
			mutate:  func(c *Config) { c.Avatars[0].Model = "" },
			wantErr: "has no model",
		},
		{
			name: "no roles",
			mutate: func(c *Config) {
				c.Roles = nil
			},
			wantErr: "no role mappings",
		},
		{
			name:    "bad asset source",
			mutate:  func(c *Config) { c.Assets.Source = "ftp" },
			wantErr: "unknown asset source",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestClipPath(t *testing.T) {
	cfg := Default()
	if got := cfg.ClipPath("Chicken Dance"); got != "animations/Chicken Dance.fbx" {
		t.Errorf("ClipPath = %q", got)
	}

	cfg.Animations.ClipPath = "clips/{name}/take1.fbx"
	if got := cfg.ClipPath("Idle"); got != "clips/Idle/take1.fbx" {
		t.Errorf("ClipPath = %q", got)
	}
}

func TestVocabulary(t *testing.T) {
	cfg := Default()
	if got := cfg.Vocabulary().Len(); got != 9 {
		t.Errorf("default vocabulary size = %d, want 9", got)
	}

	cfg.Animations.Vocabulary = []string{"Idle", "Robot Dance"}
	vocab := cfg.Vocabulary()
	if vocab.Len() != 2 {
		t.Fatalf("vocabulary size = %d, want 2", vocab.Len())
	}
	if name, ok := vocab.Resolve("robot dance"); !ok || name != "Robot Dance" {
		t.Errorf("Resolve(robot dance) = %q, %v", name, ok)
	}
}

func TestProviderAPIKeyEnvOverride(t *testing.T) {
	cfg := Default()
	cfg.Provider.APIKey = "from-file"

	t.Setenv("OPENROUTER_API_KEY", "")
	if got := cfg.ProviderAPIKey(); got != "from-file" {
		t.Errorf("key = %q, want from-file", got)
	}

	t.Setenv("OPENROUTER_API_KEY", "from-env")
	if got := cfg.ProviderAPIKey(); got != "from-env" {
		t.Errorf("key = %q, want from-env", got)
	}
}
