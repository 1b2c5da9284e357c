package commands

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/autocube/cubo/pkg/config"
)

// writeAssetTree lays out a model plus clip files for a small vocabulary.
func writeAssetTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := []string{
		"models/a.vrm",
		"models/b.vrm",
		"animations/Idle.fbx",
		"animations/Jumping.fbx",
	}
	for _, name := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("bytes"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func testConfig(dir string) *config.Config {
	cfg := config.Default()
	cfg.Assets.Source = "dir"
	cfg.Assets.Dir = dir
	cfg.Avatars = []config.Avatar{
		{ID: "avatar-a", Model: "models/a.vrm"},
		{ID: "avatar-b", Model: "models/b.vrm"},
	}
	cfg.Animations.Vocabulary = []string{"Idle", "Jumping"}
	cfg.Provider.APIKey = "sk-test"
	return cfg
}

func TestBuildEngine(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	cfg := testConfig(writeAssetTree(t))

	eng, err := buildEngine(context.Background(), cfg, nil, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("buildEngine: %v", err)
	}
	defer eng.close()

	if n := eng.registry.Len(); n != 2 {
		t.Errorf("registry has %d avatars, want 2", n)
	}

	session, err := eng.newSession()
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	if session.ID() == "" {
		t.Error("session has empty id")
	}
}

func TestBuildEngine_MissingClipFails(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	cfg := testConfig(writeAssetTree(t))
	cfg.Animations.Vocabulary = []string{"Idle", "Robot Dance"}

	if _, err := buildEngine(context.Background(), cfg, nil, slog.New(slog.DiscardHandler)); err == nil {
		t.Fatal("buildEngine succeeded with a missing clip asset")
	}
}

func TestBuildEngine_NoAPIKey(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	cfg := testConfig(writeAssetTree(t))
	cfg.Provider.APIKey = ""

	if _, err := buildEngine(context.Background(), cfg, nil, slog.New(slog.DiscardHandler)); err == nil {
		t.Fatal("buildEngine succeeded without an API key")
	}
}

func TestBuildSource(t *testing.T) {
	cfg := config.Default()

	cfg.Assets.Source = "http"
	if _, err := buildSource(cfg); err == nil {
		t.Error("http source without base_url succeeded")
	}
	cfg.Assets.BaseURL = "https://w3s.link"
	if _, err := buildSource(cfg); err != nil {
		t.Errorf("http source: %v", err)
	}

	cfg.Assets.Source = "s3"
	if _, err := buildSource(cfg); err == nil {
		t.Error("s3 source without bucket succeeded")
	}
	cfg.Assets.Bucket = "cubo-assets"
	if _, err := buildSource(cfg); err != nil {
		t.Errorf("s3 source: %v", err)
	}
}
