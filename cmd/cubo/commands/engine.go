package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/autocube/cubo/pkg/assets"
	"github.com/autocube/cubo/pkg/avatar"
	"github.com/autocube/cubo/pkg/chat"
	"github.com/autocube/cubo/pkg/command"
	"github.com/autocube/cubo/pkg/config"
	"github.com/autocube/cubo/pkg/openrouter"
)

// engine is the assembled runtime: avatars loaded, router validated, and
// a completer ready for sessions.
type engine struct {
	cfg       *config.Config
	registry  *avatar.Registry
	router    *command.Router
	completer chat.Completer
	cache     *assets.BlobCache
	logger    *slog.Logger
}

// buildEngine assembles the full pipeline from configuration: asset
// source, blob cache, loader, avatar registry (with every configured
// avatar created), command router, and the chat completer.
func buildEngine(ctx context.Context, cfg *config.Config, progress assets.ProgressFunc, logger *slog.Logger) (*engine, error) {
	source, err := buildSource(cfg)
	if err != nil {
		return nil, err
	}

	cacheOpts := assets.BlobCacheOptions{Source: source, Logger: logger}
	if cfg.Assets.CacheDir != "" {
		cacheOpts.Dir = cfg.Assets.CacheDir
	} else {
		cacheOpts.InMemory = true
	}
	cache, err := assets.NewBlobCache(cacheOpts)
	if err != nil {
		return nil, err
	}

	loader := assets.NewHeadlessLoader(cache, progress)
	registry, err := avatar.NewRegistry(avatar.Config{
		Vocabulary:   cfg.Vocabulary(),
		Loader:       loader,
		ClipPath:     cfg.ClipPath,
		FadeDuration: cfg.Animations.FadeDuration,
		Logger:       logger,
	})
	if err != nil {
		cache.Close()
		return nil, err
	}

	for _, a := range cfg.Avatars {
		if _, err := registry.CreateAvatar(ctx, a.ID, a.Model); err != nil {
			cache.Close()
			return nil, fmt.Errorf("create avatar %q: %w", a.ID, err)
		}
	}

	router := command.NewRouter(registry, command.RoleMap(cfg.Roles), logger)
	if err := router.Validate(); err != nil {
		cache.Close()
		return nil, err
	}

	completer, err := buildCompleter(cfg)
	if err != nil {
		cache.Close()
		return nil, err
	}

	return &engine{
		cfg:       cfg,
		registry:  registry,
		router:    router,
		completer: completer,
		cache:     cache,
		logger:    logger,
	}, nil
}

// newSession opens a fresh conversation against the engine.
func (e *engine) newSession() (*chat.Session, error) {
	prompt := e.cfg.Persona
	if prompt == "" {
		prompt = chat.SystemPrompt(e.registry.Vocabulary())
	}
	return chat.NewSession(chat.SessionConfig{
		Completer:    e.completer,
		Router:       e.router,
		SystemPrompt: prompt,
		Logger:       e.logger,
	})
}

// close tears down avatars and releases the asset cache.
func (e *engine) close() {
	e.registry.Teardown()
	if err := e.cache.Close(); err != nil {
		e.logger.Warn("asset cache close failed", "err", err)
	}
}

func buildSource(cfg *config.Config) (assets.Source, error) {
	switch cfg.Assets.Source {
	case "", "http":
		base := cfg.Assets.BaseURL
		if base == "" {
			return nil, fmt.Errorf("assets.base_url is required for the http source")
		}
		return assets.NewHTTP(base, nil), nil
	case "dir":
		dir := cfg.Assets.Dir
		if dir == "" {
			dir = "."
		}
		return assets.NewDir(filepath.Clean(dir))
	case "s3":
		if cfg.Assets.Bucket == "" {
			return nil, fmt.Errorf("assets.bucket is required for the s3 source")
		}
		// Unsigned requests against a public asset bucket; region comes
		// from the environment.
		client := s3.New(s3.Options{Region: os.Getenv("AWS_REGION")})
		return assets.NewS3(client, cfg.Assets.Bucket, cfg.Assets.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown asset source %q", cfg.Assets.Source)
	}
}

func buildCompleter(cfg *config.Config) (chat.Completer, error) {
	key := cfg.ProviderAPIKey()
	if key == "" {
		return nil, fmt.Errorf("no provider API key: set provider.api_key or OPENROUTER_API_KEY")
	}
	return openrouter.New(openrouter.Config{
		APIKey:  key,
		BaseURL: cfg.Provider.BaseURL,
		Model:   cfg.Provider.Model,
		Referer: cfg.Provider.Referer,
		Title:   cfg.Provider.Title,
	})
}

// loadConfig reads the --config file, or falls back to the built-in
// default configuration when no file is given.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}
