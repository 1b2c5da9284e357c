package avatar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/autocube/cubo/pkg/anim"
	"github.com/autocube/cubo/pkg/assets"
)

// ErrNotFound is returned by Get for an unregistered avatar id. At the
// command-routing layer this indicates a role-mapping misconfiguration
// rather than a normal runtime outcome.
var ErrNotFound = errors.New("avatar: not found")

// DefaultClipPath resolves a canonical animation name to its clip asset
// path, matching the layout the vocabulary clips ship in.
func DefaultClipPath(name string) string {
	return "animations/" + name + ".fbx"
}

// Config configures a Registry.
type Config struct {
	// Vocabulary is the animation vocabulary every avatar loads.
	// Defaults to anim.DefaultVocabulary().
	Vocabulary *anim.Vocabulary

	// Loader fetches and decodes skeleton and clip assets. Required.
	Loader assets.Loader

	// ClipPath maps a canonical animation name to the clip asset path or
	// URL passed to the loader. Defaults to DefaultClipPath.
	ClipPath func(name string) string

	// FadeDuration is the crossfade length in seconds for every entity.
	// Defaults to anim.DefaultFadeDuration.
	FadeDuration float64

	// Logger is optional. If nil, uses slog.Default().
	Logger *slog.Logger
}

// Registry maps avatar ids to entities. It owns the creation and teardown
// lifecycle: only the registry adds or removes entries. The command router
// reads it to dispatch plays and the render loop reads it to advance
// mixers.
type Registry struct {
	vocab    *anim.Vocabulary
	loader   assets.Loader
	clipPath func(name string) string
	fade     float64
	logger   *slog.Logger
	clips    *anim.ClipCache

	mu       sync.RWMutex
	entities map[string]*Entity
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg Config) (*Registry, error) {
	if cfg.Loader == nil {
		return nil, errors.New("avatar: Config.Loader is required")
	}
	vocab := cfg.Vocabulary
	if vocab == nil {
		vocab = anim.DefaultVocabulary()
	}
	clipPath := cfg.ClipPath
	if clipPath == nil {
		clipPath = DefaultClipPath
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := &Registry{
		vocab:    vocab,
		loader:   cfg.Loader,
		clipPath: clipPath,
		fade:     cfg.FadeDuration,
		logger:   logger,
		entities: make(map[string]*Entity),
	}
	r.clips = anim.NewClipCache(func(ctx context.Context, skel anim.Skeleton, name string) (anim.Clip, error) {
		return cfg.Loader.LoadClip(ctx, clipPath(name), skel)
	})
	return r, nil
}

// Vocabulary returns the registry's animation vocabulary.
func (r *Registry) Vocabulary() *anim.Vocabulary {
	return r.vocab
}

// CreateAvatar loads the skeleton at modelURL, loads every vocabulary clip
// against it, and registers the resulting entity under id. Clips are
// loaded one at a time in vocabulary order; clips shared with an earlier
// avatar of the same skeleton are served from the cache.
//
// Either a fully-populated Ready entity is registered and returned, or
// the error describes the load that failed and nothing is registered.
func (r *Registry) CreateAvatar(ctx context.Context, id, modelURL string) (*Entity, error) {
	r.mu.RLock()
	_, exists := r.entities[id]
	r.mu.RUnlock()
	if exists {
		return nil, fmt.Errorf("avatar: id %q already registered", id)
	}

	entity := newEntity(id, r.vocab, r.fade)
	entity.state = StateLoading

	r.logger.Info("avatar: loading skeleton", "id", id, "url", modelURL)
	skeleton, err := r.loader.LoadSkeleton(ctx, modelURL)
	if err != nil {
		return nil, &assets.SkeletonLoadError{URL: modelURL, Err: err}
	}

	mixer := anim.NewMixer(skeleton)
	actions := make(map[string]*anim.Action, r.vocab.Len())
	for _, name := range r.vocab.Names() {
		clip, err := r.clips.Load(ctx, skeleton, name)
		if err != nil {
			return nil, fmt.Errorf("avatar: create %q: %w", id, err)
		}
		actions[name] = mixer.ClipAction(clip)
		r.logger.Debug("avatar: clip bound", "id", id, "animation", name)
	}

	entity.bind(skeleton, mixer, actions)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entities[id]; exists {
		return nil, fmt.Errorf("avatar: id %q already registered", id)
	}
	r.entities[id] = entity
	r.logger.Info("avatar: ready", "id", id, "clips", len(actions))
	return entity, nil
}

// Get returns the entity registered under id, or ErrNotFound.
func (r *Registry) Get(id string) (*Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entity, ok := r.entities[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return entity, nil
}

// IDs returns the registered avatar ids in unspecified order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.entities))
	for id := range r.entities {
		ids = append(ids, id)
	}
	return ids
}

// Len returns the number of registered avatars.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entities)
}

// Tick advances every Ready entity's mixer by dt seconds. The render loop
// calls it once per frame; it never blocks on in-flight loads.
func (r *Registry) Tick(dt float64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, entity := range r.entities {
		entity.Update(dt)
	}
}

// Teardown removes every entity. Commands routed after teardown fail with
// ErrNotFound.
func (r *Registry) Teardown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entities) > 0 {
		ids := make([]string, 0, len(r.entities))
		for id := range r.entities {
			ids = append(ids, id)
		}
		r.logger.Info("avatar: teardown", "ids", strings.Join(ids, ","))
	}
	r.entities = make(map[string]*Entity)
}
