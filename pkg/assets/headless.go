package assets

import (
	"context"

	"github.com/google/uuid"

	"github.com/autocube/cubo/pkg/anim"
)

// HeadlessLoader is a Loader for running the engine without a renderer:
// it fetches asset bytes through a BlobCache and wraps them in
// metadata-only handles. The animation state machine runs exactly as it
// would on screen; only the rig decoding is absent. Rendering
// integrations supply their own Loader instead.
type HeadlessLoader struct {
	cache    *BlobCache
	progress ProgressFunc
}

// NewHeadlessLoader creates a loader over cache. progress (optional)
// observes every download.
func NewHeadlessLoader(cache *BlobCache, progress ProgressFunc) *HeadlessLoader {
	return &HeadlessLoader{cache: cache, progress: progress}
}

// ByteSkeleton is a loaded-but-undecoded rig. Every load produces a fresh
// instance: each avatar owns its skeleton exclusively, so clip bindings
// are never shared across avatars.
type ByteSkeleton struct {
	id   string
	url  string
	size int64
}

func (s *ByteSkeleton) ID() string  { return s.id }
func (s *ByteSkeleton) URL() string { return s.url }
func (s *ByteSkeleton) Size() int64 { return s.size }

// ByteClip is a loaded-but-undecoded animation clip. Its duration is
// unknown (0), which the mixer treats as non-wrapping playback.
type ByteClip struct {
	name string
	size int64
}

func (c *ByteClip) Name() string      { return c.name }
func (c *ByteClip) Duration() float64 { return 0 }
func (c *ByteClip) Size() int64       { return c.size }

// LoadSkeleton fetches the rig asset and returns a fresh skeleton handle.
func (l *HeadlessLoader) LoadSkeleton(ctx context.Context, url string) (anim.Skeleton, error) {
	data, err := l.cache.Get(ctx, url, l.progress)
	if err != nil {
		return nil, &SkeletonLoadError{URL: url, Err: err}
	}
	return &ByteSkeleton{
		id:   uuid.NewString(),
		url:  url,
		size: int64(len(data)),
	}, nil
}

// LoadClip fetches the clip asset. The clip name is derived from the
// asset file name, which the registry's clip path layout guarantees to be
// the canonical animation name.
func (l *HeadlessLoader) LoadClip(ctx context.Context, url string, _ anim.Skeleton) (anim.Clip, error) {
	data, err := l.cache.Get(ctx, url, l.progress)
	if err != nil {
		return nil, err
	}
	return &ByteClip{
		name: baseName(url),
		size: int64(len(data)),
	}, nil
}
