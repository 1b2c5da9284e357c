package anim

import (
	"context"
	"fmt"
	"sync"
)

// LoadClipFunc fetches and binds the named animation clip for a skeleton.
// Implementations typically download the clip asset and hand it to the
// renderer-side rig loader.
type LoadClipFunc func(ctx context.Context, skeleton Skeleton, name string) (Clip, error)

// ClipLoadError reports a failed clip fetch or bind.
type ClipLoadError struct {
	SkeletonID string
	Name       string
	Err        error
}

func (e *ClipLoadError) Error() string {
	return fmt.Sprintf("anim: load clip %q for skeleton %s: %v", e.Name, e.SkeletonID, e.Err)
}

func (e *ClipLoadError) Unwrap() error {
	return e.Err
}

// ClipCache memoizes clip loads per (skeleton, animation name) key.
//
// At most one load is in flight per key: concurrent callers share the
// pending load and receive the same handle. Successful loads are cached
// forever; failed loads are not, so the next call retries.
type ClipCache struct {
	load LoadClipFunc

	mu      sync.Mutex
	clips   map[string]Clip
	pending map[string]*clipLoad
}

type clipLoad struct {
	done chan struct{}
	clip Clip
	err  error
}

// NewClipCache creates a cache that fetches clips through load.
func NewClipCache(load LoadClipFunc) *ClipCache {
	return &ClipCache{
		load:    load,
		clips:   make(map[string]Clip),
		pending: make(map[string]*clipLoad),
	}
}

func cacheKey(skeletonID, name string) string {
	return skeletonID + "\x00" + name
}

// Load returns the clip for (skeleton, name), fetching it on first use.
// Repeated calls after a successful load return the cached handle without
// re-fetching. The returned error is a *ClipLoadError on fetch failure.
func (c *ClipCache) Load(ctx context.Context, skeleton Skeleton, name string) (Clip, error) {
	key := cacheKey(skeleton.ID(), name)

	c.mu.Lock()
	if clip, ok := c.clips[key]; ok {
		c.mu.Unlock()
		return clip, nil
	}
	if p, ok := c.pending[key]; ok {
		c.mu.Unlock()
		select {
		case <-p.done:
			return p.clip, p.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	p := &clipLoad{done: make(chan struct{})}
	c.pending[key] = p
	c.mu.Unlock()

	clip, err := c.load(ctx, skeleton, name)
	if err != nil {
		err = &ClipLoadError{SkeletonID: skeleton.ID(), Name: name, Err: err}
	}

	c.mu.Lock()
	delete(c.pending, key)
	if err == nil {
		c.clips[key] = clip
	}
	c.mu.Unlock()

	p.clip, p.err = clip, err
	close(p.done)
	return clip, err
}

// Cached returns the clip for (skeletonID, name) if a load has already
// succeeded, without triggering a fetch.
func (c *ClipCache) Cached(skeletonID, name string) (Clip, bool) {
	c.mu.Lock()
	clip, ok := c.clips[cacheKey(skeletonID, name)]
	c.mu.Unlock()
	return clip, ok
}

// Len returns the number of cached clips.
func (c *ClipCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.clips)
}
