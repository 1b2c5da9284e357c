// Package assets loads avatar rigs and animation clips from pluggable
// sources. The actual rig/clip decoding belongs to the renderer; this
// package owns fetching bytes (local dir, HTTP gateway, S3) and caching
// them on disk so repeated sessions don't re-download multi-megabyte
// model files.
package assets

import (
	"context"
	"fmt"

	"github.com/autocube/cubo/pkg/anim"
)

// ProgressFunc observes download progress. received is the number of bytes
// read so far and total the expected size, or -1 if unknown.
type ProgressFunc func(received, total int64)

// Loader turns fetched assets into drivable animation handles. The
// renderer-side rig decoder implements it; tests use lightweight fakes.
//
// Implementations must not leave partial state behind on failure: a failed
// load binds nothing.
type Loader interface {
	// LoadSkeleton fetches and decodes the rig asset at url.
	LoadSkeleton(ctx context.Context, url string) (anim.Skeleton, error)

	// LoadClip fetches the clip asset at url and binds it to skeleton.
	LoadClip(ctx context.Context, url string, skeleton anim.Skeleton) (anim.Clip, error)
}

// SkeletonLoadError reports a failed rig fetch or decode.
type SkeletonLoadError struct {
	URL string
	Err error
}

func (e *SkeletonLoadError) Error() string {
	return fmt.Sprintf("assets: load skeleton %s: %v", e.URL, e.Err)
}

func (e *SkeletonLoadError) Unwrap() error {
	return e.Err
}
