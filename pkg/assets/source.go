package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// Source provides read access to asset bytes. Paths are forward-slash
// separated and relative to the source root; absolute http(s) URLs are
// accepted by HTTPSource regardless of its base.
//
// Implementations must be safe for concurrent use.
type Source interface {
	// Open opens the named asset for reading. The second result is the
	// total size in bytes, or -1 if unknown. If the asset does not exist,
	// an error wrapping os.ErrNotExist is returned.
	Open(ctx context.Context, name string) (io.ReadCloser, int64, error)
}

// DirSource serves assets from a local directory.
type DirSource struct {
	root string
}

// NewDir creates a DirSource rooted at dir.
func NewDir(dir string) (*DirSource, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	return &DirSource{root: abs}, nil
}

func (d *DirSource) Open(_ context.Context, name string) (io.ReadCloser, int64, error) {
	full := filepath.Join(d.root, filepath.FromSlash(name))
	f, err := os.Open(full)
	if err != nil {
		return nil, -1, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, -1, err
	}
	return f, info.Size(), nil
}

// HTTPSource serves assets over HTTP(S), typically from an IPFS gateway or
// a CDN hosting the avatar models and clip files.
type HTTPSource struct {
	base   string
	client *http.Client
}

// NewHTTP creates an HTTPSource. Relative asset names are resolved against
// base; names that are themselves absolute URLs are fetched as-is. Pass a
// nil client to use http.DefaultClient.
func NewHTTP(base string, client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{base: strings.TrimRight(base, "/"), client: client}
}

func (h *HTTPSource) Open(ctx context.Context, name string) (io.ReadCloser, int64, error) {
	target := name
	if !strings.Contains(name, "://") {
		target = h.base + "/" + strings.TrimLeft(name, "/")
	}
	if _, err := url.Parse(target); err != nil {
		return nil, -1, fmt.Errorf("assets: bad asset url %q: %w", target, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, -1, err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, -1, err
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, -1, fmt.Errorf("assets: fetch %s: %w", target, os.ErrNotExist)
	case resp.StatusCode != http.StatusOK:
		resp.Body.Close()
		return nil, -1, fmt.Errorf("assets: fetch %s: unexpected status %d", target, resp.StatusCode)
	}
	return resp.Body, resp.ContentLength, nil
}

// S3Client abstracts the S3 API operations used by S3Source. The
// s3.Client type satisfies this interface.
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source serves assets from an S3 (or S3-compatible) bucket, for
// deployments that host the model and clip files in object storage.
type S3Source struct {
	client S3Client
	bucket string
	prefix string
}

// NewS3 creates an S3Source. The client should be pre-configured with
// credentials, region, and endpoint. Prefix is prepended to all object
// keys; pass "" for no prefix.
func NewS3(client S3Client, bucket, prefix string) *S3Source {
	return &S3Source{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3Source) Open(ctx context.Context, name string) (io.ReadCloser, int64, error) {
	key := name
	if s.prefix != "" {
		key = s.prefix + "/" + name
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			code := apiErr.ErrorCode()
			if code == "NoSuchKey" || code == "NotFound" {
				return nil, -1, fmt.Errorf("assets: fetch s3://%s/%s: %w", s.bucket, key, os.ErrNotExist)
			}
		}
		return nil, -1, err
	}
	size := int64(-1)
	if out.ContentLength != nil {
		size = *out.ContentLength
	}
	return out.Body, size, nil
}

// ReadAll drains r, reporting progress after every chunk. total is the
// expected size, or -1 if unknown.
func ReadAll(r io.Reader, total int64, progress ProgressFunc) ([]byte, error) {
	if progress == nil {
		return io.ReadAll(r)
	}
	var (
		buf      []byte
		chunk    [32 * 1024]byte
		received int64
	)
	for {
		n, err := r.Read(chunk[:])
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			received += int64(n)
			progress(received, total)
		}
		if err == io.EOF {
			return buf, nil
		}
		if err != nil {
			return buf, err
		}
	}
}

// baseName returns the asset's file name without directories or
// extension: "animations/Chicken Dance.fbx" -> "Chicken Dance".
func baseName(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}

// errNotExist reports whether err means the asset is missing.
func errNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
