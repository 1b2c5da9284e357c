package assets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"
)

// blobMeta is the msgpack-encoded record stored alongside each cached
// asset blob.
type blobMeta struct {
	Name      string    `msgpack:"name"`
	Size      int64     `msgpack:"size"`
	FetchedAt time.Time `msgpack:"fetched_at"`
}

// BlobCache fronts a Source with a BadgerDB byte cache so repeated
// sessions don't re-download multi-megabyte model and clip files.
type BlobCache struct {
	db     *badger.DB
	source Source
	logger *slog.Logger
}

// BlobCacheOptions configures a BlobCache.
type BlobCacheOptions struct {
	// Dir is the directory for the cache database. Required unless
	// InMemory is set.
	Dir string

	// InMemory runs the cache without disk persistence. Useful for tests
	// and one-shot sessions.
	InMemory bool

	// Source is the backing asset source. Required.
	Source Source

	// Logger is optional. If nil, uses slog.Default().
	Logger *slog.Logger
}

// NewBlobCache opens (or creates) the cache database.
func NewBlobCache(opts BlobCacheOptions) (*BlobCache, error) {
	if opts.Source == nil {
		return nil, errors.New("assets: BlobCacheOptions.Source is required")
	}
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("assets: BlobCacheOptions.Dir is required for on-disk mode")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	dbOpts := badger.DefaultOptions(opts.Dir).WithLogger(nil)
	if opts.InMemory {
		dbOpts = dbOpts.WithInMemory(true)
	}
	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("assets: open blob cache: %w", err)
	}
	return &BlobCache{db: db, source: opts.Source, logger: logger}, nil
}

// Close releases the cache database.
func (c *BlobCache) Close() error {
	return c.db.Close()
}

func blobKey(name string) []byte { return []byte("blob\x00" + name) }
func metaKey(name string) []byte { return []byte("meta\x00" + name) }

// Get returns the bytes for the named asset, fetching them from the
// backing source on a cache miss. progress (optional) observes the
// download; cache hits report a single complete notification.
func (c *BlobCache) Get(ctx context.Context, name string, progress ProgressFunc) ([]byte, error) {
	var cached []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(blobKey(name))
		if err != nil {
			return err
		}
		cached, err = item.ValueCopy(nil)
		return err
	})
	if err == nil {
		if progress != nil {
			progress(int64(len(cached)), int64(len(cached)))
		}
		c.logger.Debug("assets: cache hit", "name", name, "size", len(cached))
		return cached, nil
	}
	if !errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("assets: read cache %q: %w", name, err)
	}

	r, total, err := c.source.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	data, err := ReadAll(r, total, progress)
	if err != nil {
		return nil, fmt.Errorf("assets: fetch %q: %w", name, err)
	}

	meta, err := msgpack.Marshal(blobMeta{
		Name:      name,
		Size:      int64(len(data)),
		FetchedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("assets: encode meta %q: %w", name, err)
	}
	err = c.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(blobKey(name), data); err != nil {
			return err
		}
		return txn.Set(metaKey(name), meta)
	})
	if err != nil {
		return nil, fmt.Errorf("assets: write cache %q: %w", name, err)
	}
	c.logger.Info("assets: fetched", "name", name, "size", len(data))
	return data, nil
}

// Meta returns the cache record for the named asset, or ok=false if the
// asset has never been fetched.
func (c *BlobCache) Meta(name string) (size int64, fetchedAt time.Time, ok bool) {
	var meta blobMeta
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(metaKey(name))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return msgpack.Unmarshal(val, &meta)
		})
	})
	if err != nil {
		return 0, time.Time{}, false
	}
	return meta.Size, meta.FetchedAt, true
}
