package store

import (
	"context"
	"time"

	"github.com/matzehuels/seatmap/pkg/cache"
	"github.com/matzehuels/seatmap/pkg/errors"
)

// Backend names accepted by [Open].
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendMongo  = "mongo"
)

// Backends lists the accepted backend names.
var Backends = []string{BackendFile, BackendMemory, BackendMongo}

// Config selects and configures a backend.
type Config struct {
	Backend       string
	Dir           string
	MongoURI      string
	MongoDatabase string

	// RedisURL enables a Redis read-through cache when set.
	RedisURL string
	// CacheDir enables a file read-through cache when set and RedisURL is
	// empty.
	CacheDir string
	CacheTTL time.Duration
	// CachePrefix scopes cache keys, see [cache.ScopedKeyer].
	CachePrefix string
}

// Open builds the configured store, wrapped with a cache when one is
// configured and instrumented with the backend name.
func Open(ctx context.Context, cfg Config, opts ...Option) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case BackendMemory:
		s = NewMemoryStore(opts...)
	case BackendFile, "":
		s, err = NewFileStore(cfg.Dir, opts...)
	case BackendMongo:
		if cfg.MongoURI == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "mongo backend needs a connection URI")
		}
		s, err = NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, opts...)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	c, err := openCache(ctx, cfg)
	if err != nil {
		s.Close()
		return nil, err
	}
	if c != nil {
		s = NewCachedStore(s, c, cache.NewScopedKeyer(nil, cfg.CachePrefix), cfg.CacheTTL)
	}

	name := cfg.Backend
	if name == "" {
		name = BackendFile
	}
	return Instrument(s, name), nil
}

func openCache(ctx context.Context, cfg Config) (cache.Cache, error) {
	switch {
	case cfg.RedisURL != "":
		c, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to redis")
		}
		return c, nil
	case cfg.CacheDir != "":
		c, err := cache.NewFileCache(cfg.CacheDir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "open cache dir")
		}
		return c, nil
	default:
		return nil, nil
	}
}
