// Package cache provides byte-level caching for stored layouts and table
// icon assets.
//
// Three backends implement [Cache]:
//
//   - [NullCache]: caches nothing, used when caching is disabled
//   - [FileCache]: one file per entry, used by the CLI
//   - [RedisCache]: a shared Redis instance, used by the HTTP server
//
// Keys are produced by a [Keyer] so that every backend agrees on the key
// space. [ScopedKeyer] prefixes keys for deployments that share a Redis
// database between environments.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque values under string keys.
//
// Get reports a miss with (nil, false, nil); errors are reserved for
// backend failures. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey addresses one stored layout document.
	LayoutKey(id string) string
	// ListKey addresses the layout summaries of one owner.
	ListKey(ownerID string) string
	// IconKey addresses a fetched icon asset.
	IconKey(url string) string
}

// NullCache caches nothing. Every Get is a miss.
type NullCache struct{}

// NewNullCache returns a [Cache] that disables caching.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

var _ Cache = NullCache{}
