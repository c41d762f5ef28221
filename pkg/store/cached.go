package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/seatmap/pkg/cache"
	"github.com/matzehuels/seatmap/pkg/document"
	"github.com/matzehuels/seatmap/pkg/floor"
	"github.com/matzehuels/seatmap/pkg/observability"
)

// DefaultCacheTTL bounds how long a cached layout is served.
const DefaultCacheTTL = 10 * time.Minute

// CachedStore serves Load and List from a cache in front of another store.
//
// Layouts are immutable once saved, so a cached document is never stale;
// the owner's summary list is invalidated on Save and Delete. Cache
// failures fall through to the inner store.
type CachedStore struct {
	inner Store
	cache cache.Cache
	keyer cache.Keyer
	ttl   time.Duration
}

// NewCachedStore wraps inner with c. A nil keyer selects the default key
// layout and a non-positive ttl selects [DefaultCacheTTL].
func NewCachedStore(inner Store, c cache.Cache, keyer cache.Keyer, ttl time.Duration) *CachedStore {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedStore{inner: inner, cache: c, keyer: keyer, ttl: ttl}
}

func (s *CachedStore) Save(ctx context.Context, ownerID, name string, tables []floor.Table) (string, error) {
	id, err := s.inner.Save(ctx, ownerID, name, tables)
	if err != nil {
		return "", err
	}
	_ = s.cache.Delete(ctx, s.keyer.ListKey(ownerID))
	return id, nil
}

func (s *CachedStore) Load(ctx context.Context, id string) (*document.Document, error) {
	key := s.keyer.LayoutKey(id)
	if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		if doc, err := document.Unmarshal(data); err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return doc, nil
		}
		_ = s.cache.Delete(ctx, key)
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	doc, err := s.inner.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if data, err := document.Marshal(doc); err == nil {
		if s.cache.Set(ctx, key, data, s.ttl) == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return doc, nil
}

func (s *CachedStore) List(ctx context.Context, ownerID string) ([]document.Summary, error) {
	key := s.keyer.ListKey(ownerID)
	if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var out []document.Summary
		if json.Unmarshal(data, &out) == nil {
			observability.Cache().OnCacheHit(ctx, "list")
			return out, nil
		}
		_ = s.cache.Delete(ctx, key)
	}
	observability.Cache().OnCacheMiss(ctx, "list")

	out, err := s.inner.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(out); err == nil {
		if s.cache.Set(ctx, key, data, s.ttl) == nil {
			observability.Cache().OnCacheSet(ctx, "list", len(data))
		}
	}
	return out, nil
}

func (s *CachedStore) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.inner.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, s.keyer.LayoutKey(id))
	_ = s.cache.Delete(ctx, s.keyer.ListKey(ownerID))
	return nil
}

// Close closes the inner store and the cache.
func (s *CachedStore) Close() error {
	err := s.inner.Close()
	if cerr := s.cache.Close(); err == nil {
		err = cerr
	}
	return err
}

var _ Store = (*CachedStore)(nil)
