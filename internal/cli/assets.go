package cli

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/matzehuels/seatmap/pkg/cache"
	"github.com/matzehuels/seatmap/pkg/httputil"
	"github.com/matzehuels/seatmap/pkg/render"
)

// iconCacheTTL is how long downloaded icons are reused.
const iconCacheTTL = 7 * 24 * time.Hour

func isRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// newIconLoader returns a loader for ref: remote icons are downloaded
// through the file cache, anything else is read from disk. The returned
// function releases the cache.
func newIconLoader(ref string, noCache bool) (render.AssetLoader, func()) {
	if !isRemote(ref) {
		return render.AssetLoaderFunc(func(_ context.Context, path string) ([]byte, error) {
			return os.ReadFile(path)
		}), func() {}
	}
	c := newCache(noCache)
	client := httputil.NewClient(httputil.WithCache(c, iconCacheTTL), httputil.WithRetry(3, 500*time.Millisecond))
	return render.NewHTTPLoader(client, nil), func() { c.Close() }
}

func newCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	fc, err := openIconCache()
	if err != nil {
		return cache.NewNullCache()
	}
	return fc
}
