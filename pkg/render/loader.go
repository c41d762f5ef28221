package render

import (
	"context"

	"github.com/matzehuels/seatmap/pkg/cache"
	"github.com/matzehuels/seatmap/pkg/httputil"
)

// HTTPLoader loads assets with an [httputil.Client], caching them under
// [cache.Keyer.IconKey].
type HTTPLoader struct {
	Client *httputil.Client
	Keyer  cache.Keyer
}

// NewHTTPLoader returns a loader backed by client. A nil keyer selects the
// default key layout.
func NewHTTPLoader(client *httputil.Client, keyer cache.Keyer) *HTTPLoader {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &HTTPLoader{Client: client, Keyer: keyer}
}

// Load fetches url.
func (l *HTTPLoader) Load(ctx context.Context, url string) ([]byte, error) {
	return l.Client.Fetch(ctx, l.Keyer.IconKey(url), url)
}
