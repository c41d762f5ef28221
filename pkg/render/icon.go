package render

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/matzehuels/seatmap/pkg/observability"
)

// DefaultIconURL is the table icon served next to the editor.
const DefaultIconURL = "/table1.png"

// AssetLoader fetches a remote asset. [HTTPLoader] is the network
// implementation.
type AssetLoader interface {
	Load(ctx context.Context, url string) ([]byte, error)
}

// AssetLoaderFunc adapts a function to [AssetLoader].
type AssetLoaderFunc func(ctx context.Context, url string) ([]byte, error)

// Load calls f.
func (f AssetLoaderFunc) Load(ctx context.Context, url string) ([]byte, error) { return f(ctx, url) }

// Icon is the image drawn for each table.
type Icon struct {
	URL       string
	MediaType string
	Data      []byte
	Err       error
}

// Failed reports whether the icon could not be loaded. Sinks skip table
// glyphs for a failed icon.
func (i Icon) Failed() bool { return i.Err != nil || len(i.Data) == 0 }

// DataURI returns the icon as an inline data URI.
func (i Icon) DataURI() string {
	return "data:" + i.MediaType + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// LoadIcon fetches url through loader. Failures are recorded on the
// returned icon and reported to the render hooks, never returned.
func LoadIcon(ctx context.Context, loader AssetLoader, url string) Icon {
	icon := Icon{URL: url}
	data, err := loader.Load(ctx, url)
	if err == nil && len(data) == 0 {
		err = errEmptyAsset
	}
	if err != nil {
		icon.Err = err
		observability.Render().OnIconFailure(ctx, url, err)
		return icon
	}
	icon.Data = data
	icon.MediaType = http.DetectContentType(data)
	return icon
}

var errEmptyAsset = errors.New("empty asset")
