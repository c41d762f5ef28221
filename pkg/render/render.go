package render

import (
	"context"
	"slices"

	"github.com/matzehuels/seatmap/pkg/floor"
	"github.com/matzehuels/seatmap/pkg/geom"
	"github.com/matzehuels/seatmap/pkg/observability"
)

// Opacity values applied by [Render].
const (
	DefaultOpacity  = 1.0
	ReservedOpacity = 0.5
)

// DrawItem is one table in screen pixels.
type DrawItem struct {
	ID           string  `json:"id"`
	ScreenX      float64 `json:"x"`
	ScreenY      float64 `json:"y"`
	ScreenWidth  float64 `json:"width"`
	ScreenHeight float64 `json:"height"`
	Opacity      float64 `json:"opacity"`
	Label        string  `json:"label,omitempty"`
	Kind         string  `json:"kind,omitempty"`
	Capacity     int     `json:"capacity,omitempty"`
	Reserved     bool    `json:"reserved,omitempty"`
}

// Rect returns the item's screen bounds.
func (d DrawItem) Rect() geom.Rect {
	return geom.Rect{X: d.ScreenX, Y: d.ScreenY, Width: d.ScreenWidth, Height: d.ScreenHeight}
}

// Render maps tables to draw items at the given scale and offset.
func Render(tables []floor.Table, scale float64, offset geom.Point) []DrawItem {
	items := make([]DrawItem, len(tables))
	for i, t := range tables {
		p := geom.WorldToScreen(geom.Point{X: t.X, Y: t.Y}, scale, offset)
		opacity := DefaultOpacity
		if t.IsReserved {
			opacity = ReservedOpacity
		}
		items[i] = DrawItem{
			ID:           t.ID,
			ScreenX:      p.X,
			ScreenY:      p.Y,
			ScreenWidth:  t.Width * scale,
			ScreenHeight: t.Height * scale,
			Opacity:      opacity,
			Label:        t.Name,
			Kind:         t.Kind,
			Capacity:     t.Capacity,
			Reserved:     t.IsReserved,
		}
	}
	return items
}

// Source is the model view a [Renderer] draws from. [*floor.Model]
// satisfies it.
type Source interface {
	Snapshot() []floor.Table
	Revision() uint64
}

type frameKey struct {
	revision  uint64
	scale     float64
	offset    geom.Point
	container geom.Size
}

// Renderer caches the most recent draw list.
//
// The zero value is ready to use. A Renderer belongs to one editor session
// and is not safe for concurrent use.
type Renderer struct {
	key   frameKey
	valid bool
	items []DrawItem
}

// NewRenderer returns an empty renderer.
func NewRenderer() *Renderer { return &Renderer{} }

// Draw returns the draw list for src under vp. The result is a copy and may
// be modified by the caller.
func (r *Renderer) Draw(ctx context.Context, src Source, vp geom.Viewport) []DrawItem {
	if !vp.Drawable() {
		return []DrawItem{}
	}

	key := frameKey{
		revision:  src.Revision(),
		scale:     vp.Scale,
		offset:    vp.Offset,
		container: vp.Container,
	}
	cached := r.valid && r.key == key
	if !cached {
		r.items = Render(src.Snapshot(), vp.Scale, vp.Offset)
		r.key = key
		r.valid = true
	}

	observability.Render().OnDraw(ctx, len(r.items), cached)
	return slices.Clone(r.items)
}

// Invalidate drops the cached draw list.
func (r *Renderer) Invalidate() {
	r.valid = false
	r.items = nil
}
