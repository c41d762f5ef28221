package sink

import (
	"encoding/json"

	"github.com/matzehuels/seatmap/pkg/geom"
	"github.com/matzehuels/seatmap/pkg/render"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	viewport *geom.Viewport
	layoutID string
	name     string
	icon     *render.Icon
}

// WithJSONViewport records the viewport that produced the draw list.
func WithJSONViewport(vp geom.Viewport) JSONOption {
	return func(r *jsonRenderer) { r.viewport = &vp }
}

// WithJSONLayout records the layout id and name.
func WithJSONLayout(id, name string) JSONOption {
	return func(r *jsonRenderer) { r.layoutID, r.name = id, name }
}

// WithJSONIcon records the icon URL. A failed icon empties the item list,
// matching [RenderSVG].
func WithJSONIcon(icon render.Icon) JSONOption {
	return func(r *jsonRenderer) { r.icon = &icon }
}

type jsonOutput struct {
	Width    float64           `json:"width"`
	Height   float64           `json:"height"`
	LayoutID string            `json:"layout_id,omitempty"`
	Name     string            `json:"name,omitempty"`
	Scale    float64           `json:"scale,omitempty"`
	OffsetX  float64           `json:"offset_x,omitempty"`
	OffsetY  float64           `json:"offset_y,omitempty"`
	Mode     string            `json:"mode,omitempty"`
	Icon     string            `json:"icon,omitempty"`
	Items    []render.DrawItem `json:"items"`
}

// RenderJSON serializes items for a frame of the given size.
func RenderJSON(frame geom.Size, items []render.DrawItem, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Width:    frame.Width,
		Height:   frame.Height,
		LayoutID: r.layoutID,
		Name:     r.name,
		Items:    items,
	}
	if out.Items == nil {
		out.Items = []render.DrawItem{}
	}
	if r.viewport != nil {
		out.Scale = r.viewport.Scale
		out.OffsetX = r.viewport.Offset.X
		out.OffsetY = r.viewport.Offset.Y
		out.Mode = r.viewport.Mode.String()
	}
	if r.icon != nil {
		out.Icon = r.icon.URL
		if r.icon.Failed() {
			out.Items = []render.DrawItem{}
		}
	}
	return json.MarshalIndent(out, "", "  ")
}
