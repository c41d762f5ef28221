package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"

	"github.com/matzehuels/seatmap/pkg/geom"
	"github.com/matzehuels/seatmap/pkg/render"
)

const tableCSS = `
    .table rect { fill: #f5efe6; stroke: #5b4636; stroke-width: 1.5; }
    .table.reserved rect { fill: #d9d2c5; }
    .table-label { font-family: sans-serif; fill: #2b2118; text-anchor: middle; dominant-baseline: central; }`

const (
	fontHeightRatio = 0.25
	fontCharWidth   = 0.55
	fontSizeMin     = 6.0
	fontSizeMax     = 18.0
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	icon       *render.Icon
	labels     bool
	title      string
	background string
	grid       float64
	viewport   geom.Viewport
}

// WithIcon draws every table with icon. A failed icon leaves tables out of
// the frame.
func WithIcon(icon render.Icon) SVGOption { return func(r *svgRenderer) { r.icon = &icon } }

// WithLabels writes each table's name centered on it.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithTitle sets the document title.
func WithTitle(title string) SVGOption { return func(r *svgRenderer) { r.title = title } }

// WithBackground fills the frame with color.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// WithGrid draws grid lines every size world units under the tables, mapped
// through vp.
func WithGrid(size float64, vp geom.Viewport) SVGOption {
	return func(r *svgRenderer) { r.grid, r.viewport = size, vp }
}

// RenderSVG writes items into an SVG document of the given frame size.
func RenderSVG(frame geom.Size, items []render.DrawItem, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		frame.Width, frame.Height, frame.Width, frame.Height)

	if r.title != "" {
		buf.WriteString("  <title>")
		xml.EscapeText(&buf, []byte(r.title))
		buf.WriteString("</title>\n")
	}
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", tableCSS)

	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escapeAttr(r.background))
	}
	if r.grid > 0 {
		renderGrid(&buf, frame, r.grid, r.viewport)
	}

	if r.icon == nil || !r.icon.Failed() {
		for _, it := range items {
			renderTable(&buf, &r, it)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func renderTable(buf *bytes.Buffer, r *svgRenderer, it render.DrawItem) {
	class := "table"
	if it.Reserved {
		class += " reserved"
	}
	fmt.Fprintf(buf, `  <g id="table-%s" class="%s" opacity="%.2f">`+"\n", escapeAttr(it.ID), class, it.Opacity)

	if r.icon != nil {
		fmt.Fprintf(buf, `    <image x="%.2f" y="%.2f" width="%.2f" height="%.2f" href="%s"/>`+"\n",
			it.ScreenX, it.ScreenY, it.ScreenWidth, it.ScreenHeight, r.icon.DataURI())
	} else {
		fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="4"/>`+"\n",
			it.ScreenX, it.ScreenY, it.ScreenWidth, it.ScreenHeight)
	}

	if r.labels && it.Label != "" {
		cx := it.ScreenX + it.ScreenWidth/2
		cy := it.ScreenY + it.ScreenHeight/2
		fmt.Fprintf(buf, `    <text class="table-label" x="%.2f" y="%.2f" font-size="%.1f">`,
			cx, cy, fontSize(it.ScreenWidth, it.ScreenHeight, len(it.Label)))
		xml.EscapeText(buf, []byte(it.Label))
		buf.WriteString("</text>\n")
	}
	buf.WriteString("  </g>\n")
}

func renderGrid(buf *bytes.Buffer, frame geom.Size, size float64, vp geom.Viewport) {
	step := size * vp.Scale
	if step < 4 {
		return
	}
	buf.WriteString(`  <g class="grid" stroke="#e6e0d8" stroke-width="0.5">` + "\n")
	for x := mod(vp.Offset.X, step); x <= frame.Width; x += step {
		fmt.Fprintf(buf, `    <line x1="%.2f" y1="0" x2="%.2f" y2="%.2f"/>`+"\n", x, x, frame.Height)
	}
	for y := mod(vp.Offset.Y, step); y <= frame.Height; y += step {
		fmt.Fprintf(buf, `    <line x1="0" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n", y, frame.Width, y)
	}
	buf.WriteString("  </g>\n")
}

func mod(v, m float64) float64 {
	r := math.Mod(v, m)
	if r < 0 {
		r += m
	}
	return r
}

func fontSize(w, h float64, textLen int) float64 {
	n := max(1, textLen)
	byHeight := h * fontHeightRatio
	byWidth := w / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, min(byHeight, byWidth)))
}

func escapeAttr(s string) string {
	var b bytes.Buffer
	xml.EscapeText(&b, []byte(s))
	return b.String()
}
