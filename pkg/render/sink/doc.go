// Package sink writes draw lists to output formats.
//
// [RenderSVG] produces a standalone SVG document sized to the frame; each
// table becomes a group with its icon (or a plain rectangle when no icon is
// configured) and an optional label. [RenderJSON] serializes the draw list
// together with the viewport that produced it, for clients that paint the
// canvas themselves.
package sink
