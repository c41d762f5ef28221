// Package render turns a floor plan into screen-space draw lists.
//
// # Overview
//
// [Render] maps every table through the viewport transform: the top-left
// corner goes through [geom.WorldToScreen] and both dimensions are
// multiplied by the scale. Draw order follows the model order and nothing
// is culled, so tables outside the container still produce items.
//
// Reserved tables are drawn at [ReservedOpacity]; reservation has no other
// effect on rendering.
//
// # Caching
//
// A [Renderer] keeps the last draw list and derives a new one only when the
// model revision or the viewport changes. A viewport whose container has not
// been laid out yet yields an empty list.
//
// # Icons
//
// Tables are drawn with an icon image fetched by URL through an
// [AssetLoader]. A failed load is not an error: the returned [Icon] is
// marked failed and sinks leave table glyphs out of the frame.
//
// Output formats live in the [sink] subpackage.
package render
