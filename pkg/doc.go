// Package pkg provides the libraries behind seatmap, a floor-plan editor
// for venue table layouts.
//
// # Overview
//
// A layout is a set of rectangular tables placed in world coordinates.
// Seatmap fits the plan into whatever screen area is available, lets club
// owners drag, resize and reserve tables, and stores each saved layout as
// an immutable document.
//
//  1. [geom] - world/screen transforms, fit-to-bounds and the viewport
//  2. [floor] - the editable table model with undo and redo
//  3. [render] - draw lists, table icons and the SVG and JSON sinks
//  4. [editor] - sessions binding a principal, a model and a container
//  5. [document] and [store] - persisted layouts on file, memory or MongoDB
//  6. [cache] and [httputil] - Redis or file caching and asset fetching
//  7. [config], [errors], [observability], [buildinfo] - shared plumbing
//
// # Data Flow
//
//	layout file / store
//	         ↓
//	    [floor] model  ←  [editor] session (pointer, wheel, keys)
//	         ↓
//	    [geom] viewport (fit, zoom, pan)
//	         ↓
//	    [render] draw list
//	         ↓
//	    SVG / JSON / terminal canvas
//
// # Quick Start
//
//	tables := []floor.Table{floor.NewTable(0, 0), floor.NewTable(300, 200)}
//	frame := geom.Size{Width: 800, Height: 600}
//
//	vp := geom.NewViewport().Fit(frame, floor.Rects(tables))
//	items := render.Render(tables, vp.Scale, vp.Offset)
//	svg := sink.RenderSVG(frame, items, sink.WithLabels())
//
// The seatmap command (cmd/seatmap) wraps these packages with a CLI, a
// terminal editor and an HTTP API.
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/seatmap/pkg/geom
// [floor]: https://pkg.go.dev/github.com/matzehuels/seatmap/pkg/floor
// [render]: https://pkg.go.dev/github.com/matzehuels/seatmap/pkg/render
// [editor]: https://pkg.go.dev/github.com/matzehuels/seatmap/pkg/editor
// [document]: https://pkg.go.dev/github.com/matzehuels/seatmap/pkg/document
// [store]: https://pkg.go.dev/github.com/matzehuels/seatmap/pkg/store
// [cache]: https://pkg.go.dev/github.com/matzehuels/seatmap/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/seatmap/pkg/httputil
// [config]: https://pkg.go.dev/github.com/matzehuels/seatmap/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/seatmap/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/seatmap/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/seatmap/pkg/buildinfo
package pkg
