package editor

import (
	"github.com/matzehuels/seatmap/pkg/floor"
	"github.com/matzehuels/seatmap/pkg/geom"
)

// Binder keeps the viewport in step with the container it is drawn into.
type Binder struct {
	vp geom.Viewport
}

// NewBinder returns a binder in auto-fit mode with no container yet.
func NewBinder() *Binder {
	return &Binder{vp: geom.NewViewport()}
}

// Resize records a new container size. A zero dimension marks the viewport
// as not drawable. Otherwise, in auto-fit mode with at least one table, the
// scale is refit to the container and the offset reset.
func (b *Binder) Resize(size geom.Size, tables []floor.Table) {
	b.vp = b.vp.Fit(size, floor.Rects(tables))
}

// Zoom applies one wheel step at pointer. A positive deltaY zooms out.
func (b *Binder) Zoom(pointer geom.Point, deltaY float64) {
	b.vp = b.vp.Zoom(pointer, sign(deltaY))
}

// Pan moves the plan by delta screen pixels.
func (b *Binder) Pan(delta geom.Point) {
	b.vp = b.vp.PanBy(delta)
}

// ResetView returns to auto-fit mode and refits tables.
func (b *Binder) ResetView(tables []floor.Table) {
	b.vp = b.vp.Reset(floor.Rects(tables))
}

// Refit reapplies the fit for tables without changing the mode. It has no
// effect on a user-controlled viewport.
func (b *Binder) Refit(tables []floor.Table) {
	b.vp = b.vp.Fit(b.vp.Container, floor.Rects(tables))
}

// Viewport returns the current viewport.
func (b *Binder) Viewport() geom.Viewport { return b.vp }

// Drawable reports whether the container has a non-zero size.
func (b *Binder) Drawable() bool { return b.vp.Drawable() }

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
