package geom

import "math"

const (
	// MinScale and MaxScale bound every zoom result.
	MinScale = 0.5
	MaxScale = 2.0

	// ZoomFactor is the multiplicative step applied per wheel event.
	ZoomFactor = 1.1
)

// WorldToScreen maps a world point to screen pixels.
func WorldToScreen(p Point, scale float64, offset Point) Point {
	return Point{p.X*scale + offset.X, p.Y*scale + offset.Y}
}

// ScreenToWorld maps a screen pixel to world coordinates. It is the inverse
// of [WorldToScreen] for any positive scale.
func ScreenToWorld(p Point, scale float64, offset Point) Point {
	return Point{(p.X - offset.X) / scale, (p.Y - offset.Y) / scale}
}

// FitToBounds returns the scale at which every rect fits inside container,
// never enlarging beyond 1.0. The extent is measured from the world origin,
// so whitespace left and above the first table counts towards the fit.
//
// An axis whose extent or container dimension is non-positive contributes a
// ratio of 1.0, which keeps the result strictly positive.
func FitToBounds(container Size, rects []Rect) float64 {
	if len(rects) == 0 {
		return 1.0
	}
	max := Extent(rects)
	return math.Min(math.Min(ratio(container.Width, max.X), ratio(container.Height, max.Y)), 1.0)
}

func ratio(avail, extent float64) float64 {
	if extent <= 0 || avail <= 0 {
		return 1.0
	}
	return avail / extent
}

// ZoomAt applies one zoom step anchored at pointer.
//
// A positive deltaSign zooms out (the wheel moved towards the user), a
// negative one zooms in and zero leaves the viewport unchanged. The returned
// offset keeps the world point under pointer on the same screen pixel.
func ZoomAt(pointer Point, deltaSign int, scale float64, offset Point) (float64, Point) {
	if deltaSign == 0 {
		return scale, offset
	}
	world := ScreenToWorld(pointer, scale, offset)

	next := scale * ZoomFactor
	if deltaSign > 0 {
		next = scale / ZoomFactor
	}
	next = ClampScale(next)

	return next, pointer.Sub(world.Mul(next))
}

// Pan translates offset by delta. Panning is not clamped; the plan may be
// dragged fully out of view.
func Pan(delta, offset Point) Point {
	return offset.Add(delta)
}

// ClampScale bounds s to [MinScale, MaxScale].
func ClampScale(s float64) float64 {
	return math.Max(MinScale, math.Min(MaxScale, s))
}

// Mode records who owns the viewport scale.
type Mode int

const (
	// ModeAutoFit refits the scale whenever the container is resized.
	ModeAutoFit Mode = iota
	// ModeUserControlled keeps the user's zoom across container resizes.
	ModeUserControlled
)

func (m Mode) String() string {
	switch m {
	case ModeAutoFit:
		return "auto-fit"
	case ModeUserControlled:
		return "user-controlled"
	default:
		return "unknown"
	}
}

// Viewport is the transient per-session view of a floor plan. It is a value
// type; every method returns the updated viewport.
type Viewport struct {
	Scale     float64
	Offset    Point
	Container Size
	Mode      Mode
}

// NewViewport returns an auto-fit viewport at native scale.
func NewViewport() Viewport {
	return Viewport{Scale: 1.0}
}

// Zoom applies [ZoomAt] and hands the viewport over to the user.
func (v Viewport) Zoom(pointer Point, deltaSign int) Viewport {
	if deltaSign == 0 {
		return v
	}
	v.Scale, v.Offset = ZoomAt(pointer, deltaSign, v.Scale, v.Offset)
	v.Mode = ModeUserControlled
	return v
}

// PanBy applies [Pan] and hands the viewport over to the user.
func (v Viewport) PanBy(delta Point) Viewport {
	v.Offset = Pan(delta, v.Offset)
	v.Mode = ModeUserControlled
	return v
}

// Fit records container and, while in auto-fit mode, resets the view to the
// fitted scale at the origin. The fitted scale is clamped like any other
// viewport scale, so very large plans may still overflow a small container.
// A user-controlled viewport only records the new container size.
func (v Viewport) Fit(container Size, rects []Rect) Viewport {
	v.Container = container
	if v.Mode != ModeAutoFit || container.Empty() || len(rects) == 0 {
		return v
	}
	v.Scale = ClampScale(FitToBounds(container, rects))
	v.Offset = Point{}
	return v
}

// Reset returns to auto-fit mode and refits against the last container.
func (v Viewport) Reset(rects []Rect) Viewport {
	v.Mode = ModeAutoFit
	v.Scale = 1.0
	v.Offset = Point{}
	return v.Fit(v.Container, rects)
}

// ToScreen maps a world point through this viewport.
func (v Viewport) ToScreen(p Point) Point { return WorldToScreen(p, v.Scale, v.Offset) }

// ToWorld maps a screen point through this viewport.
func (v Viewport) ToWorld(p Point) Point { return ScreenToWorld(p, v.Scale, v.Offset) }

// Drawable reports whether the container has been laid out.
func (v Viewport) Drawable() bool { return !v.Container.Empty() }
