package geom

// Point is a position or displacement in either world or screen space.
type Point struct {
	X, Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns the displacement from q to p.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Mul scales both components by k.
func (p Point) Mul(k float64) Point { return Point{p.X * k, p.Y * k} }

// Size is a width and height pair, typically a container in screen pixels.
type Size struct {
	Width, Height float64
}

// Empty reports whether either dimension is zero or negative. An empty
// container has not been laid out yet and cannot be drawn into.
func (s Size) Empty() bool { return s.Width <= 0 || s.Height <= 0 }

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Min returns the top-left corner.
func (r Rect) Min() Point { return Point{r.X, r.Y} }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// Extent returns the far corner of the union of rects measured from the
// origin: the maximum right edge and the maximum bottom edge. Empty input
// yields the zero point.
func Extent(rects []Rect) Point {
	var max Point
	for i, r := range rects {
		if i == 0 || r.Right() > max.X {
			max.X = r.Right()
		}
		if i == 0 || r.Bottom() > max.Y {
			max.Y = r.Bottom()
		}
	}
	return max
}
