package geom

import "math"

// Point is a 2D coordinate. Whether it lives in screen space or world space
// depends on the caller; the two are only ever converted through a ViewState.
type Point struct {
	X, Y float64
}

// Size is a width/height pair.
type Size struct {
	Width, Height float64
}

// Rect is an axis-aligned rectangle with (X, Y) as the top-left corner.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// R is shorthand for constructing a Rect.
func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, Width: w, Height: h} }

// Min returns the top-left corner.
func (r Rect) Min() Point { return Point{r.X, r.Y} }

// Max returns the bottom-right corner.
func (r Rect) Max() Point { return Point{r.X + r.Width, r.Y + r.Height} }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X <= r.X+r.Width && p.Y <= r.Y+r.Height
}

// Intersects reports whether the rectangles overlap. Two rectangles do not
// intersect iff one is entirely to one side of the other on either axis.
func (r Rect) Intersects(o Rect) bool {
	return !(o.X > r.X+r.Width ||
		o.X+o.Width < r.X ||
		o.Y > r.Y+r.Height ||
		o.Y+o.Height < r.Y)
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	minX := math.Min(r.X, o.X)
	minY := math.Min(r.Y, o.Y)
	maxX := math.Max(r.X+r.Width, o.X+o.Width)
	maxY := math.Max(r.Y+r.Height, o.Y+o.Height)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Expand grows the rectangle by margin on all four sides. A negative margin
// shrinks it.
func (r Rect) Expand(margin float64) Rect {
	return Rect{
		X:      r.X - margin,
		Y:      r.Y - margin,
		Width:  r.Width + 2*margin,
		Height: r.Height + 2*margin,
	}
}

// ViewState is the zoom/pan state of a canvas: world coordinates are scaled
// by Scale then shifted by the offsets to reach screen coordinates. Scale is
// intended to be positive but is not enforced; a zero scale yields Inf/NaN
// from ScreenToWorld and callers are expected to let that propagate.
type ViewState struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// ScreenToWorld maps a screen point into world (image) space.
func ScreenToWorld(p Point, view ViewState) Point {
	return Point{
		X: (p.X - view.OffsetX) / view.Scale,
		Y: (p.Y - view.OffsetY) / view.Scale,
	}
}

// WorldToScreen maps a world point into screen space.
func WorldToScreen(p Point, view ViewState) Point {
	return Point{
		X: p.X*view.Scale + view.OffsetX,
		Y: p.Y*view.Scale + view.OffsetY,
	}
}

// WorldToScreenRect maps a world rectangle into screen space.
func WorldToScreenRect(r Rect, view ViewState) Rect {
	min := WorldToScreen(r.Min(), view)
	return Rect{X: min.X, Y: min.Y, Width: r.Width * view.Scale, Height: r.Height * view.Scale}
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// CenterPoint returns the midpoint between two points.
func CenterPoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Clamp bounds v to [min, max]. The evaluation order is fixed: the lower
// bound is applied first, so when callers hand in an inverted range the
// upper bound wins. Slider drag code relies on this tie-break.
func Clamp(v, min, max float64) float64 {
	return math.Min(math.Max(v, min), max)
}

// BoundingRect returns the axis-aligned bounding box of the points. An empty
// slice yields the zero Rect.
func BoundingRect(pts []Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
