// Package geom provides the value types used to describe keyboard frames,
// view frames and scroll offsets.
package geom

import "fmt"

// Point is a location in a two-dimensional coordinate space.
type Point struct {
	X, Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Size is a width and height.
type Size struct {
	Width, Height float64
}

// Rect is an axis-aligned rectangle. Width and height are expected to be
// non-negative.
type Rect struct {
	Origin Point
	Size   Size
}

// R is shorthand for a Rect built from its origin and size.
func R(x, y, w, h float64) Rect {
	return Rect{Origin: Point{X: x, Y: y}, Size: Size{Width: w, Height: h}}
}

func (r Rect) MinX() float64 { return r.Origin.X }
func (r Rect) MinY() float64 { return r.Origin.Y }
func (r Rect) MaxX() float64 { return r.Origin.X + r.Size.Width }
func (r Rect) MaxY() float64 { return r.Origin.Y + r.Size.Height }

// IsEmpty reports whether r has no area.
func (r Rect) IsEmpty() bool {
	return r.Size.Width <= 0 || r.Size.Height <= 0
}

// Contains reports whether s lies entirely inside r. Edges are inclusive, so
// a rectangle contains itself.
func (r Rect) Contains(s Rect) bool {
	return s.MinX() >= r.MinX() && s.MinY() >= r.MinY() &&
		s.MaxX() <= r.MaxX() && s.MaxY() <= r.MaxY()
}

// Intersection returns the overlapping region of r and s. The boolean is
// false when they share no area.
func (r Rect) Intersection(s Rect) (Rect, bool) {
	x0 := max(r.MinX(), s.MinX())
	y0 := max(r.MinY(), s.MinY())
	x1 := min(r.MaxX(), s.MaxX())
	y1 := min(r.MaxY(), s.MaxY())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}, false
	}
	return R(x0, y0, x1-x0, y1-y0), true
}

// Offset returns r translated by (dx, dy).
func (r Rect) Offset(dx, dy float64) Rect {
	r.Origin.X += dx
	r.Origin.Y += dy
	return r
}

// InsetBy shrinks r by dx on the left and right and dy on the top and
// bottom. Negative values grow it.
func (r Rect) InsetBy(dx, dy float64) Rect {
	return R(r.Origin.X+dx, r.Origin.Y+dy, r.Size.Width-2*dx, r.Size.Height-2*dy)
}

// Inset shrinks r by the given edge insets.
func (r Rect) Inset(in Insets) Rect {
	return R(r.Origin.X+in.Left, r.Origin.Y+in.Top,
		r.Size.Width-in.Left-in.Right, r.Size.Height-in.Top-in.Bottom)
}

func (r Rect) String() string {
	return fmt.Sprintf("[%g,%g,%g,%g]", r.Origin.X, r.Origin.Y, r.Size.Width, r.Size.Height)
}

// Insets are distances inward from each edge of a rectangle.
type Insets struct {
	Top, Left, Bottom, Right float64
}
