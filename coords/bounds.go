package coords

import "math"

// Bounds is a rectangle described by its lower-left and upper-right corners.
// Nothing forces UR to sit above and right of LL; Width and Height report the
// raw differences and may be negative.
type Bounds struct {
	LL Point
	UR Point
}

// FromCoords builds bounds from corner coordinates.
func FromCoords(llx, lly, urx, ury float64) Bounds {
	return Bounds{LL: Point{X: llx, Y: lly}, UR: Point{X: urx, Y: ury}}
}

// FromSize builds bounds from a lower-left corner and a size.
func FromSize(x, y, width, height float64) Bounds {
	return FromCoords(x, y, x+width, y+height)
}

func (b Bounds) Coords() (llx, lly, urx, ury float64) {
	return b.LL.X, b.LL.Y, b.UR.X, b.UR.Y
}

func (b Bounds) Width() float64  { return b.UR.X - b.LL.X }
func (b Bounds) Height() float64 { return b.UR.Y - b.LL.Y }

// ClampedWidth is Width clipped at zero, for measurement bounds such as page
// areas where an inverted rectangle means "no room".
func (b Bounds) ClampedWidth() float64 { return math.Max(0, b.Width()) }

// ClampedHeight is Height clipped at zero.
func (b Bounds) ClampedHeight() float64 { return math.Max(0, b.Height()) }

// Clamped returns bounds whose upper-right corner is never below or left of
// the lower-left corner.
func (b Bounds) Clamped() Bounds {
	return FromSize(b.LL.X, b.LL.Y, b.ClampedWidth(), b.ClampedHeight())
}

func (b Bounds) Center() Point {
	return Point{X: b.LL.X + b.Width()/2, Y: b.LL.Y + b.Height()/2}
}

// Union returns the smallest bounds containing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	return FromCoords(
		math.Min(b.LL.X, o.LL.X),
		math.Min(b.LL.Y, o.LL.Y),
		math.Max(b.UR.X, o.UR.X),
		math.Max(b.UR.Y, o.UR.Y),
	)
}

// Translate moves both corners by (dx, dy).
func (b Bounds) Translate(dx, dy float64) Bounds {
	m := Translate(dx, dy)
	return Bounds{LL: m.Transform(b.LL), UR: m.Transform(b.UR)}
}

// Shrink moves every edge inward by the matching side of s.
func (b Bounds) Shrink(s Space) Bounds {
	return FromCoords(b.LL.X+s.Left, b.LL.Y+s.Bottom, b.UR.X-s.Right, b.UR.Y-s.Top)
}

// OuterBounds is bounds minus margin.
func OuterBounds(b Bounds, margin Space) Bounds { return b.Shrink(margin) }

// InnerBounds is bounds minus margin minus padding.
func InnerBounds(b Bounds, margin, padding Space) Bounds {
	return OuterBounds(b, margin).Shrink(padding)
}
