// Package coords holds the geometry primitives shared by every drawing object:
// points, bounds, spacing, alignment and unit conversion. All lengths are
// millimeters with a lower-left origin unless noted otherwise.
package coords

import "math"

// Matrix is an affine transform [a b c d e f].
type Matrix [6]float64

func (m Matrix) Multiply(o Matrix) Matrix {
	return Matrix{
		m[0]*o[0] + m[1]*o[2],
		m[0]*o[1] + m[1]*o[3],
		m[2]*o[0] + m[3]*o[2],
		m[2]*o[1] + m[3]*o[3],
		m[4]*o[0] + m[5]*o[2] + o[4],
		m[4]*o[1] + m[5]*o[3] + o[5],
	}
}

// Point is an x/y pair in millimeters.
type Point struct{ X, Y float64 }

func (p Point) Add(o Point) Point { return Point{X: p.X + o.X, Y: p.Y + o.Y} }

func (m Matrix) Transform(p Point) Point {
	return Point{X: m[0]*p.X + m[2]*p.Y + m[4], Y: m[1]*p.X + m[3]*p.Y + m[5]}
}

// TransformAll applies m to every point, returning a new slice.
func (m Matrix) TransformAll(pts []Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = m.Transform(p)
	}
	return out
}

func Translate(tx, ty float64) Matrix { return Matrix{1, 0, 0, 1, tx, ty} }
func Scale(sx, sy float64) Matrix     { return Matrix{sx, 0, 0, sy, 0, 0} }

// BoundsOf returns the smallest bounds containing every point. An empty slice
// yields the zero bounds.
func BoundsOf(pts []Point) Bounds {
	if len(pts) == 0 {
		return Bounds{}
	}
	b := Bounds{LL: pts[0], UR: pts[0]}
	for _, p := range pts[1:] {
		b.LL.X = math.Min(b.LL.X, p.X)
		b.LL.Y = math.Min(b.LL.Y, p.Y)
		b.UR.X = math.Max(b.UR.X, p.X)
		b.UR.Y = math.Max(b.UR.Y, p.Y)
	}
	return b
}
