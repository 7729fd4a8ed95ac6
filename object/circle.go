package object

import (
	"github.com/chipsenkbeil/makepdf-sub000/builder"
	"github.com/chipsenkbeil/makepdf-sub000/coords"
)

// kappa places cubic bezier control points so four curves approximate a
// circle.
const kappa = 0.5522847498

type Circle struct {
	Paint
	Center coords.Point
	Radius float64
	Z      int64
	Link   *Link
}

func (Circle) Type() Type     { return TypeCircle }
func (c Circle) Depth() int64 { return c.Z }

// Path returns the four-curve approximation of the circle, counter-clockwise
// from its rightmost point.
func (c Circle) Path() builder.Path {
	k := kappa
	unit := []coords.Point{
		{X: 1, Y: 0},
		{X: 1, Y: k}, {X: k, Y: 1}, {X: 0, Y: 1},
		{X: -k, Y: 1}, {X: -1, Y: k}, {X: -1, Y: 0},
		{X: -1, Y: -k}, {X: -k, Y: -1}, {X: 0, Y: -1},
		{X: k, Y: -1}, {X: 1, Y: -k}, {X: 1, Y: 0},
	}
	m := coords.Scale(c.Radius, c.Radius).Multiply(coords.Translate(c.Center.X, c.Center.Y))
	pts := m.TransformAll(unit)
	p := builder.Path{Start: pts[0], Closed: true}
	for i := 1; i+2 < len(pts); i += 3 {
		p.Segments = append(p.Segments, builder.Segment{C1: pts[i], C2: pts[i+1], To: pts[i+2], Curve: true})
	}
	return p
}

// Bounds is taken over every point of the path, control points included.
func (c Circle) Bounds(Context) coords.Bounds {
	p := c.Path()
	pts := []coords.Point{p.Start}
	for _, s := range p.Segments {
		pts = append(pts, s.C1, s.C2, s.To)
	}
	return coords.BoundsOf(pts)
}

func (c Circle) Draw(ctx Context) {
	mode, winding := c.Paint.apply(ctx)
	ctx.Surface.AddPath(c.Path(), mode, winding)
}

func (c Circle) LinkAnnotations(ctx Context) []LinkAnnotation {
	return annotate(c.Link, c.Bounds(ctx), c.Z)
}

func (c Circle) AlignTo(ctx Context, target coords.Bounds, align coords.Align) Object {
	return alignTo(ctx, c, target, align)
}

func (c Circle) translate(d coords.Point) Object {
	c.Center = c.Center.Add(d)
	return c
}
