package object

import (
	"github.com/chipsenkbeil/makepdf-sub000/builder"
	"github.com/chipsenkbeil/makepdf-sub000/coords"
)

// Shape is a closed polygon through Points.
type Shape struct {
	Paint
	Points []coords.Point
	Z      int64
	Link   *Link
}

func (Shape) Type() Type                     { return TypeShape }
func (s Shape) Depth() int64                 { return s.Z }
func (s Shape) Bounds(Context) coords.Bounds { return coords.BoundsOf(s.Points) }

func (s Shape) Draw(ctx Context) {
	if len(s.Points) == 0 {
		return
	}
	mode, winding := s.Paint.apply(ctx)
	ctx.Surface.AddPath(builder.PolygonPath(s.Points, true), mode, winding)
}

func (s Shape) LinkAnnotations(ctx Context) []LinkAnnotation {
	return annotate(s.Link, s.Bounds(ctx), s.Z)
}

func (s Shape) AlignTo(ctx Context, target coords.Bounds, align coords.Align) Object {
	return alignTo(ctx, s, target, align)
}

func (s Shape) translate(d coords.Point) Object {
	s.Points = shiftPoints(s.Points, d)
	return s
}
