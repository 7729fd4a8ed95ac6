package object

import (
	"github.com/chipsenkbeil/makepdf-sub000/builder"
	"github.com/chipsenkbeil/makepdf-sub000/coords"
)

// Line is an open polyline through Points.
type Line struct {
	Points       []coords.Point
	Z            int64
	FillColor    *builder.Color
	OutlineColor *builder.Color
	Thickness    *float64
	Style        *builder.LineStyle
	Link         *Link
}

func (Line) Type() Type                     { return TypeLine }
func (l Line) Depth() int64                 { return l.Z }
func (l Line) Bounds(Context) coords.Bounds { return coords.BoundsOf(l.Points) }

func (l Line) Draw(ctx Context) {
	if len(l.Points) < 2 {
		return
	}
	d := ctx.Defaults
	s := ctx.Surface
	s.SetFillColor(or(l.FillColor, d.FillColor))
	s.SetOutlineColor(or(l.OutlineColor, d.OutlineColor))
	s.SetOutlineThickness(or(l.Thickness, d.OutlineThickness))
	s.SetLineJoin(d.LineJoin)
	if or(l.Style, d.LineStyle) == builder.LineDashed {
		s.SetLineCap(builder.CapRound)
		s.SetDashPattern(builder.Dashed(builder.DefaultDashLength))
	} else {
		s.SetLineCap(d.LineCap)
		s.SetDashPattern(builder.Solid())
	}
	s.AddLine(l.Points)
}

func (l Line) LinkAnnotations(ctx Context) []LinkAnnotation {
	return annotate(l.Link, l.Bounds(ctx), l.Z)
}

func (l Line) AlignTo(ctx Context, target coords.Bounds, align coords.Align) Object {
	return alignTo(ctx, l, target, align)
}

func (l Line) translate(d coords.Point) Object {
	l.Points = shiftPoints(l.Points, d)
	return l
}
