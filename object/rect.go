package object

import "github.com/chipsenkbeil/makepdf-sub000/coords"

type Rect struct {
	Paint
	Area coords.Bounds
	Z    int64
	Link *Link
}

func (Rect) Type() Type                     { return TypeRect }
func (r Rect) Depth() int64                 { return r.Z }
func (r Rect) Bounds(Context) coords.Bounds { return r.Area }

func (r Rect) Draw(ctx Context) {
	mode, winding := r.Paint.apply(ctx)
	ctx.Surface.AddRect(r.Area, mode, winding)
}

func (r Rect) LinkAnnotations(Context) []LinkAnnotation {
	return annotate(r.Link, r.Area, r.Z)
}

func (r Rect) AlignTo(ctx Context, target coords.Bounds, align coords.Align) Object {
	return alignTo(ctx, r, target, align)
}

func (r Rect) translate(d coords.Point) Object {
	r.Area = r.Area.Translate(d.X, d.Y)
	return r
}
