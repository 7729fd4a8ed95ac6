package object

import (
	"golang.org/x/text/unicode/norm"

	"github.com/chipsenkbeil/makepdf-sub000/builder"
	"github.com/chipsenkbeil/makepdf-sub000/coords"
	"github.com/chipsenkbeil/makepdf-sub000/fonts"
)

// Text is a single line of text. Point is the start of the baseline unless
// Box is set, in which case the text is centered inside Box minus Padding.
type Text struct {
	Point   coords.Point
	Text    string
	Z       int64
	Font    *fonts.FontID
	Size    *float64
	Color   *builder.Color
	Link    *Link
	Box     *coords.Bounds
	Padding coords.Space
}

func (Text) Type() Type     { return TypeText }
func (t Text) Depth() int64 { return t.Z }

func (t Text) size(ctx Context) float64 { return or(t.Size, ctx.Defaults.FontSize) }

func (t Text) face(ctx Context) (*fonts.Face, bool) {
	if ctx.Fonts == nil {
		return nil, false
	}
	return ctx.Fonts.FaceOrFallback(t.Font)
}

// origin returns the start of the baseline the text is drawn from.
func (t Text) origin(ctx Context) coords.Point {
	if t.Box == nil {
		return t.Point
	}
	face, ok := t.face(ctx)
	if !ok {
		return t.Box.LL
	}
	size := t.size(ctx)
	llx, lly, urx, ury := t.Box.Shrink(t.Padding).Coords()
	w := face.TextWidth(t.Text, size)
	h := face.TextHeight(size)
	// A quarter of the line height lands typical Latin glyphs near the
	// visual middle. It is an approximation, not a typographic centerline.
	return coords.Point{
		X: llx + (urx-llx)/2 - w/2,
		Y: lly + (ury-lly)/2 - h/4,
	}
}

// Bounds spans from the descender below the baseline to one line height
// above it.
func (t Text) Bounds(ctx Context) coords.Bounds {
	p := t.origin(ctx)
	face, ok := t.face(ctx)
	if !ok {
		return coords.Bounds{LL: p, UR: p}
	}
	size := t.size(ctx)
	y := p.Y + face.DescenderHeight(size)
	return coords.FromSize(p.X, y, face.TextWidth(t.Text, size), face.TextHeight(size))
}

func (t Text) Draw(ctx Context) {
	if ctx.Fonts == nil {
		return
	}
	ref, ok := ctx.Fonts.DocRefOrFallback(t.Font)
	if !ok {
		return
	}
	p := t.origin(ctx)
	ctx.Surface.SetFillColor(or(t.Color, ctx.Defaults.FillColor))
	ctx.Surface.UseText(norm.NFC.String(t.Text), t.size(ctx), p.X, p.Y, ref)
}

func (t Text) LinkAnnotations(ctx Context) []LinkAnnotation {
	return annotate(t.Link, t.Bounds(ctx), t.Z)
}

func (t Text) AlignTo(ctx Context, target coords.Bounds, align coords.Align) Object {
	return alignTo(ctx, t, target, align)
}

func (t Text) translate(d coords.Point) Object {
	if t.Box != nil {
		b := t.Box.Translate(d.X, d.Y)
		t.Box = &b
	}
	t.Point = t.Point.Add(d)
	return t
}
