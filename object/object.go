// Package object defines the drawable primitives pushed onto pages: text,
// rectangles, circles, lines, closed shapes and groups of these.
//
// Objects are immutable values. Style fields left nil are resolved against
// the page defaults in Context only when the object is drawn.
package object

import (
	"github.com/chipsenkbeil/makepdf-sub000/builder"
	"github.com/chipsenkbeil/makepdf-sub000/coords"
	"github.com/chipsenkbeil/makepdf-sub000/fonts"
)

// PageID identifies a logical page independently of its physical position in
// the output document.
type PageID uint32

type Type string

const (
	TypeText   Type = "text"
	TypeRect   Type = "rect"
	TypeCircle Type = "circle"
	TypeLine   Type = "line"
	TypeShape  Type = "shape"
	TypeGroup  Type = "group"
)

// Object is the closed set of drawable kinds. Implementations live in this
// package only.
type Object interface {
	Type() Type
	Depth() int64
	Bounds(ctx Context) coords.Bounds
	Draw(ctx Context)
	LinkAnnotations(ctx Context) []LinkAnnotation
	AlignTo(ctx Context, target coords.Bounds, align coords.Align) Object

	translate(d coords.Point) Object
}

// alignTo moves o so its bounds are aligned within target.
func alignTo(ctx Context, o Object, target coords.Bounds, align coords.Align) Object {
	return o.translate(coords.AlignOffset(o.Bounds(ctx), target, align))
}

// Surface receives drawing commands. *builder.Layer implements it.
type Surface interface {
	SetFillColor(builder.Color)
	SetOutlineColor(builder.Color)
	SetOutlineThickness(pt float64)
	SetDashPattern(builder.DashPattern)
	SetLineCap(builder.LineCap)
	SetLineJoin(builder.LineJoin)
	UseText(text string, size, x, y float64, font builder.FontRef)
	AddRect(b coords.Bounds, mode builder.PaintMode, winding builder.WindingOrder)
	AddPath(p builder.Path, mode builder.PaintMode, winding builder.WindingOrder)
	AddLine(pts []coords.Point)
}

// FontSource resolves font ids for measuring and drawing text.
// *fonts.Registry implements it.
type FontSource interface {
	FaceOrFallback(id *fonts.FontID) (*fonts.Face, bool)
	DocRefOrFallback(id *fonts.FontID) (builder.FontRef, bool)
}

// Defaults are the page-level styles applied to fields an object leaves
// unset.
type Defaults struct {
	FontSize         float64
	FillColor        builder.Color
	OutlineColor     builder.Color
	OutlineThickness float64
	DashPattern      builder.DashPattern
	LineCap          builder.LineCap
	LineJoin         builder.LineJoin
	LineStyle        builder.LineStyle
}

// Context carries what an object needs to measure and draw itself. Surface
// may be nil when only measuring.
type Context struct {
	Surface  Surface
	Fonts    FontSource
	Defaults Defaults
}

type LinkKind int

const (
	LinkGoTo LinkKind = iota
	LinkURI
)

// Link points at another logical page or an external URI.
type Link struct {
	Kind LinkKind
	Page PageID
	URI  string
}

func GoTo(id PageID) Link { return Link{Kind: LinkGoTo, Page: id} }
func URI(uri string) Link { return Link{Kind: LinkURI, URI: uri} }

// LinkAnnotation is a clickable area produced by an object at draw time.
type LinkAnnotation struct {
	Bounds coords.Bounds
	Depth  int64
	Link   Link
}

func annotate(link *Link, b coords.Bounds, depth int64) []LinkAnnotation {
	if link == nil {
		return nil
	}
	return []LinkAnnotation{{Bounds: b, Depth: depth, Link: *link}}
}

func or[T any](v *T, def T) T {
	if v != nil {
		return *v
	}
	return def
}

func ptr[T any](v T) *T { return &v }

// Paint holds the optional fill and stroke overrides shared by closed
// shapes.
type Paint struct {
	FillColor        *builder.Color
	OutlineColor     *builder.Color
	OutlineThickness *float64
	Mode             *builder.PaintMode
	Order            *builder.WindingOrder
	DashPattern      *builder.DashPattern
	CapStyle         *builder.LineCap
	JoinStyle        *builder.LineJoin
}

// apply pushes the resolved styles to the surface and returns the paint mode
// and winding order to draw with.
func (p Paint) apply(ctx Context) (builder.PaintMode, builder.WindingOrder) {
	d := ctx.Defaults
	s := ctx.Surface
	s.SetFillColor(or(p.FillColor, d.FillColor))
	s.SetOutlineColor(or(p.OutlineColor, d.OutlineColor))
	s.SetOutlineThickness(or(p.OutlineThickness, d.OutlineThickness))
	s.SetLineCap(or(p.CapStyle, d.LineCap))
	s.SetLineJoin(or(p.JoinStyle, d.LineJoin))
	s.SetDashPattern(or(p.DashPattern, d.DashPattern))
	return or(p.Mode, builder.PaintFill), or(p.Order, builder.WindingNonZero)
}

func shiftPoints(pts []coords.Point, d coords.Point) []coords.Point {
	return coords.Translate(d.X, d.Y).TransformAll(pts)
}
