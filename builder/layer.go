package builder

import "github.com/chipsenkbeil/makepdf-sub000/coords"

type OpKind int

const (
	OpFillColor OpKind = iota
	OpOutlineColor
	OpOutlineThickness
	OpDashPattern
	OpLineCap
	OpLineJoin
	OpText
	OpRect
	OpPath
	OpLine
)

func (k OpKind) String() string {
	return [...]string{
		"fill_color", "outline_color", "outline_thickness", "dash_pattern",
		"line_cap", "line_join", "text", "rect", "path", "line",
	}[k]
}

// Segment is one piece of a path: a straight line to To, or a cubic bezier
// through C1 and C2 when Curve is set.
type Segment struct {
	C1, C2, To coords.Point
	Curve      bool
}

// Path starts at Start and follows Segments.
type Path struct {
	Start    coords.Point
	Segments []Segment
	Closed   bool
}

// PolygonPath connects pts with straight lines.
func PolygonPath(pts []coords.Point, closed bool) Path {
	if len(pts) == 0 {
		return Path{Closed: closed}
	}
	p := Path{Start: pts[0], Closed: closed}
	for _, pt := range pts[1:] {
		p.Segments = append(p.Segments, Segment{To: pt})
	}
	return p
}

// Op is a single recorded drawing command. Only the fields relevant to Kind
// are set.
type Op struct {
	Kind    OpKind
	Color   Color
	Value   float64
	Dash    DashPattern
	Cap     LineCap
	Join    LineJoin
	Text    string
	Font    FontRef
	Point   coords.Point
	Bounds  coords.Bounds
	Path    Path
	Mode    PaintMode
	Winding WindingOrder
}

// Annotation is a clickable area on a layer pointing at another page or a
// URI. Page is a zero-based physical page index, or -1 for a URI link.
type Annotation struct {
	Bounds coords.Bounds
	Page   int
	URI    string
}

// Layer collects the drawing commands and annotations for one physical
// page. Commands are replayed in order when the document is written.
type Layer struct {
	index  int
	width  float64
	height float64
	ops    []Op
	links  []Annotation
}

func (l *Layer) Index() int { return l.index }

// Size returns the page size in millimeters.
func (l *Layer) Size() (width, height float64) { return l.width, l.height }

func (l *Layer) Bounds() coords.Bounds { return coords.FromSize(0, 0, l.width, l.height) }

func (l *Layer) Ops() []Op                 { return append([]Op(nil), l.ops...) }
func (l *Layer) Annotations() []Annotation { return append([]Annotation(nil), l.links...) }

func (l *Layer) SetFillColor(c Color)    { l.ops = append(l.ops, Op{Kind: OpFillColor, Color: c}) }
func (l *Layer) SetOutlineColor(c Color) { l.ops = append(l.ops, Op{Kind: OpOutlineColor, Color: c}) }

// SetOutlineThickness sets the stroke width in points.
func (l *Layer) SetOutlineThickness(pt float64) {
	l.ops = append(l.ops, Op{Kind: OpOutlineThickness, Value: pt})
}

func (l *Layer) SetDashPattern(p DashPattern) {
	p.Array = append([]float64(nil), p.Array...)
	l.ops = append(l.ops, Op{Kind: OpDashPattern, Dash: p})
}

func (l *Layer) SetLineCap(c LineCap)   { l.ops = append(l.ops, Op{Kind: OpLineCap, Cap: c}) }
func (l *Layer) SetLineJoin(j LineJoin) { l.ops = append(l.ops, Op{Kind: OpLineJoin, Join: j}) }

// UseText draws text with its baseline starting at (x, y) in the current
// fill color. size is in points.
func (l *Layer) UseText(text string, size, x, y float64, font FontRef) {
	l.ops = append(l.ops, Op{Kind: OpText, Text: text, Value: size, Point: coords.Point{X: x, Y: y}, Font: font})
}

func (l *Layer) AddRect(b coords.Bounds, mode PaintMode, winding WindingOrder) {
	l.ops = append(l.ops, Op{Kind: OpRect, Bounds: b, Mode: mode, Winding: winding})
}

func (l *Layer) AddPath(p Path, mode PaintMode, winding WindingOrder) {
	l.ops = append(l.ops, Op{Kind: OpPath, Path: p, Mode: mode, Winding: winding})
}

// AddLine strokes an open polyline through pts.
func (l *Layer) AddLine(pts []coords.Point) {
	l.ops = append(l.ops, Op{Kind: OpLine, Path: PolygonPath(pts, false)})
}

// AddGoToLink makes b jump to the zero-based physical page index.
func (l *Layer) AddGoToLink(b coords.Bounds, page int) {
	l.links = append(l.links, Annotation{Bounds: b, Page: page})
}

func (l *Layer) AddURILink(b coords.Bounds, uri string) {
	l.links = append(l.links, Annotation{Bounds: b, Page: -1, URI: uri})
}
