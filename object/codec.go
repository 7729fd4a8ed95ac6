package object

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/chipsenkbeil/makepdf-sub000/builder"
	"github.com/chipsenkbeil/makepdf-sub000/coords"
	"github.com/chipsenkbeil/makepdf-sub000/fonts"
)

// DecodeError reports a malformed wire value and where it was found.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return "decode object: " + e.Err.Error()
	}
	return fmt.Sprintf("decode object: %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

var (
	errNotObject = errors.New("expected an object")
	errNotNumber = errors.New("expected a number")
	errNotString = errors.New("expected a string")
)

// Record is the dynamic form objects take at the scripting boundary: string
// keys mapping to strings, numbers, booleans, nested records and lists.
type Record = map[string]any

// Decode converts a wire record into an Object. The "type" field selects
// the variant; unknown fields are ignored.
func Decode(v any) (Object, error) { return decodeObject("", v) }

func decodeObject(path string, v any) (Object, error) {
	rec, ok := v.(Record)
	if !ok {
		return nil, &DecodeError{Path: path, Err: errNotObject}
	}
	d := &decoder{path: path, rec: rec}
	kind, _ := d.str("type")
	var obj Object
	switch Type(kind) {
	case TypeText:
		obj = d.text()
	case TypeRect:
		obj = d.rect()
	case TypeCircle:
		obj = d.circle()
	case TypeLine:
		obj = d.line()
	case TypeShape:
		obj = d.shape()
	case TypeGroup:
		obj = d.group()
	case "":
		d.fail("type", errors.New("missing object type"))
	default:
		d.fail("type", fmt.Errorf("unknown object type %q", kind))
	}
	if d.err != nil {
		return nil, d.err
	}
	return obj, nil
}

type decoder struct {
	path string
	rec  Record
	err  error
}

func (d *decoder) at(key string) string {
	if d.path == "" {
		return key
	}
	return d.path + "." + key
}

func (d *decoder) fail(key string, err error) {
	if d.err != nil {
		return
	}
	var de *DecodeError
	if errors.As(err, &de) {
		d.err = err
		return
	}
	d.err = &DecodeError{Path: d.at(key), Err: err}
}

func (d *decoder) has(key string) bool {
	v, ok := d.rec[key]
	return ok && v != nil
}

func (d *decoder) num(key string) (float64, bool) {
	if !d.has(key) {
		return 0, false
	}
	n, err := Number(d.rec[key])
	if err != nil {
		d.fail(key, err)
		return 0, false
	}
	return n, true
}

func (d *decoder) optNum(key string) *float64 {
	if n, ok := d.num(key); ok {
		return &n
	}
	return nil
}

func (d *decoder) str(key string) (string, bool) {
	if !d.has(key) {
		return "", false
	}
	s, ok := d.rec[key].(string)
	if !ok {
		d.fail(key, errNotString)
		return "", false
	}
	return s, true
}

func (d *decoder) depth() int64 {
	n, _ := d.num("depth")
	return int64(math.Round(n))
}

func (d *decoder) point(key string) (coords.Point, bool) {
	if !d.has(key) {
		return coords.Point{}, false
	}
	p, err := DecodePoint(d.rec[key])
	if err != nil {
		d.fail(key, err)
	}
	return p, err == nil
}

func (d *decoder) points(key string) []coords.Point {
	if !d.has(key) {
		return nil
	}
	list, ok := d.rec[key].([]any)
	if !ok {
		d.fail(key, errors.New("expected a list of points"))
		return nil
	}
	pts := make([]coords.Point, 0, len(list))
	for i, item := range list {
		p, err := DecodePoint(item)
		if err != nil {
			d.fail(key+"["+strconv.Itoa(i)+"]", err)
			return nil
		}
		pts = append(pts, p)
	}
	return pts
}

func (d *decoder) color(key string) *builder.Color {
	if !d.has(key) {
		return nil
	}
	c, err := DecodeColor(d.rec[key])
	if err != nil {
		d.fail(key, err)
		return nil
	}
	return &c
}

func (d *decoder) link() *Link {
	if !d.has("link") {
		return nil
	}
	l, err := DecodeLink(d.rec["link"])
	if err != nil {
		d.fail("link", err)
		return nil
	}
	return &l
}

func (d *decoder) font() *fonts.FontID {
	if !d.has("font") {
		return nil
	}
	n, err := ID(d.rec["font"])
	if err != nil {
		d.fail("font", err)
		return nil
	}
	id := fonts.FontID(n)
	return &id
}

func parsed[T any](d *decoder, key string, parse func(string) (T, error)) *T {
	s, ok := d.str(key)
	if !ok {
		return nil
	}
	v, err := parse(s)
	if err != nil {
		d.fail(key, err)
		return nil
	}
	return &v
}

func (d *decoder) paint() Paint {
	p := Paint{
		FillColor:        d.color("fill_color"),
		OutlineColor:     d.color("outline_color"),
		OutlineThickness: d.optNum("outline_thickness"),
		Mode:             parsed(d, "mode", builder.ParsePaintMode),
		Order:            parsed(d, "order", builder.ParseWindingOrder),
		CapStyle:         parsed(d, "cap_style", builder.ParseLineCap),
		JoinStyle:        parsed(d, "join_style", builder.ParseLineJoin),
	}
	if d.has("dash_pattern") {
		dp, err := DecodeDashPattern(d.rec["dash_pattern"])
		if err != nil {
			d.fail("dash_pattern", err)
		} else {
			p.DashPattern = &dp
		}
	}
	return p
}

// xy reads a position given as x/y fields or as a "point" field.
func (d *decoder) xy(key string) coords.Point {
	if p, ok := d.point(key); ok {
		return p
	}
	x, _ := d.num("x")
	y, _ := d.num("y")
	return coords.Point{X: x, Y: y}
}

func (d *decoder) text() Text {
	t := Text{
		Point: d.xy("point"),
		Z:     d.depth(),
		Font:  d.font(),
		Size:  d.optNum("size"),
		Color: d.color("color"),
		Link:  d.link(),
	}
	t.Text, _ = d.str("text")
	if d.has("box") {
		b, err := DecodeBounds(d.rec["box"])
		if err != nil {
			d.fail("box", err)
		}
		t.Box = &b
	}
	if d.has("padding") {
		p, err := DecodeSpace(d.rec["padding"])
		if err != nil {
			d.fail("padding", err)
		}
		t.Padding = p
	}
	return t
}

func (d *decoder) rect() Rect {
	r := Rect{Paint: d.paint(), Z: d.depth(), Link: d.link()}
	switch {
	case d.has("bounds"):
		b, err := DecodeBounds(d.rec["bounds"])
		if err != nil {
			d.fail("bounds", err)
		}
		r.Area = b
	case d.has("ll") || d.has("ur"):
		ll, _ := d.point("ll")
		ur, _ := d.point("ur")
		r.Area = coords.Bounds{LL: ll, UR: ur}
	default:
		b, err := DecodeBounds(d.rec)
		if err != nil {
			d.fail("bounds", err)
		}
		r.Area = b
	}
	return r
}

func (d *decoder) circle() Circle {
	c := Circle{Paint: d.paint(), Center: d.xy("center"), Z: d.depth(), Link: d.link()}
	c.Radius, _ = d.num("radius")
	return c
}

func (d *decoder) shape() Shape {
	return Shape{Paint: d.paint(), Points: d.points("points"), Z: d.depth(), Link: d.link()}
}

func (d *decoder) line() Line {
	return Line{
		Points:       d.points("points"),
		Z:            d.depth(),
		FillColor:    d.color("fill_color"),
		OutlineColor: d.color("outline_color"),
		Thickness:    d.optNum("thickness"),
		Style:        parsed(d, "style", builder.ParseLineStyle),
		Link:         d.link(),
	}
}

func (d *decoder) group() Group {
	g := Group{Link: d.link()}
	if !d.has("objects") {
		return g
	}
	list, ok := d.rec["objects"].([]any)
	if !ok {
		d.fail("objects", errors.New("expected a list of objects"))
		return g
	}
	for i, item := range list {
		o, err := decodeObject(d.at("objects["+strconv.Itoa(i)+"]"), item)
		if err != nil {
			d.fail("objects", err)
			return g
		}
		g.Objects = append(g.Objects, o)
	}
	return g
}

// ID converts a script number into a page or font id. Ids are whole numbers
// that fit in 32 bits.
func ID(v any) (uint32, error) {
	n, err := Number(v)
	if err != nil {
		return 0, err
	}
	if n != math.Trunc(n) || n < 0 || n > math.MaxUint32 {
		return 0, fmt.Errorf("id %v is not a 32-bit unsigned integer", n)
	}
	return uint32(n), nil
}

// Number accepts any numeric value the scripting runtime produces.
func Number(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	}
	return 0, errNotNumber
}

func numbers(v any) ([]float64, bool) {
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]float64, len(list))
	for i, item := range list {
		n, err := Number(item)
		if err != nil {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}

// DecodePoint accepts {x, y} or [x, y].
func DecodePoint(v any) (coords.Point, error) {
	if ns, ok := numbers(v); ok {
		if len(ns) != 2 {
			return coords.Point{}, fmt.Errorf("point: expected 2 numbers, got %d", len(ns))
		}
		return coords.Point{X: ns[0], Y: ns[1]}, nil
	}
	rec, ok := v.(Record)
	if !ok {
		return coords.Point{}, errors.New("point: expected {x, y} or [x, y]")
	}
	x, errX := Number(rec["x"])
	y, errY := Number(rec["y"])
	if errX != nil || errY != nil {
		return coords.Point{}, errors.New("point: x and y must be numbers")
	}
	return coords.Point{X: x, Y: y}, nil
}

// DecodeBounds accepts {ll, ur}, {llx, lly, urx, ury}, [llx, lly, urx, ury]
// or [[llx, lly], [urx, ury]].
func DecodeBounds(v any) (coords.Bounds, error) {
	if ns, ok := numbers(v); ok {
		if len(ns) != 4 {
			return coords.Bounds{}, fmt.Errorf("bounds: expected 4 numbers, got %d", len(ns))
		}
		return coords.FromCoords(ns[0], ns[1], ns[2], ns[3]), nil
	}
	if list, ok := v.([]any); ok {
		if len(list) != 2 {
			return coords.Bounds{}, errors.New("bounds: expected two corner points")
		}
		ll, err := DecodePoint(list[0])
		if err != nil {
			return coords.Bounds{}, err
		}
		ur, err := DecodePoint(list[1])
		if err != nil {
			return coords.Bounds{}, err
		}
		return coords.Bounds{LL: ll, UR: ur}, nil
	}
	rec, ok := v.(Record)
	if !ok {
		return coords.Bounds{}, errors.New("bounds: unsupported form")
	}
	if rec["ll"] != nil || rec["ur"] != nil {
		ll, err := DecodePoint(rec["ll"])
		if err != nil {
			return coords.Bounds{}, err
		}
		ur, err := DecodePoint(rec["ur"])
		if err != nil {
			return coords.Bounds{}, err
		}
		return coords.Bounds{LL: ll, UR: ur}, nil
	}
	var c [4]float64
	for i, k := range []string{"llx", "lly", "urx", "ury"} {
		n, err := Number(rec[k])
		if err != nil {
			return coords.Bounds{}, fmt.Errorf("bounds: %s: %w", k, err)
		}
		c[i] = n
	}
	return coords.FromCoords(c[0], c[1], c[2], c[3]), nil
}

// DecodeColor accepts "RRGGBB", "#RRGGBB", {r, g, b} or [r, g, b] with
// 0-255 channels.
func DecodeColor(v any) (builder.Color, error) {
	switch c := v.(type) {
	case string:
		return builder.ParseColor(c)
	case Record:
		var ch [3]float64
		for i, k := range []string{"r", "g", "b"} {
			n, err := Number(c[k])
			if err != nil {
				return builder.Color{}, fmt.Errorf("color: %s: %w", k, err)
			}
			ch[i] = n
		}
		return rgb(ch[:])
	}
	if ns, ok := numbers(v); ok && len(ns) == 3 {
		return rgb(ns)
	}
	return builder.Color{}, errors.New("color: expected hex string or 3 channels")
}

func rgb(ch []float64) (builder.Color, error) {
	var b [3]uint8
	for i, n := range ch {
		if n < 0 || n > 255 {
			return builder.Color{}, fmt.Errorf("color: channel %v out of range 0-255", n)
		}
		b[i] = uint8(math.Round(n))
	}
	return builder.RGB255(b[0], b[1], b[2]), nil
}

// DecodeLink accepts a page id, a URI string, {type: "goto", page} or
// {type: "uri", uri}. A page handle (anything with an id field) links to
// that page.
func DecodeLink(v any) (Link, error) {
	if s, ok := v.(string); ok {
		return uriLink(s)
	}
	if _, err := Number(v); err == nil {
		n, err := ID(v)
		if err != nil {
			return Link{}, fmt.Errorf("link: %w", err)
		}
		return GoTo(PageID(n)), nil
	}
	rec, ok := v.(Record)
	if !ok {
		return Link{}, errors.New("link: expected page id, uri or record")
	}
	kind, _ := rec["type"].(string)
	switch strings.ToLower(kind) {
	case "uri", "url":
		uri, ok := rec["uri"].(string)
		if !ok {
			return Link{}, errors.New("link: uri must be a string")
		}
		return uriLink(uri)
	case "goto", "":
		key := "page"
		if kind == "" {
			key = "id"
		}
		n, err := ID(rec[key])
		if err != nil {
			return Link{}, fmt.Errorf("link: %s: %w", key, err)
		}
		return GoTo(PageID(n)), nil
	}
	return Link{}, fmt.Errorf("link: unknown type %q", kind)
}

func uriLink(s string) (Link, error) {
	if strings.TrimSpace(s) == "" {
		return Link{}, errors.New("link: empty uri")
	}
	return URI(s), nil
}

// DecodeSpace accepts a scalar, a list of 1 to 4 numbers, or named
// top/right/bottom/left fields with missing sides treated as zero.
func DecodeSpace(v any) (coords.Space, error) {
	if n, err := Number(v); err == nil {
		return coords.Uniform(n), nil
	}
	if ns, ok := numbers(v); ok {
		return coords.NewSpace(ns...)
	}
	rec, ok := v.(Record)
	if !ok {
		return coords.Space{}, errors.New("space: expected number, list or record")
	}
	var s coords.Space
	for k, dst := range map[string]*float64{"top": &s.Top, "right": &s.Right, "bottom": &s.Bottom, "left": &s.Left} {
		if rec[k] == nil {
			continue
		}
		n, err := Number(rec[k])
		if err != nil {
			return coords.Space{}, fmt.Errorf("space: %s: %w", k, err)
		}
		*dst = n
	}
	return s, nil
}

// DecodeAlign accepts {v, h} with missing parts defaulting to middle.
func DecodeAlign(v any) (coords.Align, error) {
	if v == nil {
		return coords.Align{V: coords.VAlignMiddle, H: coords.HAlignMiddle}, nil
	}
	rec, ok := v.(Record)
	if !ok {
		return coords.Align{}, errors.New("align: expected {v, h}")
	}
	vs, _ := rec["v"].(string)
	hs, _ := rec["h"].(string)
	va, err := coords.ParseVAlign(vs)
	if err != nil {
		return coords.Align{}, err
	}
	ha, err := coords.ParseHAlign(hs)
	if err != nil {
		return coords.Align{}, err
	}
	return coords.Align{V: va, H: ha}, nil
}

// DecodeDashPattern accepts the string forms of builder.ParseDashPattern or
// {offset, dash_1, gap_1, dash_2, gap_2, dash_3, gap_3}.
func DecodeDashPattern(v any) (builder.DashPattern, error) {
	if s, ok := v.(string); ok {
		return builder.ParseDashPattern(s)
	}
	rec, ok := v.(Record)
	if !ok {
		return builder.DashPattern{}, errors.New("dash pattern: expected string or record")
	}
	var p builder.DashPattern
	if rec["offset"] != nil {
		n, err := Number(rec["offset"])
		if err != nil {
			return builder.DashPattern{}, fmt.Errorf("dash pattern: offset: %w", err)
		}
		p.Offset = n
	}
	for i := 1; i <= 3; i++ {
		for _, k := range []string{"dash_", "gap_"} {
			key := k + strconv.Itoa(i)
			if rec[key] == nil {
				continue
			}
			n, err := Number(rec[key])
			if err != nil {
				return builder.DashPattern{}, fmt.Errorf("dash pattern: %s: %w", key, err)
			}
			p.Array = append(p.Array, n)
		}
	}
	if len(p.Array) == 1 {
		p.Array = append(p.Array, p.Array[0])
	}
	return p, nil
}

// Encode converts an object into its canonical wire record.
func Encode(o Object) Record {
	rec := Record{"type": string(o.Type())}
	switch v := o.(type) {
	case Text:
		rec["point"] = EncodePoint(v.Point)
		rec["text"] = v.Text
		rec["depth"] = v.Z
		setOpt(rec, "size", v.Size)
		if v.Font != nil {
			rec["font"] = int64(*v.Font)
		}
		if v.Color != nil {
			rec["color"] = v.Color.Hex()
		}
		if v.Box != nil {
			rec["box"] = EncodeBounds(*v.Box)
			rec["padding"] = EncodeSpace(v.Padding)
		}
		encodeLink(rec, v.Link)
	case Rect:
		rec["ll"] = EncodePoint(v.Area.LL)
		rec["ur"] = EncodePoint(v.Area.UR)
		rec["depth"] = v.Z
		encodePaint(rec, v.Paint)
		encodeLink(rec, v.Link)
	case Circle:
		rec["center"] = EncodePoint(v.Center)
		rec["radius"] = v.Radius
		rec["depth"] = v.Z
		encodePaint(rec, v.Paint)
		encodeLink(rec, v.Link)
	case Shape:
		rec["points"] = encodePoints(v.Points)
		rec["depth"] = v.Z
		encodePaint(rec, v.Paint)
		encodeLink(rec, v.Link)
	case Line:
		rec["points"] = encodePoints(v.Points)
		rec["depth"] = v.Z
		if v.FillColor != nil {
			rec["fill_color"] = v.FillColor.Hex()
		}
		if v.OutlineColor != nil {
			rec["outline_color"] = v.OutlineColor.Hex()
		}
		setOpt(rec, "thickness", v.Thickness)
		if v.Style != nil {
			rec["style"] = v.Style.String()
		}
		encodeLink(rec, v.Link)
	case Group:
		objs := make([]any, len(v.Objects))
		for i, child := range v.Objects {
			objs[i] = Encode(child)
		}
		rec["objects"] = objs
		encodeLink(rec, v.Link)
	}
	return rec
}

func setOpt(rec Record, key string, v *float64) {
	if v != nil {
		rec[key] = *v
	}
}

func encodePaint(rec Record, p Paint) {
	if p.FillColor != nil {
		rec["fill_color"] = p.FillColor.Hex()
	}
	if p.OutlineColor != nil {
		rec["outline_color"] = p.OutlineColor.Hex()
	}
	setOpt(rec, "outline_thickness", p.OutlineThickness)
	if p.Mode != nil {
		rec["mode"] = p.Mode.String()
	}
	if p.Order != nil {
		rec["order"] = p.Order.String()
	}
	if p.DashPattern != nil {
		rec["dash_pattern"] = EncodeDashPattern(*p.DashPattern)
	}
	if p.CapStyle != nil {
		rec["cap_style"] = p.CapStyle.String()
	}
	if p.JoinStyle != nil {
		rec["join_style"] = p.JoinStyle.String()
	}
}

func encodeLink(rec Record, l *Link) {
	if l != nil {
		rec["link"] = EncodeLink(*l)
	}
}

func EncodePoint(p coords.Point) Record { return Record{"x": p.X, "y": p.Y} }

func encodePoints(pts []coords.Point) []any {
	out := make([]any, len(pts))
	for i, p := range pts {
		out[i] = EncodePoint(p)
	}
	return out
}

// EncodeBounds emits both corner points and the flat coordinates.
func EncodeBounds(b coords.Bounds) Record {
	return Record{
		"ll": EncodePoint(b.LL), "ur": EncodePoint(b.UR),
		"llx": b.LL.X, "lly": b.LL.Y, "urx": b.UR.X, "ury": b.UR.Y,
		"width": b.Width(), "height": b.Height(),
	}
}

func EncodeSpace(s coords.Space) Record {
	return Record{"top": s.Top, "right": s.Right, "bottom": s.Bottom, "left": s.Left}
}

func EncodeLink(l Link) Record {
	if l.Kind == LinkURI {
		return Record{"type": "uri", "uri": l.URI}
	}
	return Record{"type": "goto", "page": int64(l.Page)}
}

// EncodeDashPattern prefers the string form and falls back to a record.
func EncodeDashPattern(p builder.DashPattern) any {
	if s := p.String(); !strings.HasPrefix(s, "[") {
		return s
	}
	rec := Record{"offset": p.Offset}
	for i, n := range p.Array {
		prefix := "dash_"
		if i%2 == 1 {
			prefix = "gap_"
		}
		rec[prefix+strconv.Itoa(i/2+1)] = n
	}
	return rec
}

// SortedKeys is a small helper for deterministic iteration over records.
func SortedKeys(rec Record) []string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
