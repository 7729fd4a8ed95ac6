package builder

import (
	"fmt"
	"strconv"
	"strings"
)

// LineCap is the shape drawn at the end of open strokes.
type LineCap int

const (
	CapButt LineCap = iota
	CapRound
	CapProjectingSquare
)

func (c LineCap) String() string {
	switch c {
	case CapRound:
		return "round"
	case CapProjectingSquare:
		return "projecting_square"
	default:
		return "butt"
	}
}

func ParseLineCap(s string) (LineCap, error) {
	switch s {
	case "butt":
		return CapButt, nil
	case "round":
		return CapRound, nil
	case "projecting_square", "square":
		return CapProjectingSquare, nil
	}
	return 0, fmt.Errorf("unknown cap style %q", s)
}

// LineJoin is the shape drawn where two stroke segments meet.
type LineJoin int

const (
	JoinMiter LineJoin = iota
	JoinRound
	JoinBevel
)

func (j LineJoin) String() string {
	switch j {
	case JoinRound:
		return "round"
	case JoinBevel:
		return "bevel"
	default:
		return "miter"
	}
}

func ParseLineJoin(s string) (LineJoin, error) {
	switch s {
	case "miter", "limit":
		return JoinMiter, nil
	case "round":
		return JoinRound, nil
	case "bevel":
		return JoinBevel, nil
	}
	return 0, fmt.Errorf("unknown join style %q", s)
}

// DefaultDashLength is the dash and gap length, in points, of "dashed".
const DefaultDashLength = 5

// DashPattern alternates dash and gap lengths in points. An empty pattern
// draws a solid line.
type DashPattern struct {
	Offset float64
	Array  []float64
}

func Solid() DashPattern { return DashPattern{} }

// Dashed returns an evenly spaced dash of length n.
func Dashed(n float64) DashPattern { return DashPattern{Array: []float64{n, n}} }

func (p DashPattern) IsSolid() bool { return len(p.Array) == 0 }

// String renders the pattern in the same forms ParseDashPattern accepts
// where possible.
func (p DashPattern) String() string {
	switch {
	case p.IsSolid():
		return "solid"
	case p.Offset == 0 && len(p.Array) == 2 && p.Array[0] == p.Array[1]:
		if p.Array[0] == DefaultDashLength {
			return "dashed"
		}
		return "dashed:" + strconv.FormatFloat(p.Array[0], 'f', -1, 64)
	}
	parts := make([]string, len(p.Array))
	for i, v := range p.Array {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return fmt.Sprintf("[%s] %g", strings.Join(parts, " "), p.Offset)
}

// ParseDashPattern accepts "solid", "dashed", "dashed:N" and the
// "[dash gap ...] offset" form String produces for other patterns.
func ParseDashPattern(s string) (DashPattern, error) {
	switch s {
	case "solid":
		return Solid(), nil
	case "dashed":
		return Dashed(DefaultDashLength), nil
	}
	if strings.HasPrefix(s, "[") {
		return parseDashArray(s)
	}
	rest, ok := strings.CutPrefix(s, "dashed:")
	if !ok {
		return DashPattern{}, fmt.Errorf("unknown dash pattern %q", s)
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
	if err != nil {
		return DashPattern{}, fmt.Errorf("dash pattern %q: %w", s, err)
	}
	if n <= 0 {
		return DashPattern{}, fmt.Errorf("dash pattern %q: length must be positive", s)
	}
	return Dashed(n), nil
}

func parseDashArray(s string) (DashPattern, error) {
	body, offset, ok := strings.Cut(strings.TrimPrefix(s, "["), "]")
	if !ok {
		return DashPattern{}, fmt.Errorf("dash pattern %q: missing ']'", s)
	}
	var p DashPattern
	for _, f := range strings.Fields(body) {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil || n < 0 {
			return DashPattern{}, fmt.Errorf("dash pattern %q: bad length %q", s, f)
		}
		p.Array = append(p.Array, n)
	}
	if offset = strings.TrimSpace(offset); offset != "" {
		n, err := strconv.ParseFloat(offset, 64)
		if err != nil {
			return DashPattern{}, fmt.Errorf("dash pattern %q: %w", s, err)
		}
		p.Offset = n
	}
	return p, nil
}

// LineStyle is the simplified stroke style used by polylines.
type LineStyle int

const (
	LineSolid LineStyle = iota
	LineDashed
)

func (s LineStyle) String() string {
	if s == LineDashed {
		return "dashed"
	}
	return "solid"
}

func ParseLineStyle(s string) (LineStyle, error) {
	switch s {
	case "solid":
		return LineSolid, nil
	case "dashed":
		return LineDashed, nil
	}
	return 0, fmt.Errorf("unknown line style %q", s)
}

// PaintMode selects whether a closed path is filled, stroked or both.
type PaintMode int

const (
	PaintFill PaintMode = iota
	PaintStroke
	PaintFillStroke
)

func (m PaintMode) String() string {
	switch m {
	case PaintStroke:
		return "stroke"
	case PaintFillStroke:
		return "fill_stroke"
	default:
		return "fill"
	}
}

func ParsePaintMode(s string) (PaintMode, error) {
	switch s {
	case "fill":
		return PaintFill, nil
	case "stroke":
		return PaintStroke, nil
	case "fill_stroke":
		return PaintFillStroke, nil
	case "clip":
		return 0, fmt.Errorf("paint mode %q is not supported", s)
	}
	return 0, fmt.Errorf("unknown paint mode %q", s)
}

// WindingOrder is the fill rule for self-intersecting paths.
type WindingOrder int

const (
	WindingNonZero WindingOrder = iota
	WindingEvenOdd
)

func (w WindingOrder) String() string {
	if w == WindingEvenOdd {
		return "even_odd"
	}
	return "non_zero"
}

func ParseWindingOrder(s string) (WindingOrder, error) {
	switch s {
	case "non_zero":
		return WindingNonZero, nil
	case "even_odd":
		return WindingEvenOdd, nil
	}
	return 0, fmt.Errorf("unknown winding order %q", s)
}
