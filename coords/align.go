package coords

import "fmt"

type VAlign string

const (
	VAlignTop    VAlign = "top"
	VAlignMiddle VAlign = "middle"
	VAlignBottom VAlign = "bottom"
)

type HAlign string

const (
	HAlignLeft   HAlign = "left"
	HAlignMiddle HAlign = "middle"
	HAlignRight  HAlign = "right"
)

// Align pairs a vertical and horizontal alignment. The zero value behaves as
// middle/middle.
type Align struct {
	V VAlign
	H HAlign
}

func ParseVAlign(s string) (VAlign, error) {
	switch VAlign(s) {
	case VAlignTop, VAlignMiddle, VAlignBottom:
		return VAlign(s), nil
	case "":
		return VAlignMiddle, nil
	}
	return "", fmt.Errorf("unknown vertical alignment %q", s)
}

func ParseHAlign(s string) (HAlign, error) {
	switch HAlign(s) {
	case HAlignLeft, HAlignMiddle, HAlignRight:
		return HAlign(s), nil
	case "":
		return HAlignMiddle, nil
	}
	return "", fmt.Errorf("unknown horizontal alignment %q", s)
}

// AlignOffset returns the translation that places src's aligned edge or
// center onto the corresponding edge or center of target.
func AlignOffset(src, target Bounds, a Align) Point {
	var d Point
	switch a.H {
	case HAlignLeft:
		d.X = target.LL.X - src.LL.X
	case HAlignRight:
		d.X = target.UR.X - src.UR.X
	default:
		d.X = target.Center().X - src.Center().X
	}
	switch a.V {
	case VAlignTop:
		d.Y = target.UR.Y - src.UR.Y
	case VAlignBottom:
		d.Y = target.LL.Y - src.LL.Y
	default:
		d.Y = target.Center().Y - src.Center().Y
	}
	return d
}

// AlignTo moves b so it is aligned within target, keeping its width and
// height.
func (b Bounds) AlignTo(target Bounds, a Align) Bounds {
	d := AlignOffset(b, target, a)
	return b.Translate(d.X, d.Y)
}
