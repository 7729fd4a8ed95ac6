package coords

import "fmt"

// Space is a set of per-side offsets used for margins and padding.
type Space struct {
	Top, Right, Bottom, Left float64
}

// Margin and Padding are the two roles a Space plays.
type (
	Margin  = Space
	Padding = Space
)

// Uniform returns a space with every side set to v.
func Uniform(v float64) Space { return Space{Top: v, Right: v, Bottom: v, Left: v} }

// NewSpace expands one to four values the way CSS box shorthands do:
// [all], [vertical horizontal], [top horizontal bottom] or
// [top right bottom left].
func NewSpace(values ...float64) (Space, error) {
	switch len(values) {
	case 1:
		return Uniform(values[0]), nil
	case 2:
		return Space{Top: values[0], Right: values[1], Bottom: values[0], Left: values[1]}, nil
	case 3:
		return Space{Top: values[0], Right: values[1], Bottom: values[2], Left: values[1]}, nil
	case 4:
		return Space{Top: values[0], Right: values[1], Bottom: values[2], Left: values[3]}, nil
	default:
		return Space{}, fmt.Errorf("space: expected 1 to 4 values, got %d", len(values))
	}
}
