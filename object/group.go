package object

import "github.com/chipsenkbeil/makepdf-sub000/coords"

// Group draws its children in order as one unit.
type Group struct {
	Objects []Object
	Link    *Link
}

func (Group) Type() Type { return TypeGroup }

// Depth is the deepest child's depth so the group never draws beneath any of
// its members.
func (g Group) Depth() int64 {
	var depth int64
	for i, o := range g.Objects {
		if d := o.Depth(); i == 0 || d > depth {
			depth = d
		}
	}
	return depth
}

// Bounds is the union of the children's bounds.
func (g Group) Bounds(ctx Context) coords.Bounds {
	if len(g.Objects) == 0 {
		return coords.Bounds{}
	}
	b := g.Objects[0].Bounds(ctx)
	for _, o := range g.Objects[1:] {
		b = b.Union(o.Bounds(ctx))
	}
	return b
}

func (g Group) Draw(ctx Context) {
	for _, o := range g.Objects {
		o.Draw(ctx)
	}
}

func (g Group) LinkAnnotations(ctx Context) []LinkAnnotation {
	out := annotate(g.Link, g.Bounds(ctx), g.Depth())
	for _, o := range g.Objects {
		out = append(out, o.LinkAnnotations(ctx)...)
	}
	return out
}

func (g Group) AlignTo(ctx Context, target coords.Bounds, align coords.Align) Object {
	return alignTo(ctx, g, target, align)
}

// translate shifts every child by the same offset so the group keeps its
// internal layout.
func (g Group) translate(d coords.Point) Object {
	children := make([]Object, len(g.Objects))
	for i, o := range g.Objects {
		children[i] = o.translate(d)
	}
	g.Objects = children
	return g
}
