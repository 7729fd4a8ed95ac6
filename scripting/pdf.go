package scripting

import (
	"context"
	"fmt"
	"strings"

	"github.com/dop251/goja"

	"github.com/chipsenkbeil/makepdf-sub000/calendar"
	"github.com/chipsenkbeil/makepdf-sub000/extensions"
	"github.com/chipsenkbeil/makepdf-sub000/fonts"
	"github.com/chipsenkbeil/makepdf-sub000/object"
	"github.com/chipsenkbeil/makepdf-sub000/observability"
	"github.com/chipsenkbeil/makepdf-sub000/pages"
)

// install defines the console and pdf globals.
func (h *Host) install() error {
	if err := h.vm.Set("console", h.console()); err != nil {
		return err
	}
	rec, err := h.base.Record()
	if err != nil {
		return err
	}
	h.pdf = h.vm.NewObject()
	for _, field := range []struct {
		name  string
		value goja.Value
	}{
		{"config", h.toJS(rec)},
		{"pages", h.pagesObject()},
		{"page", h.calendarObject()},
		{"fonts", h.fontsObject()},
		{"hooks", h.hooksObject()},
		{"object", h.objectsObject()},
		{"utils", h.utilsObject()},
	} {
		if err := h.pdf.Set(field.name, field.value); err != nil {
			return err
		}
	}
	return h.vm.Set("pdf", h.pdf)
}

func (h *Host) console() *goja.Object {
	c := h.vm.NewObject()
	logAt := func(emit func(string, ...observability.Field)) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			parts := make([]string, len(call.Arguments))
			for i, a := range call.Arguments {
				parts[i] = a.String()
			}
			emit("script", observability.String("message", strings.Join(parts, " ")))
			return goja.Undefined()
		}
	}
	method(c, "log", logAt(h.log.Info))
	method(c, "info", logAt(h.log.Info))
	method(c, "debug", logAt(h.log.Debug))
	method(c, "warn", logAt(h.log.Warn))
	method(c, "error", logAt(h.log.Error))
	return c
}

// pageValue is the script view of a page. Its closures hold only a weak
// handle to the page's queue, so dropping the page from the registry makes
// later pushes no-ops.
func (h *Host) pageValue(p pages.Page) goja.Value {
	w := p.Weak()
	id, kind, date := p.ID, p.Kind, p.Date
	width, height := p.Size(h.pageSize())
	bounds := p.Bounds(width, height)

	obj := h.vm.NewObject()
	_ = obj.Set("id", int64(id))
	_ = obj.Set("title", p.Title)
	_ = obj.Set("kind", kind.String())
	if !date.IsZero() {
		_ = obj.Set("date", h.dateValue(date))
	} else {
		_ = obj.Set("date", goja.Null())
	}
	_ = obj.Set("width", width)
	_ = obj.Set("height", height)

	method(obj, "bounds", func(goja.FunctionCall) goja.Value {
		return h.toJS(object.EncodeBounds(bounds))
	})
	method(obj, "push", func(call goja.FunctionCall) goja.Value {
		pushed := true
		for _, arg := range call.Arguments {
			for _, o := range h.objectArgs(arg) {
				pushed = w.Push(o) && pushed
			}
		}
		return h.vm.ToValue(pushed)
	})
	lookup := func(k pages.Kind) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			def := date
			if def.IsZero() {
				def = calendar.BeginningOfYear(h.pages.Year())
			}
			found, ok := h.pages.GetByDate(k, h.dateArg(call.Argument(0), def))
			return h.pageOrNull(found, ok)
		}
	}
	method(obj, "monthly", lookup(pages.KindMonthly))
	method(obj, "weekly", lookup(pages.KindWeekly))
	method(obj, "daily", lookup(pages.KindDaily))
	step := func(next bool) func(goja.FunctionCall) goja.Value {
		return func(goja.FunctionCall) goja.Value {
			cur, ok := h.pages.Get(id)
			if !ok {
				return goja.Null()
			}
			if next {
				return h.pageOrNull(h.pages.Next(cur))
			}
			return h.pageOrNull(h.pages.Prev(cur))
		}
	}
	method(obj, "next_page", step(true))
	method(obj, "prev_page", step(false))
	return obj
}

func (h *Host) pageOrNull(p pages.Page, ok bool) goja.Value {
	if !ok {
		return goja.Null()
	}
	return h.pageValue(p)
}

// objectArgs decodes a pushed value: one object or a list of objects.
func (h *Host) objectArgs(v goja.Value) []object.Object {
	switch x := exportPlain(v).(type) {
	case []any:
		out := make([]object.Object, 0, len(x))
		for i, item := range x {
			o, err := object.Decode(item)
			if err != nil {
				h.throwf("push [%d]: %w", i, err)
			}
			out = append(out, o)
		}
		return out
	case nil:
		return nil
	default:
		o, err := object.Decode(x)
		if err != nil {
			h.throwf("push: %w", err)
		}
		return []object.Object{o}
	}
}

func (h *Host) pagesObject() *goja.Object {
	obj := h.vm.NewObject()
	method(obj, "create", func(call goja.FunctionCall) goja.Value {
		title := ""
		if !isMissing(call.Argument(0)) {
			title = call.Argument(0).String()
		}
		p := h.pages.Create(title)
		return h.vm.ToValue(int64(p.ID))
	})
	method(obj, "get", func(call goja.FunctionCall) goja.Value {
		if isMissing(call.Argument(0)) {
			return goja.Null()
		}
		id, err := object.ID(call.Argument(0).ToFloat())
		if err != nil {
			h.throwf("pages.get: %v", err)
		}
		return h.pageOrNull(h.pages.Get(pages.ID(id)))
	})
	method(obj, "ids", func(goja.FunctionCall) goja.Value {
		ids := h.pages.IDs()
		out := make([]any, len(ids))
		for i, id := range ids {
			out[i] = int64(id)
		}
		return h.vm.NewArray(out...)
	})
	return obj
}

// calendarObject backs pdf.page, finding calendar pages by date. Dates
// default to January 1 of the planner year.
func (h *Host) calendarObject() *goja.Object {
	obj := h.vm.NewObject()
	for name, k := range map[string]pages.Kind{
		"monthly": pages.KindMonthly,
		"weekly":  pages.KindWeekly,
		"daily":   pages.KindDaily,
	} {
		method(obj, name, func(call goja.FunctionCall) goja.Value {
			d := h.dateArg(call.Argument(0), calendar.BeginningOfYear(h.pages.Year()))
			return h.pageOrNull(h.pages.GetByDate(k, d))
		})
	}
	return obj
}

func (h *Host) fontsObject() *goja.Object {
	obj := h.vm.NewObject()
	method(obj, "load", func(call goja.FunctionCall) goja.Value {
		id, err := h.fonts.AddFromPath(call.Argument(0).String())
		if err != nil {
			h.throw(err)
		}
		return h.vm.ToValue(int64(id))
	})
	method(obj, "fallback", func(goja.FunctionCall) goja.Value {
		id, ok := h.fonts.Fallback()
		if !ok {
			return goja.Null()
		}
		return h.vm.ToValue(int64(id))
	})
	method(obj, "metrics", func(call goja.FunctionCall) goja.Value {
		face, size := h.faceArgs(call.Argument(0), call.Argument(1))
		return h.toJS(map[string]any{
			"ascender":  face.AscenderHeight(size),
			"descender": face.DescenderHeight(size),
			"height":    face.TextHeight(size),
		})
	})
	method(obj, "text_width", func(call goja.FunctionCall) goja.Value {
		face, size := h.faceArgs(call.Argument(1), call.Argument(2))
		return h.vm.ToValue(face.TextWidth(call.Argument(0).String(), size))
	})
	return obj
}

// faceArgs resolves optional font id and size arguments against the
// fallback font and the configured font size.
func (h *Host) faceArgs(fontArg, sizeArg goja.Value) (*fonts.Face, float64) {
	var id *fonts.FontID
	if !isMissing(fontArg) {
		n, err := object.ID(fontArg.ToFloat())
		if err != nil {
			h.throwf("font: %v", err)
		}
		v := fonts.FontID(n)
		id = &v
	}
	face, ok := h.fonts.FaceOrFallback(id)
	if !ok {
		h.throwf("no font available for metrics")
	}
	size := h.drawContext().Defaults.FontSize
	if !isMissing(sizeArg) {
		size = sizeArg.ToFloat()
	}
	return face, size
}

func (h *Host) hooksObject() *goja.Object {
	obj := h.vm.NewObject()
	for name, ph := range map[string]extensions.Phase{
		"on_monthly_page": extensions.PhaseMonthly,
		"on_weekly_page":  extensions.PhaseWeekly,
		"on_daily_page":   extensions.PhaseDaily,
	} {
		method(obj, name, func(call goja.FunctionCall) goja.Value {
			for _, fn := range h.callables(call.Argument(0)) {
				h.hookSeq++
				hook := extensions.NewScriptHook(fmt.Sprintf("%s#%d", name, h.hookSeq), ph, 0, h.hookCallback(fn))
				if err := h.hooks.Register(hook); err != nil {
					h.throw(err)
				}
			}
			return goja.Undefined()
		})
	}
	return obj
}

// callables accepts a function or an array of functions.
func (h *Host) callables(v goja.Value) []goja.Callable {
	if fn, ok := goja.AssertFunction(v); ok {
		return []goja.Callable{fn}
	}
	if isMissing(v) {
		h.throwf("expected a function or a list of functions")
	}
	list := v.ToObject(h.vm)
	n := int(list.Get("length").ToInteger())
	out := make([]goja.Callable, 0, n)
	for i := 0; i < n; i++ {
		fn, ok := goja.AssertFunction(list.Get(fmt.Sprint(i)))
		if !ok {
			h.throwf("hook [%d] is not a function", i)
		}
		out = append(out, fn)
	}
	return out
}

// hookCallback calls fn with the page. Objects the hook returns are pushed
// onto the page as though the hook had pushed them itself.
func (h *Host) hookCallback(fn goja.Callable) extensions.Callback {
	return func(ctx context.Context, p pages.Page) error {
		_, err := h.guard(ctx, func() (ret goja.Value, err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%v", r)
				}
			}()
			ret, err = fn(goja.Undefined(), h.pageValue(p))
			if err != nil || isMissing(ret) {
				return ret, err
			}
			for _, o := range h.objectArgs(ret) {
				p.Push(o)
			}
			return ret, nil
		})
		return err
	}
}

func (h *Host) objectsObject() *goja.Object {
	obj := h.vm.NewObject()
	for _, t := range []object.Type{
		object.TypeText, object.TypeRect, object.TypeCircle,
		object.TypeLine, object.TypeShape, object.TypeGroup,
	} {
		method(obj, string(t), func(call goja.FunctionCall) goja.Value {
			rec, _ := exportPlain(call.Argument(0)).(map[string]any)
			if rec == nil {
				rec = map[string]any{}
			}
			rec["type"] = string(t)
			o, err := object.Decode(rec)
			if err != nil {
				h.throw(err)
			}
			return h.objectValue(o)
		})
	}
	return obj
}
