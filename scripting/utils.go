package scripting

import (
	"errors"
	"strings"

	"github.com/dop251/goja"

	"github.com/chipsenkbeil/makepdf-sub000/calendar"
	"github.com/chipsenkbeil/makepdf-sub000/coords"
	"github.com/chipsenkbeil/makepdf-sub000/object"
)

// utilsObject backs pdf.utils: normalizers for the wire forms objects
// accept, unit conversion and small helpers scripts use for testing.
func (h *Host) utilsObject() *goja.Object {
	obj := h.vm.NewObject()

	normalize := func(name string, fn func(any) (any, error)) {
		method(obj, name, func(call goja.FunctionCall) goja.Value {
			v, err := fn(exportPlain(call.Argument(0)))
			if err != nil {
				h.throw(err)
			}
			if d, ok := v.(calendar.Date); ok {
				return h.dateValue(d)
			}
			return h.toJS(v)
		})
	}
	normalize("bounds", func(v any) (any, error) {
		b, err := object.DecodeBounds(v)
		return object.EncodeBounds(b), err
	})
	normalize("color", func(v any) (any, error) {
		c, err := object.DecodeColor(v)
		return c.Hex(), err
	})
	normalize("date", func(v any) (any, error) { return decodeDate(v) })
	normalize("link", func(v any) (any, error) {
		l, err := object.DecodeLink(v)
		return object.EncodeLink(l), err
	})
	normalize("padding", func(v any) (any, error) {
		s, err := object.DecodeSpace(v)
		return object.EncodeSpace(s), err
	})
	normalize("point", func(v any) (any, error) {
		p, err := object.DecodePoint(v)
		return object.EncodePoint(p), err
	})

	method(obj, "now", func(goja.FunctionCall) goja.Value { return h.dateValue(calendar.Today()) })
	method(obj, "mm_to_pt", func(call goja.FunctionCall) goja.Value {
		return h.vm.ToValue(coords.MMToPt(h.number(call.Argument(0))))
	})
	method(obj, "pt_to_mm", func(call goja.FunctionCall) goja.Value {
		return h.vm.ToValue(coords.PtToMM(h.number(call.Argument(0))))
	})
	method(obj, "px_to_mm", func(call goja.FunctionCall) goja.Value {
		dpi := h.base.Page.DPI
		if cfg, err := h.Config(); err == nil {
			dpi = cfg.Page.DPI
		}
		if !isMissing(call.Argument(1)) {
			dpi = h.number(call.Argument(1))
		}
		return h.vm.ToValue(coords.PxToMM(h.number(call.Argument(0)), dpi))
	})

	method(obj, "inspect", func(call goja.FunctionCall) goja.Value {
		return h.vm.ToValue(h.inspect(call.Argument(0)))
	})
	method(obj, "starts_with", func(call goja.FunctionCall) goja.Value {
		s, prefix, ok := stringArgs(call)
		return h.vm.ToValue(ok && strings.HasPrefix(s, prefix))
	})
	method(obj, "ends_with", func(call goja.FunctionCall) goja.Value {
		s, suffix, ok := stringArgs(call)
		return h.vm.ToValue(ok && strings.HasSuffix(s, suffix))
	})
	method(obj, "deep_equal", func(call goja.FunctionCall) goja.Value {
		return h.vm.ToValue(deepEqual(exportPlain(call.Argument(0)), exportPlain(call.Argument(1))))
	})
	assertDeep := func(want bool) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			a, b := call.Argument(0), call.Argument(1)
			if deepEqual(exportPlain(a), exportPlain(b)) == want {
				return goja.Undefined()
			}
			op := "=="
			if !want {
				op = "!="
			}
			h.throw(errors.New(strings.Join([]string{
				"Attempt to assert deeply a " + op + " b failed!",
				"",
				"inspect(a): " + h.inspect(a),
				"",
				"inspect(b): " + h.inspect(b),
			}, "\n")))
			return nil
		}
	}
	method(obj, "assert_deep_equal", assertDeep(true))
	method(obj, "assert_not_deep_equal", assertDeep(false))
	return obj
}

func (h *Host) number(v goja.Value) float64 {
	n, err := object.Number(v.Export())
	if err != nil {
		h.throwf("value not numeric")
	}
	return n
}

func stringArgs(call goja.FunctionCall) (s, affix string, ok bool) {
	a, okA := call.Argument(0).Export().(string)
	b, okB := call.Argument(1).Export().(string)
	return a, b, okA && okB
}

// inspect renders v as indented JSON using the runtime's JSON.stringify.
func (h *Host) inspect(v goja.Value) string {
	if h.inspectF == nil {
		stringify, ok := goja.AssertFunction(h.vm.Get("JSON").ToObject(h.vm).Get("stringify"))
		if !ok {
			return v.String()
		}
		h.inspectF = stringify
	}
	if goja.IsUndefined(v) {
		return "undefined"
	}
	out, err := h.inspectF(goja.Undefined(), v, goja.Null(), h.vm.ToValue(2))
	if err != nil || goja.IsUndefined(out) {
		return v.String()
	}
	return out.String()
}

// deepEqual compares exported values structurally. Numbers compare by value
// regardless of integer or float representation.
func deepEqual(a, b any) bool {
	if an, err := object.Number(a); err == nil {
		bn, err := object.Number(b)
		return err == nil && an == bn
	}
	switch x := a.(type) {
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !deepEqual(xv, yv) {
				return false
			}
		}
		return true
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !deepEqual(x[i], y[i]) {
				return false
			}
		}
		return true
	}
	return a == b
}
