package scripting

import (
	"fmt"
	"reflect"
	"time"

	"github.com/dop251/goja"

	"github.com/chipsenkbeil/makepdf-sub000/calendar"
	"github.com/chipsenkbeil/makepdf-sub000/object"
)

// exportPlain exports v as nested maps, slices and scalars with every
// function value dropped.
func exportPlain(v goja.Value) any {
	if v == nil {
		return nil
	}
	return plain(v.Export())
}

func plain(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			if isFunc(e) {
				continue
			}
			out[k] = plain(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			if !isFunc(e) {
				out[i] = plain(e)
			}
		}
		return out
	}
	return v
}

func isFunc(v any) bool { return v != nil && reflect.TypeOf(v).Kind() == reflect.Func }

func isMissing(v goja.Value) bool { return v == nil || goja.IsUndefined(v) || goja.IsNull(v) }

// toJS converts plain Go data into native JavaScript objects and arrays.
// Object keys are set in sorted order so property order is stable.
func (h *Host) toJS(v any) goja.Value {
	switch x := v.(type) {
	case map[string]any:
		obj := h.vm.NewObject()
		for _, k := range object.SortedKeys(x) {
			_ = obj.Set(k, h.toJS(x[k]))
		}
		return obj
	case []any:
		items := make([]any, len(x))
		for i, e := range x {
			items[i] = h.toJS(e)
		}
		return h.vm.NewArray(items...)
	}
	return h.vm.ToValue(v)
}

// method attaches a native function to obj.
func method(obj *goja.Object, name string, fn func(goja.FunctionCall) goja.Value) {
	_ = obj.Set(name, fn)
}

// decodeDate accepts "YYYY-MM-DD" or a record with year, month and day.
func decodeDate(v any) (calendar.Date, error) {
	switch x := v.(type) {
	case string:
		return calendar.Parse(x)
	case map[string]any:
		var f [3]float64
		for i, k := range []string{"year", "month", "day"} {
			n, err := object.Number(x[k])
			if err != nil {
				return calendar.Date{}, fmt.Errorf("date: missing or invalid %s", k)
			}
			f[i] = n
		}
		year, month, day := int(f[0]), time.Month(f[1]), int(f[2])
		d := calendar.New(year, month, day)
		if d.Year() != year || d.Month() != month || d.Day() != day {
			return calendar.Date{}, fmt.Errorf("invalid date: %d/%d/%d", year, int(month), day)
		}
		return d, nil
	}
	return calendar.Date{}, fmt.Errorf("date: expected \"YYYY-MM-DD\" or {year, month, day}")
}

// dateArg decodes an optional date argument, using def when it is absent.
func (h *Host) dateArg(v goja.Value, def calendar.Date) calendar.Date {
	if isMissing(v) {
		return def
	}
	d, err := decodeDate(exportPlain(v))
	if err != nil {
		h.throw(err)
	}
	return d
}

// dateValue builds the script view of a date: plain fields plus calendar
// arithmetic methods returning new dates.
func (h *Host) dateValue(d calendar.Date) *goja.Object {
	obj := h.vm.NewObject()
	_ = obj.Set("year", d.Year())
	_ = obj.Set("month", int(d.Month()))
	_ = obj.Set("day", d.Day())
	_ = obj.Set("weekday", weekdayName(d.Weekday()))
	_ = obj.Set("ordinal", d.Ordinal())

	derive := func(name string, fn func(calendar.Date) calendar.Date) {
		method(obj, name, func(goja.FunctionCall) goja.Value { return h.dateValue(fn(d)) })
	}
	count := func(name string, fn func(calendar.Date) int) {
		method(obj, name, func(goja.FunctionCall) goja.Value { return h.vm.ToValue(fn(d)) })
	}
	shift := func(name string, fn func(calendar.Date, int) calendar.Date) {
		method(obj, name, func(call goja.FunctionCall) goja.Value {
			return h.dateValue(fn(d, int(call.Argument(0).ToInteger())))
		})
	}

	shift("add_days", calendar.Date.AddDays)
	shift("add_weeks", calendar.Date.AddWeeks)
	shift("add_months", calendar.Date.AddMonths)
	derive("tomorrow", calendar.Date.Tomorrow)
	derive("yesterday", calendar.Date.Yesterday)
	derive("next_week", calendar.Date.NextWeek)
	derive("last_week", calendar.Date.LastWeek)
	derive("next_month", calendar.Date.NextMonth)
	derive("last_month", calendar.Date.LastMonth)
	derive("beginning_of_year", calendar.Date.BeginningOfYear)
	derive("end_of_year", calendar.Date.EndOfYear)
	derive("beginning_of_month", calendar.Date.BeginningOfMonth)
	derive("end_of_month", calendar.Date.EndOfMonth)
	for _, start := range []time.Weekday{time.Sunday, time.Monday} {
		suffix := "_" + weekdayName(start)
		derive("beginning_of_week"+suffix, func(d calendar.Date) calendar.Date { return d.BeginningOfWeek(start) })
		derive("end_of_week"+suffix, func(d calendar.Date) calendar.Date { return d.EndOfWeek(start) })
		count("weeks_in_month"+suffix, func(d calendar.Date) int { return d.WeeksInMonth(start) })
		count("calendar_week"+suffix, func(d calendar.Date) int { return d.WeekOfMonth(start) })
	}
	method(obj, "format", func(call goja.FunctionCall) goja.Value {
		return h.vm.ToValue(d.Strftime(call.Argument(0).String()))
	})
	method(obj, "equals", func(call goja.FunctionCall) goja.Value {
		o, err := decodeDate(exportPlain(call.Argument(0)))
		return h.vm.ToValue(err == nil && o.Equal(d))
	})
	method(obj, "compare", func(call goja.FunctionCall) goja.Value {
		o := h.dateArg(call.Argument(0), d)
		switch {
		case d.Before(o):
			return h.vm.ToValue(-1)
		case d.After(o):
			return h.vm.ToValue(1)
		}
		return h.vm.ToValue(0)
	})
	method(obj, "toString", func(goja.FunctionCall) goja.Value { return h.vm.ToValue(d.String()) })
	return obj
}

func weekdayName(w time.Weekday) string {
	return [...]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}[w]
}

// objectValue wraps an object's wire record with bounds and align_to
// methods. Both re-read the record so script edits are honored.
func (h *Host) objectValue(o object.Object) *goja.Object {
	obj := h.toJS(object.Encode(o)).(*goja.Object)
	method(obj, "bounds", func(call goja.FunctionCall) goja.Value {
		cur := h.decodeObject(call.This)
		return h.toJS(object.EncodeBounds(cur.Bounds(h.drawContext())))
	})
	method(obj, "align_to", func(call goja.FunctionCall) goja.Value {
		cur := h.decodeObject(call.This)
		target, err := object.DecodeBounds(exportPlain(call.Argument(0)))
		if err != nil {
			h.throw(err)
		}
		var rawAlign any
		if !isMissing(call.Argument(1)) {
			rawAlign = exportPlain(call.Argument(1))
		}
		align, err := object.DecodeAlign(rawAlign)
		if err != nil {
			h.throw(err)
		}
		return h.objectValue(cur.AlignTo(h.drawContext(), target, align))
	})
	return obj
}

func (h *Host) decodeObject(v goja.Value) object.Object {
	o, err := object.Decode(exportPlain(v))
	if err != nil {
		h.throw(err)
	}
	return o
}
