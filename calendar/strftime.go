package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Strftime formats d with strftime style directives. Time-of-day directives
// are not supported since a Date has no time; unknown directives are copied
// through unchanged.
func (d Date) Strftime(format string) string {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i == len(format)-1 {
			b.WriteByte(c)
			continue
		}
		i++
		switch verb := format[i]; verb {
		case 'Y':
			fmt.Fprintf(&b, "%04d", d.Year())
		case 'C':
			fmt.Fprintf(&b, "%02d", d.Year()/100)
		case 'y':
			fmt.Fprintf(&b, "%02d", d.Year()%100)
		case 'm':
			fmt.Fprintf(&b, "%02d", int(d.Month()))
		case 'B':
			b.WriteString(d.Month().String())
		case 'b', 'h':
			b.WriteString(d.Month().String()[:3])
		case 'd':
			fmt.Fprintf(&b, "%02d", d.Day())
		case 'e':
			fmt.Fprintf(&b, "%2d", d.Day())
		case 'A':
			b.WriteString(d.Weekday().String())
		case 'a':
			b.WriteString(d.Weekday().String()[:3])
		case 'w':
			fmt.Fprintf(&b, "%d", int(d.Weekday()))
		case 'u':
			fmt.Fprintf(&b, "%d", isoWeekday(d.Weekday()))
		case 'j':
			fmt.Fprintf(&b, "%03d", d.Ordinal())
		case 'U':
			fmt.Fprintf(&b, "%02d", weekNumber(d, time.Sunday))
		case 'W':
			fmt.Fprintf(&b, "%02d", weekNumber(d, time.Monday))
		case 'V':
			_, w := d.ISOWeek()
			fmt.Fprintf(&b, "%02d", w)
		case 'G':
			y, _ := d.ISOWeek()
			fmt.Fprintf(&b, "%04d", y)
		case 'D', 'x':
			b.WriteString(d.Strftime("%m/%d/%y"))
		case 'F':
			b.WriteString(d.Strftime("%Y-%m-%d"))
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case '%':
			b.WriteByte('%')
		default:
			b.WriteByte('%')
			b.WriteByte(verb)
		}
	}
	return b.String()
}

func isoWeekday(w time.Weekday) int {
	if w == time.Sunday {
		return 7
	}
	return int(w)
}

// weekNumber counts weeks starting on start, with days before the year's
// first start day in week 0.
func weekNumber(d Date, start time.Weekday) int {
	offset := (int(d.Weekday()) - int(start) + 7) % 7
	return (d.Ordinal() - 1 - offset + 7) / 7
}
