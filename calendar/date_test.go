package calendar

import (
	"testing"
	"time"
)

func TestDate_AddMonthsClampsDay(t *testing.T) {
	tests := []struct {
		from Date
		n    int
		want Date
	}{
		{New(2024, time.January, 31), 1, New(2024, time.February, 29)},
		{New(2023, time.January, 31), 1, New(2023, time.February, 28)},
		{New(2024, time.March, 31), -1, New(2024, time.February, 29)},
		{New(2024, time.December, 15), 1, New(2025, time.January, 15)},
		{New(2024, time.January, 10), -1, New(2023, time.December, 10)},
	}
	for _, tt := range tests {
		if got := tt.from.AddMonths(tt.n); !got.Equal(tt.want) {
			t.Fatalf("%s %+d months = %s, want %s", tt.from, tt.n, got, tt.want)
		}
	}
}

func TestDate_TomorrowCrossesYear(t *testing.T) {
	got := EndOfYear(2024).Tomorrow()
	if !got.Equal(New(2025, time.January, 1)) {
		t.Fatalf("tomorrow = %s", got)
	}
}

func TestDate_Weeks(t *testing.T) {
	d := New(2024, time.January, 10) // Wednesday
	if got := d.BeginningOfWeek(time.Monday); !got.Equal(New(2024, time.January, 8)) {
		t.Fatalf("monday start = %s", got)
	}
	if got := d.BeginningOfWeek(time.Sunday); !got.Equal(New(2024, time.January, 7)) {
		t.Fatalf("sunday start = %s", got)
	}
	if got := d.EndOfWeek(time.Monday); !got.Equal(New(2024, time.January, 14)) {
		t.Fatalf("monday end = %s", got)
	}
	// September 2024 starts on a Sunday and has 30 days.
	sep := New(2024, time.September, 1)
	if got := sep.WeeksInMonth(time.Sunday); got != 5 {
		t.Fatalf("weeks in sep (sunday) = %d, want 5", got)
	}
	if got := sep.WeeksInMonth(time.Monday); got != 6 {
		t.Fatalf("weeks in sep (monday) = %d, want 6", got)
	}
	if got := New(2024, time.September, 30).WeekOfMonth(time.Monday); got != 6 {
		t.Fatalf("week of month = %d, want 6", got)
	}
}

func TestISOWeekHelpers(t *testing.T) {
	if got := ISOWeekStart(2025, 1); !got.Equal(New(2024, time.December, 30)) {
		t.Fatalf("2025-W01 start = %s", got)
	}
	if got := ISOWeekStart(2024, 1); !got.Equal(New(2024, time.January, 1)) {
		t.Fatalf("2024-W01 start = %s", got)
	}
	if got := ISOWeeksInYear(2020); got != 53 {
		t.Fatalf("weeks in 2020 = %d, want 53", got)
	}
	if got := ISOWeeksInYear(2024); got != 52 {
		t.Fatalf("weeks in 2024 = %d, want 52", got)
	}
	if DaysInYear(2024) != 366 || DaysInYear(2023) != 365 {
		t.Fatalf("days in year wrong")
	}
}

func TestParse(t *testing.T) {
	d, err := Parse("2024-02-29")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Ordinal() != 60 || d.String() != "2024-02-29" {
		t.Fatalf("parsed %s ordinal %d", d, d.Ordinal())
	}
	if _, err := Parse("2023-02-29"); err == nil {
		t.Fatalf("expected error for invalid date")
	}
}

func TestDate_Strftime(t *testing.T) {
	d := New(2024, time.January, 5) // Friday
	tests := []struct {
		format string
		want   string
	}{
		{"%Y-%m-%d", "2024-01-05"},
		{"%m/%d/%Y (%A)", "01/05/2024 (Friday)"},
		{"%B %Y", "January 2024"},
		{"%a %b %e", "Fri Jan  5"},
		{"%j %u %w", "005 5 5"},
		{"%V %G", "01 2024"},
		{"%U %W", "00 01"},
		{"100%% %q", "100% %q"},
		{"%F", "2024-01-05"},
		{"trailing %", "trailing %"},
	}
	for _, tt := range tests {
		if got := d.Strftime(tt.format); got != tt.want {
			t.Errorf("Strftime(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}
}
