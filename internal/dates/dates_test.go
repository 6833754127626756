package dates

import (
	"testing"
	"time"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestNormalizeStripsTime(t *testing.T) {
	in := time.Date(2025, 3, 10, 23, 59, 59, 999, time.FixedZone("BRT", -3*3600))
	got := Normalize(in)
	if got.Hour() != 0 || got.Minute() != 0 || got.Location() != time.UTC {
		t.Fatalf("not normalized: %v", got)
	}
	if got.Day() != 10 {
		t.Fatalf("day shifted: %v", got)
	}
}

func TestDaysBetween(t *testing.T) {
	cases := []struct {
		a, b time.Time
		want int
	}{
		{d(2025, 1, 1), d(2025, 1, 1), 0},
		{d(2025, 1, 1), d(2025, 3, 2), 60},
		{d(2025, 3, 2), d(2025, 1, 1), -60},
		{d(2024, 2, 28), d(2024, 3, 1), 2}, // leap year
	}
	for _, c := range cases {
		if got := DaysBetween(c.a, c.b); got != c.want {
			t.Errorf("DaysBetween(%s, %s) = %d, want %d", Format(c.a), Format(c.b), got, c.want)
		}
	}
}

func TestAddMonthsClampsToMonthEnd(t *testing.T) {
	cases := []struct {
		in     time.Time
		months int
		want   time.Time
	}{
		{d(2025, 1, 31), 1, d(2025, 2, 28)},
		{d(2024, 1, 31), 1, d(2024, 2, 29)},
		{d(2025, 1, 31), 2, d(2025, 3, 31)},
		{d(2025, 1, 15), 1, d(2025, 2, 15)},
		{d(2025, 11, 30), 3, d(2026, 2, 28)},
		{d(2025, 12, 1), 1, d(2026, 1, 1)},
		{d(2025, 3, 31), -1, d(2025, 2, 28)},
	}
	for _, c := range cases {
		if got := AddMonths(c.in, c.months); !got.Equal(c.want) {
			t.Errorf("AddMonths(%s, %d) = %s, want %s", Format(c.in), c.months, Format(got), Format(c.want))
		}
	}
}

func TestParse(t *testing.T) {
	for _, s := range []string{"2025-06-10", "10/06/2025", "2025-06-10 14:00:00"} {
		got, ok := Parse(s)
		if !ok || !got.Equal(d(2025, 6, 10)) {
			t.Errorf("Parse(%q) = %v ok=%v", s, got, ok)
		}
	}
	if _, ok := Parse("junk"); ok {
		t.Error("Parse accepted junk")
	}
}
