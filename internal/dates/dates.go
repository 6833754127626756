package dates

import "time"

// The whole subsystem works on calendar days. Timestamps are collapsed to
// midnight UTC on entry so that timezone conversion can never shift a due
// date by a day.

func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole days from a to b (negative when b < a).
func DaysBetween(a, b time.Time) int {
	a = Normalize(a)
	b = Normalize(b)
	return int(b.Sub(a).Hours() / 24)
}

// AddMonths advances by calendar months, clamping to the last day of the
// target month instead of letting the date spill over (Jan 31 + 1 month is
// Feb 28/29, not Mar 2/3 as time.AddDate would give).
func AddMonths(t time.Time, months int) time.Time {
	t = Normalize(t)
	y, m, d := t.Date()

	total := int(m) - 1 + months
	ty := y + total/12
	tm := time.Month(total%12 + 1)
	if total < 0 {
		// Go's integer division truncates toward zero.
		ty = y + (total-11)/12
		tm = time.Month((total%12+12)%12 + 1)
	}

	if last := lastDay(ty, tm); d > last {
		d = last
	}
	return time.Date(ty, tm, d, 0, 0, 0, 0, time.UTC)
}

// AddDays advances by whole calendar days.
func AddDays(t time.Time, days int) time.Time {
	return Normalize(t).AddDate(0, 0, days)
}

func lastDay(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Format renders a calendar date as YYYY-MM-DD, extracting the fields
// directly instead of re-deriving them from a timestamp.
func Format(t time.Time) string {
	return Normalize(t).Format("2006-01-02")
}

// Parse accepts the date layouts used across the hosted backend.
func Parse(s string) (time.Time, bool) {
	layouts := []string{
		"2006-01-02",
		"02/01/2006",
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return Normalize(t), true
		}
	}
	return time.Time{}, false
}
