package layout

import "time"

// Midnight strips the time-of-day component, keeping the date in its
// own location.
func Midnight(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

// StartOfWeek returns midnight on the configured start weekday at or
// before d. It is idempotent: StartOfWeek(StartOfWeek(d)) ==
// StartOfWeek(d).
func StartOfWeek(d time.Time, weekStart time.Weekday) time.Time {
	day := Midnight(d)
	offset := (int(day.Weekday()) - int(weekStart) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

// WeekDays returns the 7 consecutive calendar days of the week
// containing d, beginning on weekStart.
func WeekDays(d time.Time, weekStart time.Weekday) [7]time.Time {
	var days [7]time.Time
	start := StartOfWeek(d, weekStart)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// AddMonths shifts d by n calendar months, clamping the day-of-month
// to the last valid day of the target month. Paging from Jan 31 to
// February yields Feb 28 (or 29 in a leap year), never an overflow
// into March. Time-of-day is preserved.
func AddMonths(d time.Time, n int) time.Time {
	// First of the target month, then clamp the original day against
	// that month's length.
	first := time.Date(d.Year(), d.Month(), 1, d.Hour(), d.Minute(), d.Second(), d.Nanosecond(), d.Location()).AddDate(0, n, 0)
	day := d.Day()
	if last := daysInMonth(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, d.Hour(), d.Minute(), d.Second(), d.Nanosecond(), d.Location())
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
