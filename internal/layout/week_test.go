package layout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestStartOfWeek(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		in        time.Time
		weekStart time.Weekday
		want      time.Time
	}{
		{
			name:      "midweek_monday_start",
			in:        date(2026, time.March, 4), // Wednesday
			weekStart: time.Monday,
			want:      date(2026, time.March, 2),
		},
		{
			name:      "midweek_sunday_start",
			in:        date(2026, time.March, 4),
			weekStart: time.Sunday,
			want:      date(2026, time.March, 1),
		},
		{
			name:      "on_week_start_day",
			in:        date(2026, time.March, 2), // Monday
			weekStart: time.Monday,
			want:      date(2026, time.March, 2),
		},
		{
			name:      "strips_time_of_day",
			in:        time.Date(2026, time.March, 2, 17, 45, 12, 0, time.Local),
			weekStart: time.Monday,
			want:      date(2026, time.March, 2),
		},
		{
			name:      "crosses_month_boundary",
			in:        date(2026, time.April, 1), // Wednesday
			weekStart: time.Monday,
			want:      date(2026, time.March, 30),
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := StartOfWeek(tc.in, tc.weekStart)
			require.True(t, got.Equal(tc.want), "StartOfWeek() = %v, want %v", got, tc.want)

			// Always lands on the configured weekday at midnight.
			assert.Equal(t, tc.weekStart, got.Weekday())
			assert.Equal(t, 0, got.Hour())

			// Idempotent.
			again := StartOfWeek(got, tc.weekStart)
			assert.True(t, again.Equal(got), "StartOfWeek is not idempotent: %v -> %v", got, again)
		})
	}
}

func TestWeekDays(t *testing.T) {
	t.Parallel()

	days := WeekDays(date(2026, time.March, 4), time.Monday)

	require.True(t, days[0].Equal(date(2026, time.March, 2)))
	for i := 1; i < len(days); i++ {
		want := days[i-1].AddDate(0, 0, 1)
		assert.True(t, days[i].Equal(want), "day %d = %v, want %v", i, days[i], want)
	}
}

func TestAddMonths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   time.Time
		n    int
		want time.Time
	}{
		{
			name: "jan31_to_feb_non_leap",
			in:   date(2026, time.January, 31),
			n:    1,
			want: date(2026, time.February, 28),
		},
		{
			name: "jan31_to_feb_leap",
			in:   date(2028, time.January, 31),
			n:    1,
			want: date(2028, time.February, 29),
		},
		{
			name: "mar31_back_to_feb",
			in:   date(2026, time.March, 31),
			n:    -1,
			want: date(2026, time.February, 28),
		},
		{
			name: "may31_to_jun30",
			in:   date(2026, time.May, 31),
			n:    1,
			want: date(2026, time.June, 30),
		},
		{
			name: "no_clamp_needed",
			in:   date(2026, time.March, 15),
			n:    1,
			want: date(2026, time.April, 15),
		},
		{
			name: "across_year_boundary",
			in:   date(2026, time.December, 31),
			n:    2,
			want: date(2027, time.February, 28),
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := AddMonths(tc.in, tc.n)
			assert.True(t, got.Equal(tc.want), "AddMonths() = %v, want %v", got, tc.want)
		})
	}
}

func TestAddMonths_PreservesTimeOfDay(t *testing.T) {
	t.Parallel()

	in := time.Date(2026, time.January, 31, 14, 30, 0, 0, time.Local)
	got := AddMonths(in, 1)

	assert.Equal(t, 14, got.Hour())
	assert.Equal(t, 30, got.Minute())
	assert.Equal(t, 28, got.Day())
}
