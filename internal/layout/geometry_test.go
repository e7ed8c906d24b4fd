package layout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"glasscal/internal/model"
)

// testWindow is the 08:00-16:00 window at 72px/hour used by the demo.
func testWindow() model.Window {
	return model.Window{
		StartHour:      8,
		EndHour:        16,
		HourHeightPx:   72,
		MinDurationMin: 10,
		MinHeightPx:    12,
	}
}

func eventAt(startHour, startMin, endHour, endMin int) model.Event {
	return model.Event{
		Start: time.Date(2026, time.March, 2, startHour, startMin, 0, 0, time.Local),
		End:   time.Date(2026, time.March, 2, endHour, endMin, 0, 0, time.Local),
	}
}

func TestProject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		ev         model.Event
		wantTop    int
		wantHeight int
	}{
		{name: "nine_to_ten", ev: eventAt(9, 0, 10, 0), wantTop: 72, wantHeight: 72},
		{name: "eleven_to_eleven_fortyfive", ev: eventAt(11, 0, 11, 45), wantTop: 216, wantHeight: 54},
		{name: "two_to_three_pm", ev: eventAt(14, 0, 15, 0), wantTop: 432, wantHeight: 72},
		{name: "at_window_open", ev: eventAt(8, 0, 8, 30), wantTop: 0, wantHeight: 36},
		{
			// Starts 2h before the window opens, ends 1h in: only the
			// in-window hour is drawn, pinned to the top edge.
			name: "clamped_to_window_open", ev: eventAt(6, 0, 9, 0), wantTop: 0, wantHeight: 72,
		},
		{
			// Runs past the window close: truncated at the bottom edge.
			name: "clamped_to_window_close", ev: eventAt(15, 0, 17, 30), wantTop: 504, wantHeight: 72,
		},
		{
			// Entirely before the window: collapses to the floor block
			// at the top edge.
			name: "entirely_before_window", ev: eventAt(5, 0, 6, 0), wantTop: 0, wantHeight: 12,
		},
		{
			// Zero duration never yields zero height.
			name: "zero_duration", ev: eventAt(12, 0, 12, 0), wantTop: 288, wantHeight: 12,
		},
		{
			// Inverted end < start degrades to the floor, not negative
			// geometry.
			name: "inverted_range", ev: eventAt(12, 0, 11, 0), wantTop: 288, wantHeight: 12,
		},
		{name: "very_short_event", ev: eventAt(9, 0, 9, 5), wantTop: 72, wantHeight: 12},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := Project(tc.ev, testWindow())
			assert.Equal(t, tc.wantTop, got.TopPx, "top")
			assert.Equal(t, tc.wantHeight, got.HeightPx, "height")
		})
	}
}

func TestProject_ProportionalInsideWindow(t *testing.T) {
	t.Parallel()

	// For events fully inside the window, top+height tracks elapsed
	// time exactly: no clamping, no floors.
	win := testWindow()
	for startMin := 0; startMin <= 6*60; startMin += 25 {
		start := time.Date(2026, time.March, 2, win.StartHour, startMin, 0, 0, time.Local)
		end := start.Add(90 * time.Minute)
		if end.Hour() >= win.EndHour {
			break
		}

		got := Project(model.Event{Start: start, End: end}, win)
		assert.Equal(t, startMin*win.HourHeightPx/60, got.TopPx)
		assert.Equal(t, 90*win.HourHeightPx/60, got.HeightPx)
	}
}

func TestProject_Deterministic(t *testing.T) {
	t.Parallel()

	ev := eventAt(9, 17, 10, 41)
	first := Project(ev, testWindow())
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Project(ev, testWindow()))
	}
}

func TestProject_MinHeightDominates(t *testing.T) {
	t.Parallel()

	// When the pixel floor is taller than the floored duration, the
	// pixel floor wins.
	win := testWindow()
	win.MinHeightPx = 20

	got := Project(eventAt(12, 0, 12, 0), win)
	assert.Equal(t, 20, got.HeightPx)
}

func TestDayLayout(t *testing.T) {
	t.Parallel()

	events := []model.Event{
		eventAt(9, 0, 10, 0),
		{
			Start: time.Date(2026, time.March, 3, 9, 0, 0, 0, time.Local),
			End:   time.Date(2026, time.March, 3, 10, 0, 0, 0, time.Local),
		},
		eventAt(14, 0, 15, 0),
	}

	placed := DayLayout(events, date(2026, time.March, 2), testWindow())

	assert.Len(t, placed, 2)
	assert.Equal(t, 72, placed[0].Geometry.TopPx)
	assert.Equal(t, 432, placed[1].Geometry.TopPx)
}
