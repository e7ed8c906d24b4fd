package layout

import (
	"time"

	"glasscal/internal/model"
)

// Project converts an event's start/end wall-clock times into block
// geometry inside the visible-hours window. The event is assumed to
// lie on the calendar day being rendered (use DayLayout when that
// precondition is not already established by the caller).
//
// Events that begin before the window opens or end after it closes
// are truncated to the window edges rather than hidden. The duration
// floor (win.MinDurationMin) and the pixel floor (win.MinHeightPx)
// guarantee a visible, non-inverted block even for zero or negative
// durations. The result is a pure function of the inputs.
func Project(ev model.Event, win model.Window) model.Geometry {
	windowMin := win.Minutes()

	start := minutesSinceMidnight(ev.Start) - win.StartHour*60
	end := minutesSinceMidnight(ev.End) - win.StartHour*60

	start = clampInt(start, 0, windowMin)
	end = clampInt(end, 0, windowMin)

	duration := end - start
	if duration < win.MinDurationMin {
		duration = win.MinDurationMin
	}

	top := start * win.HourHeightPx / 60
	height := duration * win.HourHeightPx / 60
	if height < win.MinHeightPx {
		height = win.MinHeightPx
	}

	return model.Geometry{TopPx: top, HeightPx: height}
}

// Placement pairs an event with its computed geometry.
type Placement struct {
	Event    model.Event
	Geometry model.Geometry
}

// DayLayout filters events down to the given calendar day and
// projects each into the window, preserving input order. This is the
// combined entry point for Day/Week columns: callers do not need to
// pre-filter by day themselves.
func DayLayout(events []model.Event, day time.Time, win model.Window) []Placement {
	placed := make([]Placement, 0, len(events))
	for _, ev := range events {
		if !OnDay(ev, day) {
			continue
		}
		placed = append(placed, Placement{Event: ev, Geometry: Project(ev, win)})
	}
	return placed
}

func minutesSinceMidnight(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
