package layout

import (
	"strings"
	"time"

	"glasscal/internal/model"
)

// OnDay reports whether the event starts on the given calendar day
// (year, month and day-of-month all equal), ignoring time-of-day.
// Multi-day events are classified by their start day only.
func OnDay(ev model.Event, day time.Time) bool {
	return ev.Start.Year() == day.Year() &&
		ev.Start.Month() == day.Month() &&
		ev.Start.Day() == day.Day()
}

// FilterEvents returns the events whose source is enabled and which
// match the free-text query. The query is a case-insensitive
// substring match over title, location, description and attendee
// names; an empty query matches every event. Input order is
// preserved.
func FilterEvents(events []model.Event, enabledSourceIDs map[string]bool, query string) []model.Event {
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]model.Event, 0, len(events))
	for _, ev := range events {
		if !enabledSourceIDs[ev.SourceID] {
			continue
		}
		if query != "" && !matchesQuery(ev, query) {
			continue
		}
		out = append(out, ev)
	}
	return out
}

func matchesQuery(ev model.Event, query string) bool {
	if strings.Contains(strings.ToLower(ev.Title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(ev.Location), query) {
		return true
	}
	if strings.Contains(strings.ToLower(ev.Description), query) {
		return true
	}
	for _, name := range ev.Attendees {
		if strings.Contains(strings.ToLower(name), query) {
			return true
		}
	}
	return false
}

// CountByDay tallies how many of the given events fall on each grid
// cell's day, keyed by the cell date formatted as 2006-01-02. The
// month view uses this for its per-day event dot indicators.
func CountByDay(events []model.Event, cells []model.MonthCell) map[string]int {
	counts := make(map[string]int, len(cells))
	for _, cell := range cells {
		n := 0
		for _, ev := range events {
			if OnDay(ev, cell.Date) {
				n++
			}
		}
		if n > 0 {
			counts[cell.Date.Format(time.DateOnly)] = n
		}
	}
	return counts
}
