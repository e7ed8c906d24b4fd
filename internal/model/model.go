package model

import "time"

// Event represents a single calendar event as loaded from a fixture
// source. Events are immutable after load; the layout engine never
// mutates them. End is expected to be after Start, but the layout
// engine does not validate this; geometry floors keep degenerate
// events visible instead of failing (see layout.Project).
type Event struct {
	ID       string // unique event ID (assigned at load if missing)
	SourceID string // calendar source this event belongs to

	Title       string
	Location    string
	Description string
	Attendees   []string // ordered display names

	// Start / End are wall-clock times in the local timezone.
	Start time.Time
	End   time.Time

	// Color is a display tag (e.g. "#7c5cff"); falls back to the
	// source color when empty.
	Color string
}

// Source is a named calendar category used for grouping, filtering
// and visual tagging. The set of sources is static per fixture.
type Source struct {
	ID    string
	Name  string
	Color string
}

// MonthCell is one square of a 6x7 month grid. InMonth is false for
// leading/trailing days borrowed from adjacent months to fill the
// fixed 42-cell grid.
type MonthCell struct {
	Date    time.Time
	InMonth bool
}

// Geometry describes where an event block is drawn inside a day
// column: vertical pixel offset from the top of the visible window
// and block height.
type Geometry struct {
	TopPx    int
	HeightPx int
}

// Window is the visible-hours window of the Day/Week views: the
// half-open hour interval [StartHour, EndHour) rendered with
// HourHeightPx pixels per hour. Events outside the window are clamped
// to its edges, not dropped.
//
// MinDurationMin floors the effective duration so zero-length (or
// inverted) events still produce a visible block; MinHeightPx floors
// the resulting pixel height independently.
type Window struct {
	StartHour    int
	EndHour      int
	HourHeightPx int

	MinDurationMin int
	MinHeightPx    int
}

// Minutes returns the window length in minutes.
func (w Window) Minutes() int {
	return (w.EndHour - w.StartHour) * 60
}
