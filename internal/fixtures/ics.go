package fixtures

import (
	"bytes"
	"errors"
	"os"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	appLog "glasscal/internal/log"
	"glasscal/internal/model"
)

// defaultICSSourceID is used for VEVENTs without a CATEGORIES
// property to map them into.
const defaultICSSourceID = "imported"

// LoadICS reads a local .ics file into a Set. Each VEVENT becomes one
// Event; the first CATEGORIES value (lowercased by convention in our
// fixtures) selects the source, with one Source synthesized per
// distinct category. Recurrence properties (RRULE, EXDATE,
// RECURRENCE-ID) are ignored: fixtures describe concrete events only.
func LoadICS(path string) (Set, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return Set{}, err
	}
	if len(body) == 0 {
		return Set{}, errors.New("empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		appLog.Error("ics fixture parse failed", err, "path", path)
		return Set{}, err
	}

	var set Set
	seenSources := make(map[string]bool)

	for _, ve := range cal.Events() {
		ev, perr := parseVEvent(ve)
		if perr != nil {
			// Log and skip this event, but keep parsing others.
			appLog.Warn("ics fixture: skipping vevent", "path", path, "reason", perr.Error())
			continue
		}

		if !seenSources[ev.SourceID] {
			seenSources[ev.SourceID] = true
			set.Sources = append(set.Sources, model.Source{
				ID:   ev.SourceID,
				Name: ev.SourceID,
			})
		}
		set.Events = append(set.Events, ev)
	}

	appLog.Info("ics fixture loaded", "path", path,
		"source_count", len(set.Sources), "event_count", len(set.Events))
	return set, nil
}

func parseVEvent(ve *ical.VEvent) (model.Event, error) {
	var out model.Event

	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil && p.Value != "" {
		out.ID = p.Value
	} else {
		out.ID = uuid.NewString()
	}

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Title = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		out.Description = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		out.Location = p.Value
	}

	out.SourceID = defaultICSSourceID
	if p := ve.GetProperty(ical.ComponentPropertyCategories); p != nil && p.Value != "" {
		out.SourceID = p.Value
	}

	// ATTENDEE may appear multiple times; prefer the CN display name.
	for _, p := range ve.GetProperties(ical.ComponentPropertyAttendee) {
		name := p.Value
		if params := p.ICalParameters; params != nil {
			if cns, ok := params["CN"]; ok && len(cns) > 0 && cns[0] != "" {
				name = cns[0]
			}
		}
		if name != "" {
			out.Attendees = append(out.Attendees, name)
		}
	}

	// The library resolves VTIMEZONE/TZID; we normalize into local
	// wall-clock time since the layout engine works in local time.
	start, err := ve.GetStartAt()
	if err != nil {
		return out, errors.New("missing or invalid DTSTART")
	}
	end, err := ve.GetEndAt()
	if err != nil {
		end = start
	}

	out.Start = start.In(time.Local)
	out.End = end.In(time.Local)
	return out, nil
}
