package fixtures

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	appLog "glasscal/internal/log"
	"glasscal/internal/model"
)

// Set is a loaded fixture: the static calendar sources plus the
// sample events that the layout engine operates on. Fixtures are the
// only way data enters the engine; there are no module-level sample
// constants.
type Set struct {
	Sources []model.Source
	Events  []model.Event
}

// EnabledByDefault returns the visibility toggle map with every
// source enabled.
func (s Set) EnabledByDefault() map[string]bool {
	enabled := make(map[string]bool, len(s.Sources))
	for _, src := range s.Sources {
		enabled[src.ID] = true
	}
	return enabled
}

// Load reads a fixture file, dispatching on extension: .ics files go
// through the iCalendar parser, everything else is treated as YAML.
func Load(path string) (Set, error) {
	if path == "" {
		return Set{}, errors.New("fixture path is empty")
	}
	if strings.EqualFold(filepath.Ext(path), ".ics") {
		return LoadICS(path)
	}
	return LoadYAML(path)
}

// fixtureFile is the on-disk YAML shape.
type fixtureFile struct {
	Sources []struct {
		ID    string `yaml:"id"`
		Name  string `yaml:"name"`
		Color string `yaml:"color"`
	} `yaml:"sources"`
	Events []struct {
		ID          string   `yaml:"id"`
		Source      string   `yaml:"source"`
		Title       string   `yaml:"title"`
		Start       string   `yaml:"start"`
		End         string   `yaml:"end"`
		Location    string   `yaml:"location"`
		Description string   `yaml:"description"`
		Attendees   []string `yaml:"attendees"`
		Color       string   `yaml:"color"`
	} `yaml:"events"`
}

// LoadYAML reads a YAML fixture file into a Set. Events missing an ID
// get a generated one so downstream layout keys stay unique; events
// with an unparseable timestamp are logged and skipped rather than
// failing the whole load.
func LoadYAML(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Set{}, err
	}

	var file fixtureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Set{}, fmt.Errorf("fixtures: parse %s: %w", path, err)
	}

	var set Set
	for _, s := range file.Sources {
		if s.ID == "" {
			continue
		}
		set.Sources = append(set.Sources, model.Source{
			ID:    s.ID,
			Name:  s.Name,
			Color: s.Color,
		})
	}

	for _, e := range file.Events {
		start, serr := parseLocalTime(e.Start)
		end, eerr := parseLocalTime(e.End)
		if serr != nil || eerr != nil {
			appLog.Warn("fixtures: skipping event with bad timestamp",
				"title", e.Title, "start", e.Start, "end", e.End)
			continue
		}

		id := e.ID
		if id == "" {
			id = uuid.NewString()
		}

		set.Events = append(set.Events, model.Event{
			ID:          id,
			SourceID:    e.Source,
			Title:       e.Title,
			Location:    e.Location,
			Description: e.Description,
			Attendees:   e.Attendees,
			Start:       start,
			End:         end,
			Color:       e.Color,
		})
	}

	appLog.Info("fixture loaded", "path", path,
		"source_count", len(set.Sources), "event_count", len(set.Events))
	return set, nil
}

// parseLocalTime parses a fixture timestamp in the local timezone.
// Accepted layouts, tried in order:
//
//	2006-01-02T15:04:05
//	2006-01-02T15:04
//	2006-01-02 15:04
//	RFC3339 (zone honored, then converted to local)
func parseLocalTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errors.New("empty time value")
	}

	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, v, time.Local); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.In(time.Local), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized time value %q", v)
}
