package fixtures

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadYAML(t *testing.T) {
	t.Parallel()

	set, err := Load(filepath.Join("testdata", "sample.yaml"))
	require.NoError(t, err)

	require.Len(t, set.Sources, 2)
	assert.Equal(t, "work", set.Sources[0].ID)
	assert.Equal(t, "Work", set.Sources[0].Name)

	// The broken-timestamp event is skipped, the rest survive.
	require.Len(t, set.Events, 3)

	standup := set.Events[0]
	assert.Equal(t, "evt-standup", standup.ID)
	assert.Equal(t, "work", standup.SourceID)
	assert.Equal(t, []string{"Ana Ortiz", "Ben Cho"}, standup.Attendees)
	assert.True(t, standup.Start.Equal(time.Date(2026, time.March, 2, 9, 0, 0, 0, time.Local)))
	assert.True(t, standup.End.Equal(time.Date(2026, time.March, 2, 10, 0, 0, 0, time.Local)))

	// Missing IDs are filled in, and stay unique.
	clientCall := set.Events[1]
	assert.Equal(t, "Client Call", clientCall.Title)
	assert.NotEmpty(t, clientCall.ID)
	assert.NotEqual(t, standup.ID, clientCall.ID)

	// Space-separated timestamp layout.
	dentist := set.Events[2]
	assert.True(t, dentist.Start.Equal(time.Date(2026, time.March, 3, 10, 30, 0, 0, time.Local)))
}

func TestLoadYAML_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join("testdata", "does-not-exist.yaml"))
	assert.Error(t, err)
}

func TestLoadYAML_Malformed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("events: [not a mapping"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EmptyPath(t *testing.T) {
	t.Parallel()

	_, err := Load("")
	assert.Error(t, err)
}

func TestEnabledByDefault(t *testing.T) {
	t.Parallel()

	set, err := Load(filepath.Join("testdata", "sample.yaml"))
	require.NoError(t, err)

	enabled := set.EnabledByDefault()
	assert.Equal(t, map[string]bool{"work": true, "personal": true}, enabled)
}

func TestParseLocalTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{name: "with_seconds", in: "2026-03-02T09:00:00", want: time.Date(2026, time.March, 2, 9, 0, 0, 0, time.Local)},
		{name: "without_seconds", in: "2026-03-02T09:00", want: time.Date(2026, time.March, 2, 9, 0, 0, 0, time.Local)},
		{name: "space_separator", in: "2026-03-02 09:00", want: time.Date(2026, time.March, 2, 9, 0, 0, 0, time.Local)},
		{name: "rfc3339_utc", in: "2026-03-02T09:00:00Z", want: time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)},
		{name: "empty", in: "", wantErr: true},
		{name: "garbage", in: "soon-ish", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseLocalTime(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tc.want), "parseLocalTime(%q) = %v, want %v", tc.in, got, tc.want)
		})
	}
}

func TestLoadICS(t *testing.T) {
	t.Parallel()

	set, err := Load(filepath.Join("testdata", "sample.ics"))
	require.NoError(t, err)

	require.Len(t, set.Events, 2)

	standup := set.Events[0]
	assert.Equal(t, "ics-standup@example.org", standup.ID)
	assert.Equal(t, "Team Standup", standup.Title)
	assert.Equal(t, "work", standup.SourceID)
	assert.Equal(t, []string{"Ana Ortiz", "Ben Cho"}, standup.Attendees)
	assert.True(t, standup.Start.Equal(time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)))

	// No UID and no CATEGORIES: generated ID, default source.
	dentist := set.Events[1]
	assert.NotEmpty(t, dentist.ID)
	assert.Equal(t, defaultICSSourceID, dentist.SourceID)
	assert.Equal(t, "Routine checkup.", dentist.Description)

	// One synthesized source per distinct category.
	ids := make([]string, 0, len(set.Sources))
	for _, s := range set.Sources {
		ids = append(ids, s.ID)
	}
	assert.ElementsMatch(t, []string{"work", defaultICSSourceID}, ids)
}
