package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// BasicAuthConfig holds HTTP Basic Auth credentials for the demo
// server. Auth is disabled when either field is empty.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the demo server.
	Listen string `yaml:"listen" json:"listen"`

	// WeekStart controls which weekday begins a week in all views.
	// Supported values: "monday" (default), "sunday".
	WeekStart string `yaml:"week_start" json:"week_start"`

	// WindowStartHour / WindowEndHour bound the visible-hours window
	// of the Day/Week views as the half-open interval
	// [WindowStartHour, WindowEndHour).
	WindowStartHour int `yaml:"window_start_hour" json:"window_start_hour"`
	WindowEndHour   int `yaml:"window_end_hour" json:"window_end_hour"`

	// HourHeightPx is the rendered height of one hour.
	HourHeightPx int `yaml:"hour_height_px" json:"hour_height_px"`

	// MinDurationMin / MinHeightPx floor the geometry of very short
	// or degenerate events so they stay visible and tappable.
	MinDurationMin int `yaml:"min_duration_min" json:"min_duration_min"`
	MinHeightPx    int `yaml:"min_height_px" json:"min_height_px"`

	// Fixture is the path to the sample data file (.yaml or .ics).
	Fixture string `yaml:"fixture" json:"fixture"`

	// RefreshCron is a cron-style schedule (e.g. "*/15 * * * *") for
	// periodic preview captures.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// PreviewPath is where captured PNG previews are written and
	// served from.
	PreviewPath string `yaml:"preview_path" json:"preview_path"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:          "127.0.0.1:8080",
		WeekStart:       "monday",
		WindowStartHour: 8,
		WindowEndHour:   16,
		HourHeightPx:    72,
		MinDurationMin:  10,
		MinHeightPx:     12,
		Fixture:         "fixtures/sample.yaml",
		RefreshCron:     "*/15 * * * *",
		PreviewPath:     "./cache/preview.png",
		BasicAuth:       nil,
	}
}

// Normalize fills in missing/zero values with defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	switch c.WeekStart {
	case "monday", "sunday":
	default:
		// Unknown or empty; fall back to monday to avoid surprising
		// layouts.
		c.WeekStart = "monday"
	}
	if c.WindowStartHour < 0 || c.WindowStartHour > 23 {
		c.WindowStartHour = 8
	}
	if c.WindowEndHour <= c.WindowStartHour || c.WindowEndHour > 24 {
		c.WindowEndHour = c.WindowStartHour + 8
		if c.WindowEndHour > 24 {
			c.WindowEndHour = 24
		}
	}
	if c.HourHeightPx <= 0 {
		c.HourHeightPx = 72
	}
	if c.MinDurationMin <= 0 {
		c.MinDurationMin = 10
	}
	if c.MinHeightPx <= 0 {
		c.MinHeightPx = 12
	}
	if c.Fixture == "" {
		c.Fixture = "fixtures/sample.yaml"
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "*/15 * * * *"
	}
	if c.PreviewPath == "" {
		c.PreviewPath = "./cache/preview.png"
	}
}

// WeekStartDay maps the WeekStart string to a time.Weekday.
func (c *Config) WeekStartDay() time.Weekday {
	if c.WeekStart == "sunday" {
		return time.Sunday
	}
	return time.Monday
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written there
//     (creating the parent directory) and returned.
//   - If the file exists, it is unmarshaled and normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Return cfg with the error so the caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the configuration to path atomically (temp file +
// rename) with 0600 permissions, creating the parent directory if
// needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".glasscal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience method that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
