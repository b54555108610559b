// Package config loads the YAML configuration of the domsugar command.
package config

import (
	"bytes"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/chrisuehlinger/domsugar/events"
)

// Validation errors returned by Load and Validate.
var (
	ErrInvalidBackend   = errors.New("config: invalid events.backend")
	ErrInvalidLogLevel  = errors.New("config: invalid log.level")
	ErrInvalidLogFormat = errors.New("config: invalid log.format")
	ErrInvalidTimeout   = errors.New("config: invalid fetch.timeout")
)

// Config is the root of the configuration file.
type Config struct {
	Log    LogConfig    `yaml:"log"`
	Events EventsConfig `yaml:"events"`
	Script ScriptConfig `yaml:"script"`
	Fetch  FetchConfig  `yaml:"fetch"`
}

// LogConfig selects the zap level and encoder.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug|info|warn|error
	Format string `yaml:"format"` // console|json
}

// EventsConfig selects the dispatch backend and whether removed subtrees
// drop their listener registries.
type EventsConfig struct {
	Backend         string `yaml:"backend"` // auto|native|legacy
	ReleaseOnRemove bool   `yaml:"release_on_remove"`
}

// ScriptConfig controls which scripts run and whether the page completes.
type ScriptConfig struct {
	// FireReady completes the document after the script ran, firing
	// DOMContentLoaded and load.
	FireReady bool `yaml:"fire_ready"`
	// PageScripts runs the page's own classic scripts, in document order,
	// before the script given on the command line.
	PageScripts bool `yaml:"page_scripts"`
}

// FetchConfig configures the HTTP client used for pages and scripts.
type FetchConfig struct {
	Timeout   time.Duration `yaml:"timeout"` // e.g. 30s
	UserAgent string        `yaml:"user_agent"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Events: EventsConfig{
			Backend:         string(events.ModeAuto),
			ReleaseOnRemove: true,
		},
		Script: ScriptConfig{
			FireReady:   true,
			PageScripts: true,
		},
		Fetch: FetchConfig{
			Timeout:   30 * time.Second,
			UserAgent: "domsugar/1.0",
		},
	}
}

// Load reads the file at path over the defaults. An empty path returns the
// defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate normalizes case and checks every enumerated field.
func (c *Config) Validate() error {
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	c.Events.Backend = strings.ToLower(strings.TrimSpace(c.Events.Backend))

	switch events.Mode(c.Events.Backend) {
	case events.ModeAuto, events.ModeNative, events.ModeLegacy:
	default:
		return errors.Wrapf(ErrInvalidBackend, "%q", c.Events.Backend)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return errors.Wrapf(ErrInvalidLogFormat, "%q", c.Log.Format)
	}
	if c.Fetch.Timeout <= 0 {
		return errors.Wrapf(ErrInvalidTimeout, "%s", c.Fetch.Timeout)
	}
	return nil
}

// BackendMode returns the configured backend mode.
func (c *Config) BackendMode() events.Mode {
	return events.Mode(c.Events.Backend)
}
