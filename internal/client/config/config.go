package config

import (
	"time"

	"github.com/driftdesk/driftdesk-cli/internal/filex"
)

// EnvAPIBaseURL selects the Drift Desk API base URL.
const EnvAPIBaseURL = "DRIFTDESK_API_BASE_URL"

const DefaultAPIBaseURL = "http://localhost:8000"

// Config holds runtime settings for the Drift Desk CLI.
//
// Fields:
//   - APIBaseURL: scheme://host[:port] of the REST API.
//   - PollInterval: how often the unread notification count is refreshed.
//   - RequestTimeout: upper bound for a single API call.
//   - DataFile: SQLite file holding the auth token and cached user.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	APIBaseURL     string
	PollInterval   time.Duration
	RequestTimeout time.Duration
	DataFile       string
	LogLevel       string
}

const (
	DefaultPollInterval   = 30 * time.Second
	DefaultRequestTimeout = 15 * time.Second
)

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = DefaultAPIBaseURL
	c.PollInterval = DefaultPollInterval
	c.RequestTimeout = DefaultRequestTimeout
	c.DataFile = filex.DefaultDataPath("desk.db")
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	cfg.normalize()
	return cfg
}

// normalize replaces non-positive durations with the defaults.
func (c *Config) normalize() {
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
}
