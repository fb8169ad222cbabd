// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - New returns a Config populated with defaults.
//   - Load layers defaults, an optional YAML file, and TRIPBOARD_* env vars.
//   - Demo mode is resolved once here and passed down; nothing mutates it later.
package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var metricName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StoreURL points at the feedback store. postgres://, postgresql://,
	// mongodb://, mongodb+srv:// and memory:// are understood. Empty means
	// demo mode.
	StoreURL string `koanf:"store_url"`

	// StoreTable names the table (or collection) holding feedback records.
	StoreTable string `koanf:"store_table"`

	// DemoMode forces demo mode even when StoreURL is set.
	DemoMode bool `koanf:"demo_mode"`

	// DemoLatencyMS is the simulated submit latency in demo mode.
	DemoLatencyMS int `koanf:"demo_latency_ms"`

	// RedisURL enables the Redis session store when set.
	RedisURL string `koanf:"redis_url"`

	// SessionTTLMinutes bounds how long an idle session is kept.
	SessionTTLMinutes int `koanf:"session_ttl_minutes"`

	// CookieName and CookieSecure configure the session cookie.
	CookieName   string `koanf:"cookie_name"`
	CookieSecure bool   `koanf:"cookie_secure"`

	// AllowedOrigins lists CORS origins for the JSON API.
	AllowedOrigins []string `koanf:"allowed_origins"`

	// SubmitRatePerMinute caps state-changing requests per client IP.
	SubmitRatePerMinute int `koanf:"submit_rate_per_minute"`

	// OrganizerName is shown next to the private feedback block.
	OrganizerName string `koanf:"organizer_name"`

	// MetricsNamespace prefixes every exported Prometheus metric.
	MetricsNamespace string `koanf:"metrics_namespace"`

	// ConnectRetryMaxSeconds bounds the startup ping retries against the store.
	ConnectRetryMaxSeconds int `koanf:"connect_retry_max_seconds"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		LogFormat:              "text",
		Addr:                   ":8080",
		StoreTable:             "trip_feedback",
		DemoLatencyMS:          1000,
		SessionTTLMinutes:      12 * 60,
		CookieName:             "tripboard_session",
		AllowedOrigins:         []string{"http://localhost:5173"},
		SubmitRatePerMinute:    30,
		OrganizerName:          "Doug",
		MetricsNamespace:       "tripboard",
		ConnectRetryMaxSeconds: 30,
	}
}

// Demo reports whether persistence is simulated.
func (c *Config) Demo() bool {
	return c.DemoMode || strings.TrimSpace(c.StoreURL) == ""
}

// DemoLatency returns the simulated submit latency.
func (c *Config) DemoLatency() time.Duration {
	return time.Duration(c.DemoLatencyMS) * time.Millisecond
}

// SessionTTL returns the idle session lifetime.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// ConnectRetryMax returns the startup connect retry budget.
func (c *Config) ConnectRetryMax() time.Duration {
	return time.Duration(c.ConnectRetryMaxSeconds) * time.Second
}

// Validate checks the values Load cannot fix up on its own.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.CookieName) == "":
		return fmt.Errorf("%w: cookie_name must not be empty", ErrInvalidConfig)
	case c.DemoLatencyMS < 0:
		return fmt.Errorf("%w: demo_latency_ms must not be negative", ErrInvalidConfig)
	case c.SessionTTLMinutes <= 0:
		return fmt.Errorf("%w: session_ttl_minutes must be positive", ErrInvalidConfig)
	case c.SubmitRatePerMinute < 0:
		return fmt.Errorf("%w: submit_rate_per_minute must not be negative", ErrInvalidConfig)
	case !metricName.MatchString(c.MetricsNamespace):
		return fmt.Errorf("%w: metrics_namespace %q is not a valid metric name", ErrInvalidConfig, c.MetricsNamespace)
	case !c.Demo() && strings.TrimSpace(c.StoreTable) == "":
		return fmt.Errorf("%w: store_table must not be empty", ErrInvalidConfig)
	}
	return nil
}
