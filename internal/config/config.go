package config

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"
)

// Config represents the complete application configuration. Values come from,
// in increasing precedence: built-in defaults, the user config file
// ($XDG_CONFIG_HOME/fightpath/config.yaml), FIGHTPATH_* environment variables,
// and runtime overrides.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Ingest   IngestConfig   `mapstructure:"ingest"`
	Sampling SamplingConfig `mapstructure:"sampling"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Health   HealthConfig   `mapstructure:"health"`
}

// APIConfig configures the report API client.
type APIConfig struct {
	URL       string        `mapstructure:"url"`
	Token     string        `mapstructure:"token"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`

	// QuotaThreshold is the remaining-points floor below which queries wait
	// for the hourly reset.
	QuotaThreshold float64 `mapstructure:"quota_threshold"`
}

// IngestConfig controls trajectory building.
type IngestConfig struct {
	// Workers is the number of goroutines sharing entities during ingestion.
	Workers int `mapstructure:"workers"`
}

// SamplingConfig controls frame sampling.
type SamplingConfig struct {
	// Rate is frames per second of fight time.
	Rate float64 `mapstructure:"rate"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// CacheEntries bounds the reports and fights kept in memory between requests.
	CacheEntries int `mapstructure:"cache_entries"`

	// AdminToken enables the signal endpoint; empty disables it.
	AdminToken string `mapstructure:"admin_token"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	// Level controls the minimum log level
	// Valid values: trace, debug, info, warn, error
	Level string `mapstructure:"level"`

	// Profile selects SIMPLE (console) or STRUCTURED (JSON) output.
	Profile string `mapstructure:"profile"`
}

// MetricsConfig contains Prometheus metrics configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Port is the dedicated Prometheus exporter port; 0 picks a free port.
	Port int `mapstructure:"port"`
}

// HealthConfig contains health check configuration
type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config is nil")
	}
	if strings.TrimSpace(c.API.URL) == "" {
		return fmt.Errorf("api.url is required")
	}
	if u, err := url.Parse(c.API.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.url %q is not an absolute URL", c.API.URL)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	if c.API.QuotaThreshold < 0 {
		return fmt.Errorf("api.quota_threshold must not be negative")
	}
	if c.Ingest.Workers < 0 {
		return fmt.Errorf("ingest.workers must not be negative")
	}
	if !(c.Sampling.Rate > 0) || math.IsInf(c.Sampling.Rate, 0) {
		return fmt.Errorf("sampling.rate must be a positive finite number")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.CacheEntries < 0 {
		return fmt.Errorf("server.cache_entries must not be negative")
	}
	if c.Metrics.Port < 0 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port %d out of range", c.Metrics.Port)
	}
	return nil
}

// RequireToken reports a missing API token.
func (c *Config) RequireToken() error {
	if c == nil || strings.TrimSpace(c.API.Token) == "" {
		return fmt.Errorf("api token is not set (use %sAPI_TOKEN or api.token in %s)", EnvPrefix+"_", DefaultConfigPath())
	}
	return nil
}
