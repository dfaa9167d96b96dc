package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime settings for the buildtrack CLI.
//
// Fields:
//   - APIBaseURL: API root. A relative path such as "/api" is resolved
//     against APIOrigin.
//   - APIOrigin: scheme and host of the backend.
//   - StoragePath: SQLite file holding the session tokens.
//   - RequestTimeout: budget for a single HTTP round-trip.
//   - PingInterval: how often the CLI checks backend reachability.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	APIBaseURL     string        `env:"BUILDTRACK_API_URL"`
	APIOrigin      string        `env:"BUILDTRACK_API_ORIGIN"`
	StoragePath    string        `env:"BUILDTRACK_STORAGE"`
	RequestTimeout time.Duration `env:"BUILDTRACK_REQUEST_TIMEOUT"`
	PingInterval   time.Duration `env:"BUILDTRACK_PING_INTERVAL"`
	LogLevel       string        `env:"BUILDTRACK_LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "/api"
	c.APIOrigin = "http://127.0.0.1:8080"
	c.StoragePath = "buildtrack.db"
	c.RequestTimeout = 30 * time.Second
	c.PingInterval = 30 * time.Second
	c.LogLevel = "info"
}

// Load builds a Config from defaults, then the JSON file named by -c/-config
// in args, then environ, then the flags in args. Later sources win.
func Load(args []string, environ map[string]string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, fmt.Errorf("json config: %w", err)
	}
	if err := parseEnv(cfg, environ); err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	return cfg, nil
}

// LoadConfig loads the configuration of the running process.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:], env.ToMap(os.Environ()))
}

// BaseURL returns the absolute API root requests are sent to.
func (c *Config) BaseURL() (string, error) {
	base, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if base.IsAbs() {
		return base.String(), nil
	}

	origin, err := url.Parse(c.APIOrigin)
	if err != nil {
		return "", fmt.Errorf("parse api origin: %w", err)
	}
	if origin.Scheme == "" || origin.Host == "" {
		return "", fmt.Errorf("api origin %q must include scheme and host", c.APIOrigin)
	}
	return origin.ResolveReference(base).String(), nil
}
