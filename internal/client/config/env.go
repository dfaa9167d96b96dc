package config

import (
	"github.com/caarlos0/env/v11"
)

// parseEnv overlays cfg with the BUILDTRACK_* variables present in environ.
// Unset variables leave the current values alone.
func parseEnv(cfg *Config, environ map[string]string) error {
	if environ == nil {
		environ = map[string]string{}
	}
	return env.ParseWithOptions(cfg, env.Options{Environment: environ})
}
