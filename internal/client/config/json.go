package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/buildtrack/internal/flagx"
	"github.com/dmitrijs2005/buildtrack/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. The timeout
// and ping interval may be written as "30s" or as integer nanoseconds.
type JsonConfig struct {
	APIBaseURL     string         `json:"api_base_url"`
	APIOrigin      string         `json:"api_origin"`
	StoragePath    string         `json:"storage_path"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	PingInterval   timex.Duration `json:"ping_interval"`
	LogLevel       string         `json:"log_level"`
}

// parseJSON overlays cfg with the file named by -c or -config in args.
// Keys missing from the file keep their current values.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.JSONConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	jc := JsonConfig{
		APIBaseURL:     cfg.APIBaseURL,
		APIOrigin:      cfg.APIOrigin,
		StoragePath:    cfg.StoragePath,
		RequestTimeout: timex.Duration{Duration: cfg.RequestTimeout},
		PingInterval:   timex.Duration{Duration: cfg.PingInterval},
		LogLevel:       cfg.LogLevel,
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		return err
	}

	cfg.APIBaseURL = jc.APIBaseURL
	cfg.APIOrigin = jc.APIOrigin
	cfg.StoragePath = jc.StoragePath
	cfg.RequestTimeout = jc.RequestTimeout.Duration
	cfg.PingInterval = jc.PingInterval.Duration
	cfg.LogLevel = jc.LogLevel
	return nil
}
