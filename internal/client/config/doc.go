// Package config loads runtime configuration for the buildtrack CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. BUILDTRACK_* environment variables.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   API base URL
//	-o string   API origin used to resolve a relative base URL
//	-s string   session storage file
//	-t int      request timeout (seconds)
//	-i int      reachability check interval (seconds)
//	-l string   log level
//
// # JSON schema
//
//	{
//	  "api_base_url": "/api",
//	  "api_origin": "https://app.buildtrack.example",
//	  "storage_path": "buildtrack.db",
//	  "request_timeout": "30s",
//	  "ping_interval": "30s",
//	  "log_level": "info"
//	}
package config
