package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/buildtrack/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
//	-a string   API base URL (absolute, or a path resolved against -o)
//	-o string   API origin
//	-s string   session storage file
//	-t int      request timeout (seconds)
//	-i int      reachability check interval (seconds)
//	-l string   log level
//
// Only the flags above are looked at; others in args are ignored. The
// duration flags only apply when given, so finer values from JSON or env
// survive.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-o", "-s", "-t", "-i", "-l"})

	fs := flag.NewFlagSet("buildtrack", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	fs.StringVar(&cfg.APIOrigin, "o", cfg.APIOrigin, "API origin")
	fs.StringVar(&cfg.StoragePath, "s", cfg.StoragePath, "session storage file")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	pingInterval := fs.Int("i", int(cfg.PingInterval.Seconds()), "reachability check interval (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		case "i":
			cfg.PingInterval = time.Duration(*pingInterval) * time.Second
		}
	})
	return nil
}
