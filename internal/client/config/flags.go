package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/useradmin/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   API base URL
//	-k string   API key sent as x-api-key
//	-d string   path of the local sqlite store
//	-t int      request timeout (seconds)
//	-r float    client-side request rate limit (per second, 0 = off)
//	-l string   log level (debug, info, warn, error)
//
// os.Args is filtered through flagx.FilterArgs first so flags owned by other
// loaders (-c, -e) do not break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-k", "-d", "-t", "-r", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	fs.StringVar(&cfg.APIKey, "k", cfg.APIKey, "API key")
	fs.StringVar(&cfg.StorePath, "d", cfg.StorePath, "local store path")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.Float64Var(&cfg.RatePerSecond, "r", cfg.RatePerSecond, "requests per second (0 = unlimited)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
