package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/useradmin/internal/flagx"
	"github.com/joho/godotenv"
)

const envPrefix = "USERADMIN_"

// Environment variable names, without envPrefix.
const (
	envAPIBaseURL     = "API_BASE_URL"
	envAPIKey         = "API_KEY"
	envStorePath      = "STORE_PATH"
	envRequestTimeout = "REQUEST_TIMEOUT"
	envRatePerSecond  = "RATE_PER_SECOND"
	envLogLevel       = "LOG_LEVEL"
	envLogFormat      = "LOG_FORMAT"
)

// parseEnv overlays Config with USERADMIN_* variables.
//
// A dotenv file is loaded first: the one named by -e/-env-file, otherwise
// ./.env when it exists. Variables already set in the process environment
// win over the file. Malformed values panic.
func parseEnv(cfg *Config) {
	loadDotenv(flagx.EnvFileFlags())

	if v, ok := lookup(envAPIBaseURL); ok {
		cfg.APIBaseURL = v
	}
	if v, ok := lookup(envAPIKey); ok {
		cfg.APIKey = v
	}
	if v, ok := lookup(envStorePath); ok {
		cfg.StorePath = v
	}
	if v, ok := lookup(envRequestTimeout); ok {
		cfg.RequestTimeout = parseTimeout(v)
	}
	if v, ok := lookup(envRatePerSecond); ok {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			panic(err)
		}
		cfg.RatePerSecond = rate
	}
	if v, ok := lookup(envLogLevel); ok {
		cfg.LogLevel = v
	}
	if v, ok := lookup(envLogFormat); ok {
		cfg.LogFormat = v
	}
}

func loadDotenv(path string) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
		return
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// parseTimeout accepts a Go duration ("15s") or a bare number of seconds.
func parseTimeout(v string) time.Duration {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	return d
}
