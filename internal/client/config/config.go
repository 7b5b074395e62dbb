package config

import "time"

// Config holds runtime settings for the useradmin CLI.
//
// Units: RequestTimeout is a time.Duration; RatePerSecond is requests per
// second, 0 meaning unlimited.
type Config struct {
	APIBaseURL     string
	APIKey         string
	StorePath      string
	RequestTimeout time.Duration
	RatePerSecond  float64
	LogLevel       string
	LogFormat      string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://reqres.in/api"
	c.APIKey = ""
	c.StorePath = "useradmin.db"
	c.RequestTimeout = 10 * time.Second
	c.RatePerSecond = 5
	c.LogLevel = "warn"
	c.LogFormat = "text"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment (including a dotenv file) and
// command-line flags. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
