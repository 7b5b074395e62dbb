package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/useradmin/internal/flagx"
	"github.com/dmitrijs2005/useradmin/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer fields
// tell "absent" apart from an explicit zero value.
type JsonConfig struct {
	APIBaseURL     *string         `json:"api_base_url"`
	APIKey         *string         `json:"api_key"`
	StorePath      *string         `json:"store_path"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	RatePerSecond  *float64        `json:"rate_per_second"`
	LogLevel       *string         `json:"log_level"`
	LogFormat      *string         `json:"log_format"`
}

// parseJson overlays Config with values loaded from the file named by -c or
// -config. Without either flag it does nothing. Read and decode errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.APIKey, jc.APIKey)
	setString(&cfg.StorePath, jc.StorePath)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.RatePerSecond != nil {
		cfg.RatePerSecond = *jc.RatePerSecond
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
