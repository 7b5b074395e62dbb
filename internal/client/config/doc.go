// Package config loads runtime configuration for the useradmin CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment variables prefixed USERADMIN_, optionally seeded from a
//     dotenv file (-e/-env-file, or ./.env).
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   API base URL (default https://reqres.in/api)
//	-k string   API key sent as the x-api-key header
//	-d string   local store path (default useradmin.db)
//	-t int      request timeout in seconds (default 10)
//	-r float    requests per second, 0 disables throttling (default 5)
//	-l string   log level (default warn)
//
// # JSON schema
//
// Durations use timex.Duration, so "10s" and integer nanoseconds both work:
//
//	{
//	  "api_base_url": "http://localhost:8080/api",
//	  "api_key": "reqres-free-v1",
//	  "store_path": "/tmp/useradmin.db",
//	  "request_timeout": "5s",
//	  "rate_per_second": 2,
//	  "log_level": "debug",
//	  "log_format": "console"
//	}
//
// # Environment
//
//	USERADMIN_API_BASE_URL, USERADMIN_API_KEY, USERADMIN_STORE_PATH,
//	USERADMIN_REQUEST_TIMEOUT ("15s" or seconds), USERADMIN_RATE_PER_SECOND,
//	USERADMIN_LOG_LEVEL, USERADMIN_LOG_FORMAT (text, json, console)
package config
