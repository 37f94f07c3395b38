// Package config loads runtime configuration for the askpdf CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables ASKPDF_API_URL and ASKPDF_DB_PATH.
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend REST API
//	-d string   path of the local mirror store
//	-i int      document status poll interval (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:8000",
//	  "database_path": "/home/me/.askpdf/askpdf.db",
//	  "status_poll_interval": "3s"
//	}
//
// Primary API
//
//   - type Config                     — holds APIBaseURL, DatabasePath, StatusPollInterval
//   - func LoadConfig() *Config       — builds Config by applying defaults, env, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets development defaults
package config
