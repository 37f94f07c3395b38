package config

import "os"

// Supported environment variables.
const (
	envAPIBaseURL   = "ASKPDF_API_URL"
	envDatabasePath = "ASKPDF_DB_PATH"
)

// parseEnv overlays Config with values from the environment. Unset variables
// leave the current values untouched.
func parseEnv(cfg *Config) {
	if v := os.Getenv(envAPIBaseURL); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv(envDatabasePath); v != "" {
		cfg.DatabasePath = v
	}
}
