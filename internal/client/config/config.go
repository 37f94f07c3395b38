package config

import "time"

// Config holds runtime settings for the askpdf CLI.
//
// Fields:
//   - APIBaseURL: base URL of the backend REST API.
//   - DatabasePath: path of the local mirror store. Empty means the default
//     location under the application directory, resolved by the caller.
//   - StatusPollInterval: how often document processing status is polled.
type Config struct {
	APIBaseURL         string
	DatabasePath       string
	StatusPollInterval time.Duration
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000"
	c.DatabasePath = ""
	c.StatusPollInterval = 3 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, a JSON file (if present), and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
