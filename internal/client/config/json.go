package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/vkazlou/askpdf/internal/flagx"
	"github.com/vkazlou/askpdf/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "3s" or
// as integer nanoseconds. After parsing, values are copied into the runtime
// Config (which uses time.Duration).
type JsonConfig struct {
	APIBaseURL         string         `json:"api_base_url"`
	DatabasePath       string         `json:"database_path"`
	StatusPollInterval timex.Duration `json:"status_poll_interval"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags via flagx.JsonConfigFlags; with no
// such flag nothing is loaded. Fields absent from the JSON leave the current
// values untouched. Read or unmarshal errors panic, configuration being
// unusable is fatal at startup.
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

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.StatusPollInterval.Duration != 0 {
		cfg.StatusPollInterval = time.Duration(jc.StatusPollInterval.Duration)
	}
}
