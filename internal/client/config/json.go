package config

import (
	"encoding/json"
	"os"

	"github.com/driftdesk/driftdesk-cli/internal/flagx"
	"github.com/driftdesk/driftdesk-cli/internal/timex"
)

// JsonConfig is a DTO used only for unmarshalling the config file.
// Empty fields leave the current value alone.
type JsonConfig struct {
	APIBaseURL     string         `json:"api_base_url"`
	PollInterval   timex.Duration `json:"poll_interval"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	DataFile       string         `json:"data_file"`
	LogLevel       string         `json:"log_level"`
}

// parseJson overlays cfg with the file named by -c/-config. It panics on read
// or decode errors; a broken config file is a startup failure.
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
	if jc.PollInterval.Duration > 0 {
		cfg.PollInterval = jc.PollInterval.Duration
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.DataFile != "" {
		cfg.DataFile = jc.DataFile
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}

func parseEnv(cfg *Config) {
	cfg.APIBaseURL = flagx.Env(EnvAPIBaseURL, cfg.APIBaseURL)
}
