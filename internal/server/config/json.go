package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/penguintracker/internal/flagx"
	"github.com/dmitrijs2005/penguintracker/internal/timex"
)

// JsonConfig is the on-disk shape of the backend config. Durations accept
// "90s" style strings or integer nanoseconds.
type JsonConfig struct {
	EndpointAddr                string         `json:"endpoint_addr"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	DatabaseDSN                 string         `json:"database_dsn"`
	Seed                        *bool          `json:"seed"`
	LogLevel                    string         `json:"log_level"`
	LogBackend                  string         `json:"log_backend"`
}

// parseJson overlays the file named by -c/-config onto config. Only keys
// present in the file change anything. An unreadable or invalid file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.Seed != nil {
		config.Seed = *c.Seed
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
	if c.LogBackend != "" {
		config.LogBackend = c.LogBackend
	}
}
