// Package config handles configuration for the reference penguin backend,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"time"

	"github.com/dmitrijs2005/penguintracker/internal/common"
)

// Config holds runtime settings of the backend.
//
// Fields:
//   - EndpointAddr: bind address of the HTTP API.
//   - SecretKey: HMAC secret for signing access tokens (HS256). Do not use the default in prod.
//   - AccessTokenValidityDuration: access token lifetime.
//   - PasswordHashCost: bcrypt cost for stored passwords.
//   - DatabaseDSN: PostgreSQL connection string; empty keeps everything in memory.
//   - Seed: load the sample penguin colony on start (only into an empty table).
//   - LogLevel / LogBackend: see logging.ParseLevel and logging.Backend.
type Config struct {
	EndpointAddr                string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	PasswordHashCost            int
	DatabaseDSN                 string
	Seed                        bool
	LogLevel                    string
	LogBackend                  string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8080"
	c.SecretKey = "penguin-dev-secret-key"
	c.AccessTokenValidityDuration = 60 * time.Minute
	c.PasswordHashCost = 10
	c.Seed = true
	c.LogLevel = "info"
	c.LogBackend = "text"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags. An empty
// secret key (-s "") is replaced by a random one, so issued tokens do not
// survive a restart.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)

	if cfg.SecretKey == "" {
		key, err := common.MakeRandHexString(32)
		if err != nil {
			panic(err)
		}
		cfg.SecretKey = key
	}
	return cfg
}
